package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComplementsOf_ExcludesSelf(t *testing.T) {
	for _, g := range AllCategoryGroups() {
		assert.NotContains(t, ComplementsOf(g), g, "group %s", g)
	}
}

func TestComplementsOf_Symmetric(t *testing.T) {
	for source, complements := range complementGroups {
		for _, c := range complements {
			assert.Contains(t, ComplementsOf(c), source, "%s complements %s but not vice versa", source, c)
		}
	}
}

func TestComplementsOf_Order(t *testing.T) {
	assert.Equal(t, []CategoryGroup{BottomWear, Footwear, Accessories, OuterWear}, ComplementsOf(UpperWear))
	assert.Equal(t, []CategoryGroup{UpperWear, BottomWear, Footwear, Accessories}, ComplementsOf(OuterWear))
	assert.Equal(t, []CategoryGroup{UpperWear, BottomWear, Footwear, OuterWear}, ComplementsOf(Accessories))
}

func TestComplementsOf_UnknownGroupsAreEmpty(t *testing.T) {
	assert.Empty(t, ComplementsOf(OtherItems))
	assert.Empty(t, ComplementsOf("hats"))
	assert.NotNil(t, ComplementsOf("hats"))
}

func TestComplementsOf_ReturnsCopy(t *testing.T) {
	got := ComplementsOf(UpperWear)
	got[0] = OtherItems

	assert.Equal(t, BottomWear, ComplementsOf(UpperWear)[0])
}

func TestParseCategoryGroup(t *testing.T) {
	g, ok := ParseCategoryGroup(" FOOTWEAR ")
	assert.True(t, ok)
	assert.Equal(t, Footwear, g)

	_, ok = ParseCategoryGroup("hats")
	assert.False(t, ok)
}
