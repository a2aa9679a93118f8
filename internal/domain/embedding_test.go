package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGarmentPayload_Defaults(t *testing.T) {
	g := &Garment{
		ID:            "item-1",
		OwnerID:       "user-1",
		CategoryGroup: UpperWear,
		Category:      "T-Shirt",
		ImageURL:      "http://minio/wearwhat/wardrobe/1.jpg",
		Attributes:    map[string]string{AttrColor: "Blue", "neckline": "Round", PayloadUserID: "spoofed"},
	}

	p := NewGarmentPayload(g)

	assert.Equal(t, "item-1", p.String(PayloadItemID))
	assert.Equal(t, "user-1", p.String(PayloadUserID))
	assert.Equal(t, "upperWear", p.String(PayloadCategoryGroup))
	assert.Equal(t, "Blue", p.String(AttrColor))
	assert.Equal(t, DefaultUnknown, p.String(AttrPattern))
	assert.Equal(t, DefaultUnknown, p.String(AttrMaterial))
	assert.Equal(t, DefaultSeason, p.String(AttrSeason))
	assert.Equal(t, DefaultOccasion, p.String(AttrOccasion))
	assert.Equal(t, "Round", p.String("neckline"))
}

func TestVectorFilter_ConditionsAndMatches(t *testing.T) {
	f := VectorFilter{OwnerID: "u1", CategoryGroup: Footwear, Season: "Winter"}

	assert.Equal(t, []FilterCondition{
		{Field: PayloadUserID, Value: "u1"},
		{Field: PayloadCategoryGroup, Value: "footwear"},
		{Field: AttrSeason, Value: "Winter"},
	}, f.Conditions())

	assert.True(t, f.Matches(Payload{PayloadUserID: "u1", PayloadCategoryGroup: "footwear", AttrSeason: "Winter"}))
	assert.False(t, f.Matches(Payload{PayloadUserID: "u2", PayloadCategoryGroup: "footwear", AttrSeason: "Winter"}))
	assert.False(t, f.Matches(Payload{PayloadUserID: "u1", PayloadCategoryGroup: "footwear"}))
}
