package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutfitDate(t *testing.T) {
	d, err := ParseOutfitDate(" 2025-03-14 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), d)

	for _, bad := range []string{"", "14.03.2025", "2025-13-01", "2025-03-14T10:00:00Z"} {
		_, err := ParseOutfitDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestCalendarOutfit_RetentionCutoff(t *testing.T) {
	o := NewCalendarOutfit("u1", time.Date(2025, 3, 2, 18, 30, 0, 0, time.UTC), "http://img/o.jpg")

	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), o.OutfitDate)
	// через границу месяца
	assert.Equal(t, time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC), o.RetentionCutoff())
	assert.NotEmpty(t, o.ID)
}
