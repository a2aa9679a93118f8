package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
)

func testCalendarOutfit() *domain.CalendarOutfit {
	temp := 12.0
	return &domain.CalendarOutfit{
		ID:                 "c1",
		OwnerID:            "user-1",
		OutfitDate:         time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		CombinedImageURL:   "http://minio/wearwhat/o.jpg",
		Temperature:        &temp,
		SelectedCategories: []string{"Jacket"},
		Items: []domain.CalendarOutfitItem{
			{ID: "a", ImageURL: "http://img/a.jpg", CategoryGroup: domain.OuterWear, Category: "Jacket"},
		},
		CreatedAt: time.Date(2025, 3, 13, 8, 0, 0, 0, time.UTC),
	}
}

func TestSaveCalendarOutfitHandler(t *testing.T) {
	t.Run("успех", func(t *testing.T) {
		env := newTestEnv(t)
		env.calendar.saved = testCalendarOutfit()

		body := `{"outfit_date":"2025-03-14","combined_image_url":"http://minio/wearwhat/o.jpg","temperature":12,` +
			`"selected_categories":["Jacket"],"items":[{"id":"a","image_url":"http://img/a.jpg","categoryGroup":"outerWear","category":"Jacket"}]}`
		rec := env.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/calendar-outfits", strings.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)
		req := env.calendar.lastSave
		require.NotNil(t, req)
		assert.Equal(t, "user-1", req.OwnerID)
		assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), req.OutfitDate)
		require.Len(t, req.Items, 1)
		assert.Equal(t, domain.OuterWear, req.Items[0].CategoryGroup)

		var res CalendarOutfitEnvelope
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
		assert.True(t, res.Success)
		assert.Equal(t, "2025-03-14", res.Outfit.OutfitDate)
		assert.Nil(t, res.Outfit.Prompt)
		require.NotNil(t, res.Outfit.Temperature)
		assert.Equal(t, 12.0, *res.Outfit.Temperature)
	})

	t.Run("кривая дата", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/calendar-outfits",
			strings.NewReader(`{"outfit_date":"14.03.2025","combined_image_url":"x"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, env.calendar.lastSave)
	})

	t.Run("без картинки", func(t *testing.T) {
		env := newTestEnv(t)
		env.calendar.err = e.Wrap("CalendarUseCase.SaveOutfit", e.ErrMissingOutfitImage)
		rec := env.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/calendar-outfits",
			strings.NewReader(`{"outfit_date":"2025-03-14"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, e.ErrMissingOutfitImage.Error(), decodeError(t, rec).Message)
	})
}

func TestListCalendarOutfitsHandler(t *testing.T) {
	env := newTestEnv(t)
	env.calendar.outfits = []*domain.CalendarOutfit{testCalendarOutfit()}

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/calendar-outfits", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var res ListCalendarOutfitsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "outerWear", res.Outfits[0].Items[0].CategoryGroup)
}

func TestCalendarOutfitByDateHandler(t *testing.T) {
	t.Run("нет образа", func(t *testing.T) {
		env := newTestEnv(t)
		env.calendar.err = e.Wrap("CalendarUseCase.GetOutfit", e.ErrCalendarOutfitNotFound)

		rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/calendar-outfits/2025-03-14", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, msgNoCalendarOutfit, decodeError(t, rec).Message)
		assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), env.calendar.lastDate)
	})

	t.Run("кривая дата", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/calendar-outfits/tomorrow", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.True(t, env.calendar.lastDate.IsZero())
	})

	t.Run("удаление", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/calendar-outfits/2025-03-14", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var res MessageResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
		assert.Equal(t, "Outfit deleted", res.Message)
	})
}
