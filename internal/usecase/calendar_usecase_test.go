package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
)

func mustOutfitDate(s string) time.Time {
	d, err := domain.ParseOutfitDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newCalendarUC() (*CalendarUseCase, *fakeCalendarRepo) {
	repo := newFakeCalendarRepo()
	return NewCalendarUC(repo, fakeTransactor{}, testLogger()), repo
}

func TestSaveOutfit_ReplacesSameDate(t *testing.T) {
	uc, repo := newCalendarUC()
	ctx := context.Background()

	first, err := uc.SaveOutfit(ctx, NewSaveCalendarOutfitReq("u1", mustOutfitDate("2025-03-14"), "http://img/1.jpg"))
	require.NoError(t, err)

	req := NewSaveCalendarOutfitReq("u1", mustOutfitDate("2025-03-14"), " http://img/2.jpg ")
	req.Prompt = "  office  "
	req.SelectedCategories = []string{"Jacket", " ", "Jacket", "Boots"}
	second, err := uc.SaveOutfit(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "http://img/2.jpg", second.CombinedImageURL)
	assert.Equal(t, "office", second.Prompt)
	assert.Equal(t, []string{"Jacket", "Boots"}, second.SelectedCategories)
	assert.NotNil(t, second.Items)
	assert.Len(t, repo.outfits, 1)
}

func TestSaveOutfit_PrunesOlderThanRetention(t *testing.T) {
	uc, _ := newCalendarUC()
	ctx := context.Background()

	for _, d := range []string{"2025-03-01", "2025-03-04", "2025-03-05", "2025-03-08"} {
		_, err := uc.SaveOutfit(ctx, NewSaveCalendarOutfitReq("u1", mustOutfitDate(d), "http://img/"+d+".jpg"))
		require.NoError(t, err)
	}
	_, err := uc.SaveOutfit(ctx, NewSaveCalendarOutfitReq("u2", mustOutfitDate("2025-02-01"), "http://img/other.jpg"))
	require.NoError(t, err)

	// граница 2025-03-04: сама дата остаётся
	_, err = uc.SaveOutfit(ctx, NewSaveCalendarOutfitReq("u1", mustOutfitDate("2025-03-09"), "http://img/new.jpg"))
	require.NoError(t, err)

	outfits, err := uc.ListOutfits(ctx, "u1")
	require.NoError(t, err)
	dates := make([]string, 0, len(outfits))
	for _, o := range outfits {
		dates = append(dates, o.OutfitDate.Format(domain.OutfitDateLayout))
	}
	assert.Equal(t, []string{"2025-03-04", "2025-03-05", "2025-03-08", "2025-03-09"}, dates)

	other, err := uc.ListOutfits(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestSaveOutfit_Validation(t *testing.T) {
	uc, repo := newCalendarUC()
	ctx := context.Background()

	_, err := uc.SaveOutfit(ctx, NewSaveCalendarOutfitReq("u1", time.Time{}, "http://img/1.jpg"))
	assert.ErrorIs(t, err, e.ErrInvalidOutfitDate)

	_, err = uc.SaveOutfit(ctx, NewSaveCalendarOutfitReq("u1", mustOutfitDate("2025-03-14"), "  "))
	assert.ErrorIs(t, err, e.ErrMissingOutfitImage)

	_, err = uc.SaveOutfit(ctx, NewSaveCalendarOutfitReq("", mustOutfitDate("2025-03-14"), "http://img/1.jpg"))
	assert.ErrorIs(t, err, e.ErrUnauthorized)

	assert.Empty(t, repo.outfits)
}

func TestGetAndDeleteOutfit(t *testing.T) {
	uc, _ := newCalendarUC()
	ctx := context.Background()

	_, err := uc.SaveOutfit(ctx, NewSaveCalendarOutfitReq("u1", mustOutfitDate("2025-03-14"), "http://img/1.jpg"))
	require.NoError(t, err)

	got, err := uc.GetOutfit(ctx, "u1", time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "http://img/1.jpg", got.CombinedImageURL)

	_, err = uc.GetOutfit(ctx, "u2", mustOutfitDate("2025-03-14"))
	assert.ErrorIs(t, err, e.ErrCalendarOutfitNotFound)

	require.NoError(t, uc.DeleteOutfit(ctx, "u1", mustOutfitDate("2025-03-14")))
	assert.ErrorIs(t, uc.DeleteOutfit(ctx, "u1", mustOutfitDate("2025-03-14")), e.ErrCalendarOutfitNotFound)
}
