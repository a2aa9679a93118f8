package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CalendarRetentionDays - сколько дней до даты нового образа история ещё хранится.
const CalendarRetentionDays = 5

// OutfitDateLayout - формат даты образа в API и в путях.
const OutfitDateLayout = "2006-01-02"

// CalendarOutfit - готовый образ, закреплённый пользователем за датой.
// На одну дату у владельца не больше одного образа.
type CalendarOutfit struct {
	ID                 string
	OwnerID            string
	OutfitDate         time.Time // полночь UTC
	CombinedImageURL   string
	Prompt             string
	Temperature        *float64
	SelectedCategories []string
	Items              []CalendarOutfitItem
	CreatedAt          time.Time
}

// CalendarOutfitItem - снимок вещи на момент сохранения. Вещь потом могут удалить.
type CalendarOutfitItem struct {
	ID            string
	ImageURL      string
	CategoryGroup CategoryGroup
	Category      string
}

func NewCalendarOutfit(ownerID string, date time.Time, imageURL string) *CalendarOutfit {
	return &CalendarOutfit{
		ID:               uuid.NewString(),
		OwnerID:          ownerID,
		OutfitDate:       TruncateToDate(date),
		CombinedImageURL: imageURL,
		CreatedAt:        time.Now().UTC(),
	}
}

// RetentionCutoff - образы раньше этой даты удаляются при сохранении нового.
func (o *CalendarOutfit) RetentionCutoff() time.Time {
	return o.OutfitDate.AddDate(0, 0, -CalendarRetentionDays)
}

// ParseOutfitDate разбирает дату вида 2025-03-14.
func ParseOutfitDate(s string) (time.Time, error) {
	return time.Parse(OutfitDateLayout, strings.TrimSpace(s))
}

func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
