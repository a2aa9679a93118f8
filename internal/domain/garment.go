package domain

import (
	"time"

	"github.com/google/uuid"
)

// Ключи вторичных атрибутов, по которым поддерживается фильтрация.
const (
	AttrColor    = "color"
	AttrPattern  = "pattern"
	AttrMaterial = "material"
	AttrSeason   = "season"
	AttrOccasion = "occasion"
)

// GarmentTags - результат классификации фотографии.
type GarmentTags struct {
	CategoryGroup CategoryGroup
	Category      string
	Attributes    map[string]string
}

// Garment описывает вещь в гардеробе пользователя
type Garment struct {
	ID            string // uuid, совпадает с ID точки в векторном индексе
	OwnerID       string
	CategoryGroup CategoryGroup
	Category      string
	Attributes    map[string]string // отсутствие ключа означает «неизвестно»
	ImageURL      string
	ImageKey      string // ключ объекта в S3
	CreatedAt     time.Time
}

func NewGarment(ownerID string, tags GarmentTags, imageURL, imageKey string) *Garment {
	attrs := make(map[string]string, len(tags.Attributes))
	for k, v := range tags.Attributes {
		attrs[k] = v
	}

	return &Garment{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		CategoryGroup: tags.CategoryGroup,
		Category:      tags.Category,
		Attributes:    attrs,
		ImageURL:      imageURL,
		ImageKey:      imageKey,
		CreatedAt:     time.Now().UTC(),
	}
}

// Attribute возвращает значение атрибута и признак его наличия.
func (g *Garment) Attribute(key string) (string, bool) {
	v, ok := g.Attributes[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// OwnedBy проверяет владельца вещи.
func (g *Garment) OwnedBy(ownerID string) bool {
	return g != nil && g.OwnerID == ownerID
}
