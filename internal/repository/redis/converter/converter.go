package converter

import "github.com/vansh-khaneja/WearWhat-backend/internal/domain"

// GarmentConverter преобразует Garment между domain и моделью кэша.
type GarmentConverter struct{}

func (GarmentConverter) ToRedisModel(entity *domain.Garment) GarmentRedisModel {
	return GarmentRedisModel{
		ID:            entity.ID,
		UserID:        entity.OwnerID,
		CategoryGroup: string(entity.CategoryGroup),
		Category:      entity.Category,
		Attributes:    entity.Attributes,
		ImageURL:      entity.ImageURL,
		ImageKey:      entity.ImageKey,
		CreatedAt:     entity.CreatedAt,
	}
}

func (GarmentConverter) ToDomain(model *GarmentRedisModel) *domain.Garment {
	attrs := model.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}

	return &domain.Garment{
		ID:            model.ID,
		OwnerID:       model.UserID,
		CategoryGroup: domain.CategoryGroup(model.CategoryGroup),
		Category:      model.Category,
		Attributes:    attrs,
		ImageURL:      model.ImageURL,
		ImageKey:      model.ImageKey,
		CreatedAt:     model.CreatedAt,
	}
}

func (c GarmentConverter) ToArrRedisModel(entities []*domain.Garment) []GarmentRedisModel {
	res := make([]GarmentRedisModel, 0, len(entities))
	for _, g := range entities {
		res = append(res, c.ToRedisModel(g))
	}
	return res
}
