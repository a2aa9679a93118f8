package converter

import (
	"encoding/json"

	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/internal/usecase"
)

// GarmentConverter преобразует Garment между domain и моделью PostgreSQL.
type GarmentConverter struct{}

func (GarmentConverter) ToModel(entity *domain.Garment) (*GarmentModel, error) {
	attrs := entity.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}

	raw, err := json.Marshal(attrs)
	if err != nil {
		return nil, err
	}

	return &GarmentModel{
		ID:            entity.ID,
		UserID:        entity.OwnerID,
		CategoryGroup: string(entity.CategoryGroup),
		Category:      entity.Category,
		Attributes:    raw,
		ImageURL:      entity.ImageURL,
		ImageKey:      entity.ImageKey,
		CreatedAt:     entity.CreatedAt,
	}, nil
}

func (GarmentConverter) ToEntity(model *GarmentModel) (*domain.Garment, error) {
	attrs := map[string]string{}
	if len(model.Attributes) > 0 {
		if err := json.Unmarshal(model.Attributes, &attrs); err != nil {
			return nil, err
		}
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
	}, nil
}

// OutboxEventConverter преобразует OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter struct{}

func (OutboxEventConverter) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		AggregateID: entity.AggregateID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (OutboxEventConverter) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		AggregateID: model.AggregateID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c OutboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	res := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		res = append(res, c.ToEntity(m))
	}
	return res
}

// CalendarOutfitConverter преобразует CalendarOutfit между domain и моделью PostgreSQL.
type CalendarOutfitConverter struct{}

func (CalendarOutfitConverter) ToModel(entity *domain.CalendarOutfit) (*CalendarOutfitModel, error) {
	categories := entity.SelectedCategories
	if categories == nil {
		categories = []string{}
	}
	rawCategories, err := json.Marshal(categories)
	if err != nil {
		return nil, err
	}

	items := make([]CalendarOutfitItemModel, 0, len(entity.Items))
	for _, it := range entity.Items {
		items = append(items, CalendarOutfitItemModel{
			ID:            it.ID,
			ImageURL:      it.ImageURL,
			CategoryGroup: string(it.CategoryGroup),
			Category:      it.Category,
		})
	}
	rawItems, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

	var prompt *string
	if entity.Prompt != "" {
		prompt = &entity.Prompt
	}

	return &CalendarOutfitModel{
		ID:                 entity.ID,
		UserID:             entity.OwnerID,
		OutfitDate:         entity.OutfitDate,
		CombinedImageURL:   entity.CombinedImageURL,
		Prompt:             prompt,
		Temperature:        entity.Temperature,
		SelectedCategories: rawCategories,
		Items:              rawItems,
		CreatedAt:          entity.CreatedAt,
	}, nil
}

func (CalendarOutfitConverter) ToEntity(model *CalendarOutfitModel) (*domain.CalendarOutfit, error) {
	categories := []string{}
	if len(model.SelectedCategories) > 0 {
		if err := json.Unmarshal(model.SelectedCategories, &categories); err != nil {
			return nil, err
		}
	}

	var items []CalendarOutfitItemModel
	if len(model.Items) > 0 {
		if err := json.Unmarshal(model.Items, &items); err != nil {
			return nil, err
		}
	}

	res := &domain.CalendarOutfit{
		ID:                 model.ID,
		OwnerID:            model.UserID,
		OutfitDate:         domain.TruncateToDate(model.OutfitDate),
		CombinedImageURL:   model.CombinedImageURL,
		Temperature:        model.Temperature,
		SelectedCategories: categories,
		Items:              make([]domain.CalendarOutfitItem, 0, len(items)),
		CreatedAt:          model.CreatedAt,
	}
	if model.Prompt != nil {
		res.Prompt = *model.Prompt
	}
	for _, it := range items {
		res.Items = append(res.Items, domain.CalendarOutfitItem{
			ID:            it.ID,
			ImageURL:      it.ImageURL,
			CategoryGroup: domain.CategoryGroup(it.CategoryGroup),
			Category:      it.Category,
		})
	}

	return res, nil
}
