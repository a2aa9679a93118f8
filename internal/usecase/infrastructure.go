package usecase

import (
	"context"
	"time"

	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
)

// EncoderInfra - внешний кодировщик изображений и текста в общее векторное пространство.
type EncoderInfra interface {
	// AnalyzeImages классифицирует и векторизует изображения, результат в порядке входа.
	AnalyzeImages(ctx context.Context, req *AnalyzeImagesReq) ([]AnalyzeImageRes, error)
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

type ImagesInfra interface {
	UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error)
	UploadImage(ctx context.Context, req *UploadImageReq) (*UploadedImage, error)
	CleanupImages(keys []string)
}

// OutfitComposer рендерит коллаж образа. Пустой вход - nil без ошибки.
type OutfitComposer interface {
	ComposeOutfit(ctx context.Context, items []ComposeItem) ([]byte, error)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// OutfitAdvisor выбирает категории из доступных пользователю под текстовый запрос.
type OutfitAdvisor interface {
	SelectCategories(ctx context.Context, req *AdviceReq) (*AdviceRes, error)
}

type StylingMetrics interface {
	ObserveStyleOutfit(status string, elapsed time.Duration)
	IncEmptySlot(group domain.CategoryGroup)
}
