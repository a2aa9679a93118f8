package usecase

import (
	"context"
	"time"

	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
)

type StylingUC interface {
	StyleOutfit(ctx context.Context, req *StyleOutfitReq) (*StyledOutfitRes, error)
	StyleOutfitWithOptions(ctx context.Context, req *StyleOptionsReq) (*StyleOptionsRes, error)
}

type WardrobeUC interface {
	UploadGarments(ctx context.Context, req *UploadGarmentsReq) (*UploadGarmentsRes, error)
	ListGarments(ctx context.Context, ownerID string) ([]*domain.Garment, error)
	DeleteGarment(ctx context.Context, req *DeleteGarmentReq) error
	GetTagTree(ctx context.Context, ownerID string) (*domain.TagTree, error)
	SearchByText(ctx context.Context, req *SearchReq) ([]domain.MatchedItem, error)
}

type RecommendationUC interface {
	Recommend(ctx context.Context, req *RecommendReq) (*RecommendRes, error)
}

type CalendarUC interface {
	SaveOutfit(ctx context.Context, req *SaveCalendarOutfitReq) (*domain.CalendarOutfit, error)
	ListOutfits(ctx context.Context, ownerID string) ([]*domain.CalendarOutfit, error)
	GetOutfit(ctx context.Context, ownerID string, date time.Time) (*domain.CalendarOutfit, error)
	DeleteOutfit(ctx context.Context, ownerID string, date time.Time) error
}
