package usecase

import (
	"context"
	"time"

	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
)

// GarmentRepository - реляционное хранилище вещей.
type GarmentRepository interface {
	Create(ctx context.Context, garment *domain.Garment) error
	// GetByID возвращает e.ErrGarmentNotFound, если вещи нет.
	GetByID(ctx context.Context, id string) (*domain.Garment, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Garment, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Garment, error)
	// Delete удаляет вещь владельца и возвращает её. Чужая или отсутствующая вещь - e.ErrGarmentNotFound.
	Delete(ctx context.Context, ownerID, id string) (*domain.Garment, error)
}

type TagTreeRepository interface {
	Get(ctx context.Context, ownerID string) (*domain.TagTree, error)
	// GetForUpdate блокирует строку дерева до конца транзакции.
	GetForUpdate(ctx context.Context, ownerID string) (*domain.TagTree, error)
	Save(ctx context.Context, ownerID string, tree *domain.TagTree) error
}

// CalendarOutfitRepository - образы по датам, не больше одного на дату у владельца.
type CalendarOutfitRepository interface {
	Upsert(ctx context.Context, outfit *domain.CalendarOutfit) (*domain.CalendarOutfit, error)
	DeleteOlderThan(ctx context.Context, ownerID string, cutoff time.Time) (int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.CalendarOutfit, error)
	// GetByDate и Delete возвращают e.ErrCalendarOutfitNotFound, если на дату ничего нет.
	GetByDate(ctx context.Context, ownerID string, date time.Time) (*domain.CalendarOutfit, error)
	Delete(ctx context.Context, ownerID string, date time.Time) error
}

// VectorIndex хранит эмбеддинги вещей с фильтруемым payload.
type VectorIndex interface {
	Upsert(ctx context.Context, embeddings []domain.Embedding) error
	// Retrieve возвращает e.ErrEmbeddingNotFound, если точки нет.
	Retrieve(ctx context.Context, id string) (*domain.Embedding, error)
	Query(ctx context.Context, filter domain.VectorFilter, vector []float32, limit int) ([]domain.VectorMatch, error)
	Delete(ctx context.Context, ids []string) error
}

type CacheRepository interface {
	GetGarments(ctx context.Context, ids []string) (map[string]*domain.Garment, error)
	SetGarments(ctx context.Context, garments []*domain.Garment) error
	DeleteGarments(ctx context.Context, ids []string) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	// ReturnToPending возвращает событие в очередь после неудачной публикации.
	ReturnToPending(ctx context.Context, id int64) error
}

// Transactor выполняет fn в одной транзакции БД. Репозитории берут её из контекста.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
