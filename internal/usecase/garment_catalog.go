package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
)

// GarmentCatalog читает вещи через кэш, промахи добирает из БД.
type GarmentCatalog struct {
	repo      GarmentRepository
	cacheRepo CacheRepository
	logger    logger.Logger
}

func NewGarmentCatalog(repo GarmentRepository, cacheRepo CacheRepository, logger logger.Logger) *GarmentCatalog {
	return &GarmentCatalog{
		repo:      repo,
		cacheRepo: cacheRepo,
		logger:    logger,
	}
}

// GetFresh читает вещь из БД мимо кэша. Фоновое заполнение кэша может отстать от удаления,
// поэтому исходную вещь запроса берём отсюда.
func (c *GarmentCatalog) GetFresh(ctx context.Context, id string) (*domain.Garment, error) {
	const op = "GarmentCatalog.GetFresh"

	g, err := c.repo.GetByID(ctx, id)
	switch {
	case err == nil:
		return g, nil
	case errors.Is(err, e.ErrGarmentNotFound), errors.Is(err, context.Canceled):
		return nil, e.Wrap(op, err)
	default:
		return nil, e.Wrap(op, fmt.Errorf("%w: %w", e.ErrUpstreamUnavailable, err))
	}
}

// GetMany возвращает найденные вещи, отсутствующие id в результат не попадают.
func (c *GarmentCatalog) GetMany(ctx context.Context, ids []string) (map[string]*domain.Garment, error) {
	const op = "GarmentCatalog.GetMany"

	result := make(map[string]*domain.Garment, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	// Поиск в кэше, ошибка кэша не критична
	cached, err := c.cacheRepo.GetGarments(ctx, ids)
	if err != nil {
		cached = nil
	}

	var missing []string
	for _, id := range ids {
		if g, ok := cached[id]; ok {
			result[id] = g
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) == 0 {
		return result, nil
	}

	fromDB, err := c.repo.GetByIDs(ctx, missing)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, e.Wrap(op, err)
		}
		return nil, e.Wrap(op, fmt.Errorf("%w: %w", e.ErrUpstreamUnavailable, err))
	}

	for _, g := range fromDB {
		result[g.ID] = g
	}

	// Фоновое добавление вещей в кэш
	if len(fromDB) > 0 {
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := c.cacheRepo.SetGarments(bgCtx, fromDB); err != nil {
				c.logger.Warnf("Failed to cache garments in background: %v", e.Wrap(op, err))
			}
		}()
	}

	return result, nil
}

// Invalidate удаляет вещи из кэша.
func (c *GarmentCatalog) Invalidate(ctx context.Context, ids []string) {
	if err := c.cacheRepo.DeleteGarments(ctx, ids); err != nil {
		c.logger.Warnf("Failed to invalidate garments cache: %v", err)
	}
}
