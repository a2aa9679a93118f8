package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
)

// CalendarUseCase ведёт календарь образов пользователя.
type CalendarUseCase struct {
	repo       CalendarOutfitRepository
	transactor Transactor
	logger     logger.Logger
}

func NewCalendarUC(repo CalendarOutfitRepository, transactor Transactor, logger logger.Logger) *CalendarUseCase {
	return &CalendarUseCase{
		repo:       repo,
		transactor: transactor,
		logger:     logger,
	}
}

// SaveOutfit закрепляет образ за датой, заменяя прежний на ту же дату.
// В той же транзакции удаляются образы старше CalendarRetentionDays дней до новой даты.
func (c *CalendarUseCase) SaveOutfit(ctx context.Context, req *SaveCalendarOutfitReq) (*domain.CalendarOutfit, error) {
	const op = "CalendarUseCase.SaveOutfit"

	if req.OwnerID == "" {
		return nil, e.Wrap(op, e.ErrUnauthorized)
	}
	if req.OutfitDate.IsZero() {
		return nil, e.Wrap(op, e.ErrInvalidOutfitDate)
	}
	imageURL := strings.TrimSpace(req.CombinedImageURL)
	if imageURL == "" {
		return nil, e.Wrap(op, e.ErrMissingOutfitImage)
	}

	outfit := domain.NewCalendarOutfit(req.OwnerID, req.OutfitDate, imageURL)
	outfit.Prompt = strings.TrimSpace(req.Prompt)
	outfit.Temperature = req.Temperature
	outfit.SelectedCategories = cleanCategories(req.SelectedCategories)
	outfit.Items = req.Items
	if outfit.Items == nil {
		outfit.Items = []domain.CalendarOutfitItem{}
	}

	var saved *domain.CalendarOutfit
	err := c.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		pruned, err := c.repo.DeleteOlderThan(ctx, req.OwnerID, outfit.RetentionCutoff())
		if err != nil {
			return err
		}
		if pruned > 0 {
			c.logger.Debugf("Calendar pruned: owner=%s, removed=%d", req.OwnerID, pruned)
		}

		saved, err = c.repo.Upsert(ctx, outfit)
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return saved, nil
}

// ListOutfits возвращает образы владельца по возрастанию даты.
func (c *CalendarUseCase) ListOutfits(ctx context.Context, ownerID string) ([]*domain.CalendarOutfit, error) {
	const op = "CalendarUseCase.ListOutfits"

	outfits, err := c.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return outfits, nil
}

func (c *CalendarUseCase) GetOutfit(ctx context.Context, ownerID string, date time.Time) (*domain.CalendarOutfit, error) {
	const op = "CalendarUseCase.GetOutfit"

	outfit, err := c.repo.GetByDate(ctx, ownerID, domain.TruncateToDate(date))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return outfit, nil
}

func (c *CalendarUseCase) DeleteOutfit(ctx context.Context, ownerID string, date time.Time) error {
	const op = "CalendarUseCase.DeleteOutfit"

	if err := c.repo.Delete(ctx, ownerID, domain.TruncateToDate(date)); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// cleanCategories убирает пустые и повторяющиеся категории, порядок сохраняется.
func cleanCategories(categories []string) []string {
	seen := make(map[string]struct{}, len(categories))
	res := make([]string, 0, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		res = append(res, c)
	}
	return res
}
