package pgdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/internal/repository/pgdb/converter"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/tr"
)

const calendarOutfitColumns = `id::text, user_id, outfit_date, combined_image_url, prompt, temperature, selected_categories, items, created_at`

// CalendarOutfitRepo хранит образы, закреплённые за датами.
type CalendarOutfitRepo struct {
	pool *pgxpool.Pool
	conv converter.CalendarOutfitConverter
}

func NewCalendarOutfitRepo(pool *pgxpool.Pool, conv converter.CalendarOutfitConverter) *CalendarOutfitRepo {
	return &CalendarOutfitRepo{
		pool: pool,
		conv: conv,
	}
}

// Upsert сохраняет образ на дату. Если на дату уже есть образ, он заменяется, id остаётся прежним.
// Вызывается только внутри транзакции.
func (c *CalendarOutfitRepo) Upsert(ctx context.Context, outfit *domain.CalendarOutfit) (*domain.CalendarOutfit, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := c.conv.ToModel(outfit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO calendar_outfits (
			id,
			user_id,
			outfit_date,
			combined_image_url,
			prompt,
			temperature,
			selected_categories,
			items,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, outfit_date) DO UPDATE SET
			combined_image_url = EXCLUDED.combined_image_url,
			prompt = EXCLUDED.prompt,
			temperature = EXCLUDED.temperature,
			selected_categories = EXCLUDED.selected_categories,
			items = EXCLUDED.items,
			created_at = EXCLUDED.created_at
		RETURNING ` + calendarOutfitColumns

	saved, err := c.scanOne(tx.QueryRow(ctx, query,
		model.ID,
		model.UserID,
		model.OutfitDate,
		model.CombinedImageURL,
		model.Prompt,
		model.Temperature,
		model.SelectedCategories,
		model.Items,
		model.CreatedAt,
	))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return saved, nil
}

// DeleteOlderThan удаляет образы владельца с датой раньше cutoff и возвращает их число.
func (c *CalendarOutfitRepo) DeleteOlderThan(ctx context.Context, ownerID string, cutoff time.Time) (int64, error) {
	query := `DELETE FROM calendar_outfits WHERE user_id = $1 AND outfit_date < $2`

	tag, err := conn(ctx, c.pool).Exec(ctx, query, ownerID, cutoff)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return tag.RowsAffected(), nil
}

func (c *CalendarOutfitRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.CalendarOutfit, error) {
	query := `SELECT ` + calendarOutfitColumns + ` FROM calendar_outfits WHERE user_id = $1 ORDER BY outfit_date`

	rows, err := conn(ctx, c.pool).Query(ctx, query, ownerID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var outfits []*domain.CalendarOutfit
	for rows.Next() {
		outfit, err := c.scanOne(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		outfits = append(outfits, outfit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iterator error: %w", whereami.WhereAmI(), err)
	}

	return outfits, nil
}

// GetByDate возвращает e.ErrCalendarOutfitNotFound, если на дату ничего не сохранено.
func (c *CalendarOutfitRepo) GetByDate(ctx context.Context, ownerID string, date time.Time) (*domain.CalendarOutfit, error) {
	query := `SELECT ` + calendarOutfitColumns + ` FROM calendar_outfits WHERE user_id = $1 AND outfit_date = $2`

	outfit, err := c.scanOne(conn(ctx, c.pool).QueryRow(ctx, query, ownerID, date))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return outfit, nil
}

func (c *CalendarOutfitRepo) Delete(ctx context.Context, ownerID string, date time.Time) error {
	query := `DELETE FROM calendar_outfits WHERE user_id = $1 AND outfit_date = $2`

	tag, err := conn(ctx, c.pool).Exec(ctx, query, ownerID, date)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrCalendarOutfitNotFound)
	}

	return nil
}

func (c *CalendarOutfitRepo) scanOne(row pgx.Row) (*domain.CalendarOutfit, error) {
	var model converter.CalendarOutfitModel
	err := row.Scan(
		&model.ID,
		&model.UserID,
		&model.OutfitDate,
		&model.CombinedImageURL,
		&model.Prompt,
		&model.Temperature,
		&model.SelectedCategories,
		&model.Items,
		&model.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrCalendarOutfitNotFound
		}
		return nil, err
	}

	return c.conv.ToEntity(&model)
}
