package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/internal/repository/pgdb/converter"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/tr"
)

const garmentColumns = `id::text, user_id, category_group, category, attributes, image_url, image_key, created_at`

// GarmentRepo реализует репозиторий вещей поверх PostgreSQL.
type GarmentRepo struct {
	pool *pgxpool.Pool
	conv converter.GarmentConverter
}

func NewGarmentRepo(pool *pgxpool.Pool, conv converter.GarmentConverter) *GarmentRepo {
	return &GarmentRepo{
		pool: pool,
		conv: conv,
	}
}

// Create вставляет вещь. Вызывается только внутри транзакции.
func (g *GarmentRepo) Create(ctx context.Context, garment *domain.Garment) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := g.conv.ToModel(garment)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO wardrobe_items (
			id,
			user_id,
			category_group,
			category,
			attributes,
			image_url,
			image_key,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = tx.Exec(ctx, query,
		model.ID,
		model.UserID,
		model.CategoryGroup,
		model.Category,
		model.Attributes,
		model.ImageURL,
		model.ImageKey,
		model.CreatedAt,
	)
	if err != nil {
		if postgresDuplicate(err) {
			return fmt.Errorf("%s: item with id %s already exists", whereami.WhereAmI(), garment.ID)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (g *GarmentRepo) GetByID(ctx context.Context, id string) (*domain.Garment, error) {
	if uuid.Validate(id) != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrGarmentNotFound)
	}

	query := `SELECT ` + garmentColumns + ` FROM wardrobe_items WHERE id = $1`

	garment, err := g.scanOne(conn(ctx, g.pool).QueryRow(ctx, query, id))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return garment, nil
}

// GetByIDs возвращает найденные вещи, некорректные и отсутствующие id пропускаются.
func (g *GarmentRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.Garment, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if uuid.Validate(id) == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}

	query := `SELECT ` + garmentColumns + ` FROM wardrobe_items WHERE id = ANY($1::uuid[])`

	rows, err := conn(ctx, g.pool).Query(ctx, query, valid)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return g.scanAll(rows)
}

func (g *GarmentRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Garment, error) {
	query := `SELECT ` + garmentColumns + ` FROM wardrobe_items WHERE user_id = $1 ORDER BY created_at DESC, id`

	rows, err := conn(ctx, g.pool).Query(ctx, query, ownerID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return g.scanAll(rows)
}

// Delete удаляет вещь владельца. Вызывается только внутри транзакции.
func (g *GarmentRepo) Delete(ctx context.Context, ownerID, id string) (*domain.Garment, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if uuid.Validate(id) != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrGarmentNotFound)
	}

	query := `DELETE FROM wardrobe_items WHERE id = $1 AND user_id = $2 RETURNING ` + garmentColumns

	garment, err := g.scanOne(tx.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return garment, nil
}

func (g *GarmentRepo) scanOne(row pgx.Row) (*domain.Garment, error) {
	var model converter.GarmentModel
	err := row.Scan(
		&model.ID,
		&model.UserID,
		&model.CategoryGroup,
		&model.Category,
		&model.Attributes,
		&model.ImageURL,
		&model.ImageKey,
		&model.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrGarmentNotFound
		}
		return nil, err
	}

	return g.conv.ToEntity(&model)
}

func (g *GarmentRepo) scanAll(rows pgx.Rows) ([]*domain.Garment, error) {
	defer rows.Close()

	var garments []*domain.Garment
	for rows.Next() {
		garment, err := g.scanOne(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		garments = append(garments, garment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iterator error: %w", whereami.WhereAmI(), err)
	}

	return garments, nil
}
