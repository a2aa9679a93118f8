package pgdb

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/tr"
)

// TagTreeRepo хранит дерево тегов пользователя одной jsonb-строкой в wardrobe_tags.
type TagTreeRepo struct {
	pool *pgxpool.Pool
}

func NewTagTreeRepo(pool *pgxpool.Pool) *TagTreeRepo {
	return &TagTreeRepo{pool: pool}
}

// Get возвращает дерево, для пользователя без вещей - пустое.
func (t *TagTreeRepo) Get(ctx context.Context, ownerID string) (*domain.TagTree, error) {
	query := `SELECT tags FROM wardrobe_tags WHERE user_id = $1`

	tree, err := scanTree(conn(ctx, t.pool).QueryRow(ctx, query, ownerID))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return tree, nil
}

// GetForUpdate блокирует строку дерева до конца транзакции, при необходимости создавая её.
func (t *TagTreeRepo) GetForUpdate(ctx context.Context, ownerID string) (*domain.TagTree, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	_, err = tx.Exec(ctx, `INSERT INTO wardrobe_tags (user_id, tags) VALUES ($1, '{}'::jsonb) ON CONFLICT (user_id) DO NOTHING`, ownerID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	tree, err := scanTree(tx.QueryRow(ctx, `SELECT tags FROM wardrobe_tags WHERE user_id = $1 FOR UPDATE`, ownerID))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return tree, nil
}

func (t *TagTreeRepo) Save(ctx context.Context, ownerID string, tree *domain.TagTree) error {
	raw, err := json.Marshal(tree)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO wardrobe_tags (user_id, tags, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET tags = EXCLUDED.tags, updated_at = NOW()
	`

	if _, err := conn(ctx, t.pool).Exec(ctx, query, ownerID, raw); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func scanTree(row pgx.Row) (*domain.TagTree, error) {
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewTagTree(), nil
		}
		return nil, err
	}

	tree := domain.NewTagTree()
	if len(raw) == 0 {
		return tree, nil
	}
	if err := json.Unmarshal(raw, tree); err != nil {
		return nil, err
	}

	return tree, nil
}
