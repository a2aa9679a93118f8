package pgdb

import (
	"context"
	"errors"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/tr"
)

// Transactor открывает транзакцию PostgreSQL и кладёт её в контекст для репозиториев.
type Transactor struct {
	db transaction.Transactional
}

func NewTransactor(db transaction.Transactional) *Transactor {
	return &Transactor{db: db}
}

// WithinTransaction коммитит, если fn вернула nil, иначе откатывает.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, t.db)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	pgxTx, ok := tx.Transaction().(pgx.Tx)
	if !ok {
		return e.Wrap(whereami.WhereAmI(), errors.New("unexpected transaction type"))
	}

	if err = fn(tr.WithTx(ctx, pgxTx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
