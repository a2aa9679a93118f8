package tr

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
)

type txKey struct{}

// WithTx кладёт транзакцию в контекст, репозитории достают её через TxFromCtx.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromCtx извлекает объект транзакции (pgx.Tx) из контекста
func TxFromCtx(ctx context.Context) (pgx.Tx, error) {
	txAny := ctx.Value(txKey{})
	tx, ok := txAny.(pgx.Tx)
	if !ok {
		return nil, e.ErrTransactionNotFound
	}
	return tx, nil
}
