package tx

import (
	"context"

	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
)

type Tx interface {
	Commit(ctx context.Context) *app_errors.AppError
	Rollback(ctx context.Context) *app_errors.AppError
}

type TxManager interface {
	Begin(ctx context.Context) (Tx, *app_errors.AppError)
}

// WithTx runs fn inside a single transaction, committing on nil error and
// rolling back otherwise. Batch operations that want per-item commit
// semantics call this once per item.
func WithTx(ctx context.Context, m TxManager, fn func(t Tx) *app_errors.AppError) *app_errors.AppError {
	t, err := m.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(t); err != nil {
		_ = t.Rollback(ctx)
		return err
	}

	return t.Commit(ctx)
}
