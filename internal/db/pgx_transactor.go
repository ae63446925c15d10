package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/yakoovad/golf-fundraiser/pkg/logger"
	"go.uber.org/zap"
)

type txKey struct{}

type pgxTransactor struct {
	pool *pgxpool.Pool
	opts pgx.TxOptions
}

// NewPgxTransactor returns a Transactor over pool. Transactions run at READ COMMITTED;
// team mutations serialize on row locks taken inside the callback.
func NewPgxTransactor(pool *pgxpool.Pool) Transactor {
	return &pgxTransactor{
		pool: pool,
		opts: pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
	}
}

// WithinTransaction runs fn with the transaction stored in its context. A nested call
// joins the outer transaction. The callback error is returned wrapped, so errors.Is
// and errors.As still reach sentinels and service errors.
func (t *pgxTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := t.pool.BeginTx(ctx, t.opts)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			logger.FromContext(ctx).Warn("transaction rollback failed", zap.Error(rbErr))
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return errors.Wrap(err, "transaction aborted")
	}

	if err = tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	committed = true

	return nil
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// GetPgxExecutorFromContext returns the transaction carried by ctx, or pool outside one.
func GetPgxExecutorFromContext(ctx context.Context, pool *pgxpool.Pool) Executor {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return pool
}
