package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/yachaflex/yachaflex-api/internal/platform/logger"
)

// TxFn is a unit of work executed by RunInTransaction.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction runs fn inside a transaction on db. The transaction is
// committed when fn returns nil and rolled back when it returns an error or
// panics; a panic is re-raised after the rollback.
//
// Stores obtained through WithTx(tx) inside fn share the transaction, which
// is how a biometric submission locks, rescores and updates a record
// atomically.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContextOrDefault(ctx, nil)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	finished := false
	defer func() {
		if finished {
			return
		}
		p := recover()
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("failed to roll back transaction after panic",
				slog.String("error", rbErr.Error()),
				slog.Any("panic", p))
		} else {
			log.Error("rolled back transaction after panic", slog.Any("panic", p))
		}
		panic(p)
	}()

	workErr := fn(ctx, tx)
	finished = true

	if workErr != nil {
		return rollback(log, tx, workErr)
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Debug("transaction committed")
	return nil
}

// rollback aborts tx after cause and reports both errors if the rollback
// itself fails. The returned error always wraps cause.
func rollback(log *slog.Logger, tx *sql.Tx, cause error) error {
	rbErr := tx.Rollback()
	if rbErr == nil {
		log.Debug("rolled back transaction", slog.String("error", cause.Error()))
		return cause
	}

	log.Error("failed to roll back transaction",
		slog.String("rollback_error", rbErr.Error()),
		slog.String("original_error", cause.Error()))
	return fmt.Errorf("error rolling back transaction: %v (original error: %w)", rbErr, cause)
}
