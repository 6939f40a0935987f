package postgresql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/database"
)

type txKey struct{}

// withTx attaches the transaction so repositories called through fn join it.
func withTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// GetQuerier returns the ambient transaction if one is open, else the pool.
// Used in repositories to support both transactional and non-transactional
// operations.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}

// WithTransaction executes fn inside a database transaction
func WithTransaction(ctx context.Context, db *database.DB, fn func(ctx context.Context) error) error {
	return runTx(ctx, db, pgx.TxOptions{}, fn)
}

const (
	serializableMaxAttempts = 3
	serializableBackoff     = 50 * time.Millisecond
)

// WithSerializableTransaction executes fn inside a serializable transaction.
// Serialization failures (40001) and deadlocks (40P01) are expected under
// admission contention and recoverable, so those are retried with backoff up
// to serializableMaxAttempts. Business errors are returned as-is: retrying a
// full seat pool cannot succeed.
func WithSerializableTransaction(ctx context.Context, db *database.DB, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= serializableMaxAttempts; attempt++ {
		err = runTx(ctx, db, pgx.TxOptions{IsoLevel: pgx.Serializable}, fn)
		if err == nil || !isSerializationFailure(err) {
			return err
		}
		slog.Warn("serializable transaction retry",
			"attempt", attempt,
			"max_attempts", serializableMaxAttempts,
			"error", err,
		)
		if attempt < serializableMaxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * serializableBackoff):
			}
		}
	}
	return err
}

func runTx(ctx context.Context, db *database.DB, opts pgx.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.Error("rollback error during panic recovery", "error", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

type txRunner struct {
	db *database.DB
}

// NewTxRunner adapts the pool to the database.TxRunner interface services
// depend on.
func NewTxRunner(db *database.DB) database.TxRunner {
	return &txRunner{db: db}
}

func (r *txRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, r.db, fn)
}

func (r *txRunner) WithinSerializableTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithSerializableTransaction(ctx, r.db, fn)
}
