package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx both pools and transactions implement.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Conn is what DB needs from a pool. pgxpool.Pool satisfies it, and so does
// pgxmock's pool in repository tests.
type Conn interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

type DB struct {
	Pool Conn
}

func NewPostgreSQLDB(dsn string) (*DB, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	return &DB{Pool: pool}, nil
}

// NewWithConn wraps an existing connection, used by tests to inject a mock pool.
func NewWithConn(conn Conn) *DB {
	return &DB{Pool: conn}
}

func (db *DB) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	return db.Pool.BeginTx(ctx, opts)
}

// TxRunner executes a function inside a database transaction. Services depend
// on this interface rather than on pgx so tests can substitute an in-memory
// implementation.
type TxRunner interface {
	// WithinTx runs fn inside a read-committed transaction.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error

	// WithinSerializableTx runs fn inside a serializable transaction and
	// retries a small bounded number of times on serialization failures.
	WithinSerializableTx(ctx context.Context, fn func(ctx context.Context) error) error
}
