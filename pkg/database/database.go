package database

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/gommon/log"
)

//go:embed schema.sql
var schema string

// rollbackTimeout bounds the rollback issued after a failed or cancelled step.
const rollbackTimeout = 5 * time.Second

// DBTX is the statement surface shared by pools and transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Gateway is a DBTX that can also open transactions. *pgxpool.Pool satisfies it.
type Gateway interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PoolOptions tunes the connection pool.
type PoolOptions struct {
	MaxConns int32
	MinConns int32
}

func NewPool(ctx context.Context, dsn string, opts PoolOptions) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		config.MinConns = opts.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Infof("Database connected (max_conns=%d)", config.MaxConns)

	return pool, nil
}

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// WithTransaction runs fn inside a transaction on a connection checked out from gw.
// fn's error, or a panic, rolls the transaction back; otherwise it is committed.
// Commit and rollback both return the connection to the pool.
func WithTransaction(ctx context.Context, gw Gateway, fn func(tx pgx.Tx) error) (err error) {
	tx, err := gw.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			rollback(tx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		rollback(tx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func rollback(tx pgx.Tx) {
	// the request context may already be cancelled; the rollback must still reach the server
	ctx, cancel := context.WithTimeout(context.Background(), rollbackTimeout)
	defer cancel()
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		log.Warnf("rollback failed: %v", err)
	}
}
