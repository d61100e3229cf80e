// Package client provides transaction support.
package client

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/satishbabariya/modelgo/internal/debug"
)

// IsolationLevel represents transaction isolation levels
type IsolationLevel int

const (
	// ReadUncommitted allows dirty reads
	ReadUncommitted IsolationLevel = iota
	// ReadCommitted prevents dirty reads (default)
	ReadCommitted
	// RepeatableRead prevents dirty reads and non-repeatable reads
	RepeatableRead
	// Serializable prevents dirty reads, non-repeatable reads, and phantom reads
	Serializable
)

// ToSQLIsolationLevel converts IsolationLevel to sql.IsolationLevel
func (level IsolationLevel) ToSQLIsolationLevel() sql.IsolationLevel {
	switch level {
	case ReadUncommitted:
		return sql.LevelReadUncommitted
	case ReadCommitted:
		return sql.LevelReadCommitted
	case RepeatableRead:
		return sql.LevelRepeatableRead
	case Serializable:
		return sql.LevelSerializable
	default:
		return sql.LevelReadCommitted
	}
}

// NewTxOptions creates sql.TxOptions from isolation level
func NewTxOptions(isolation IsolationLevel, readOnly bool) *sql.TxOptions {
	return &sql.TxOptions{
		Isolation: isolation.ToSQLIsolationLevel(),
		ReadOnly:  readOnly,
	}
}

// Tx is an in-progress transaction. Statements executed through it are
// recorded in the owning client's statistics.
type Tx struct {
	tx     *sql.Tx
	client *Client
}

// Begin starts a transaction with default options.
func (c *Client) Begin(ctx context.Context) (*Tx, error) {
	return c.BeginTx(ctx, nil)
}

// BeginTx starts a transaction with the given options.
func (c *Client) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	sqlTx, err := c.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	debug.Debug("Transaction started")
	return &Tx{tx: sqlTx, client: c}, nil
}

// ExecContext executes a statement within the transaction.
func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.client.record(query, args, start, err, false)
	return res, err
}

// QueryContext executes a query within the transaction.
func (t *Tx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.client.record(query, args, start, err, true)
	return rows, err
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	debug.Debug("Transaction committed")
	return t.tx.Commit()
}

// Rollback rolls back the transaction.
func (t *Tx) Rollback() error {
	debug.Debug("Transaction rolled back")
	return t.tx.Rollback()
}

// TransactionFunc is a function that runs within a transaction
type TransactionFunc func(tx *Tx) error

// WithTransaction executes a function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// Otherwise, the transaction is committed.
func (c *Client) WithTransaction(ctx context.Context, fn TransactionFunc) error {
	return c.WithTransactionOptions(ctx, nil, fn)
}

// WithTransactionOptions executes a function within a transaction with
// custom options.
func (c *Client) WithTransactionOptions(ctx context.Context, opts *sql.TxOptions, fn TransactionFunc) error {
	tx, err := c.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	// Defer rollback in case of panic
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p) // re-throw panic after rollback
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// WithTransactionIsolation executes a transaction with a specific isolation level
func (c *Client) WithTransactionIsolation(ctx context.Context, isolation IsolationLevel, fn TransactionFunc) error {
	return c.WithTransactionOptions(ctx, NewTxOptions(isolation, false), fn)
}
