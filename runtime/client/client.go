// Package client provides the shared database client runtime.
package client

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"github.com/satishbabariya/modelgo/internal/debug"
)

// Client is the shared database handle. It satisfies executor.ExecQuerier
// and records execution statistics for every statement that passes through.
type Client struct {
	db            *sql.DB
	provider      string
	stats         *Stats
	slowThreshold time.Duration
	closed        atomic.Bool
}

// NewClient opens a database handle for the configured provider.
// The connection itself is established lazily on first use; call
// Connect to verify reachability eagerly.
func NewClient(cfg Config) (*Client, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = inferProvider(cfg.DatabaseURL)
	}

	driverName := getDriverName(provider)
	if driverName == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}

	db, err := sql.Open(driverName, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection preserves the serialized execution model;
	// raise MaxOpenConns in the config to allow a real pool.
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	} else {
		db.SetMaxOpenConns(1)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if cfg.Debug {
		debug.Init(true)
	}

	return &Client{
		db:            db,
		provider:      provider,
		stats:         &Stats{},
		slowThreshold: cfg.SlowQueryThreshold,
	}, nil
}

// NewClientFromDB wraps an existing database handle.
func NewClientFromDB(provider string, db *sql.DB) *Client {
	return &Client{
		db:       db,
		provider: provider,
		stats:    &Stats{},
	}
}

// getDriverName maps provider names to Go database driver names
func getDriverName(provider string) string {
	switch provider {
	case "postgresql", "postgres":
		return "postgres"
	case "mysql":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite3"
	default:
		return ""
	}
}

// Connect establishes the database connection
func (c *Client) Connect(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	debug.Debug("Connected to database", "provider", c.provider)
	return nil
}

// Disconnect closes the database connection. A disconnected client
// rejects further statements with ErrClosed.
func (c *Client) Disconnect() error {
	if c.closed.Swap(true) {
		return nil
	}
	debug.Debug("Disconnecting from database", "provider", c.provider)
	return c.db.Close()
}

// Provider returns the configured provider name.
func (c *Client) Provider() string {
	return c.provider
}

// DB returns the underlying database handle
func (c *Client) DB() *sql.DB {
	return c.db
}

// Stats returns the client's execution statistics.
func (c *Client) Stats() *Stats {
	return c.stats
}

// ExecContext executes a statement and records statistics.
func (c *Client) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()
	res, err := c.db.ExecContext(ctx, query, args...)
	c.record(query, args, start, err, false)
	return res, err
}

// QueryContext executes a query and records statistics.
func (c *Client) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()
	rows, err := c.db.QueryContext(ctx, query, args...)
	c.record(query, args, start, err, true)
	return rows, err
}

func (c *Client) record(query string, args []interface{}, start time.Time, err error, isQuery bool) {
	duration := time.Since(start)
	c.stats.record(duration, err, isQuery)

	if c.slowThreshold > 0 && duration > c.slowThreshold {
		c.stats.SlowQueries.Add(1)
		debug.Warn("Slow query detected", "duration", duration, "sql", query, "args", args)
	}
}
