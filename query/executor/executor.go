// Package executor runs generated statements and maps results to entities.
package executor

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/satishbabariya/modelgo/internal/debug"
	"github.com/satishbabariya/modelgo/query/sqlgen"
	"github.com/satishbabariya/modelgo/schema"
)

// ExecQuerier is the minimal execution surface the executor needs.
// *sql.DB, *sql.Tx, the runtime client, and its transactions satisfy it.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// Exec runs a write statement and returns the driver result.
func Exec(ctx context.Context, eq ExecQuerier, q *sqlgen.Query) (sql.Result, error) {
	debug.Query(q.SQL, q.Args)

	res, err := eq.ExecContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("exec failed: %w", err)
	}
	return res, nil
}

// QueryAll runs a select and maps every row into an entity value.
func QueryAll[T any](ctx context.Context, eq ExecQuerier, d *schema.Descriptor, q *sqlgen.Query) ([]T, error) {
	debug.Query(q.SQL, q.Args)

	rows, err := eq.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return scanAll[T](d, rows)
}

// QueryOne runs a select expected to match at most one row and maps it.
// No matching row returns ErrNotFound.
func QueryOne[T any](ctx context.Context, eq ExecQuerier, d *schema.Descriptor, q *sqlgen.Query) (*T, error) {
	results, err := QueryAll[T](ctx, eq, d, q)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return &results[0], nil
}

// QueryCount runs a count statement and returns the scalar.
func QueryCount(ctx context.Context, eq ExecQuerier, q *sqlgen.Query) (int64, error) {
	debug.Query(q.SQL, q.Args)

	rows, err := eq.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return 0, fmt.Errorf("count query failed: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("count query failed: %w", err)
		}
		return 0, fmt.Errorf("count query returned no rows")
	}

	var count int64
	if err := rows.Scan(&count); err != nil {
		return 0, fmt.Errorf("count scan failed: %w", err)
	}
	return count, rows.Err()
}

// QueryMaps runs a raw statement and returns every row as a column-name to
// value map. Byte slices are normalized to strings so drivers that return
// text as []byte produce comparable values.
func QueryMaps(ctx context.Context, eq ExecQuerier, q *sqlgen.Query) ([]map[string]interface{}, error) {
	debug.Query(q.SQL, q.Args)

	rows, err := eq.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("raw query failed: %w", err)
	}
	defer rows.Close()

	return scanMaps(rows)
}
