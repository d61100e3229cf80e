// Package executor provides result mapping from rows to entity values.
package executor

import (
	"database/sql"
	"fmt"
	"reflect"

	"github.com/satishbabariya/modelgo/schema"
)

// scanAll maps every row into an entity value. Columns are bound to struct
// fields through the descriptor; columns with no backing field are
// discarded. Fields are scanned in place, so pointer fields become nil for
// NULL columns and references scan their key value.
func scanAll[T any](d *schema.Descriptor, rows *sql.Rows) ([]T, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var results []T
	for rows.Next() {
		var result T
		val := reflect.ValueOf(&result).Elem()

		targets := make([]interface{}, len(columns))
		for i, col := range columns {
			if f, ok := d.Field(col); ok {
				targets[i] = val.FieldByIndex(f.Index).Addr().Interface()
			} else {
				// Unmapped column, scanned and dropped.
				targets[i] = new(sql.RawBytes)
			}
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, &MappingError{Type: d.Type, Err: err}
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return results, nil
}

// scanMaps reads every row into a column-name to value map.
func scanMaps(rows *sql.Rows) ([]map[string]interface{}, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var results []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		targets := make([]interface{}, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return results, nil
}
