package modelgo

import (
	"context"
	"fmt"

	"github.com/satishbabariya/modelgo/query/executor"
	"github.com/satishbabariya/modelgo/query/sqlgen"
	"github.com/satishbabariya/modelgo/schema"
)

// Find executes the accumulated filter and returns every matching row.
// With no active filter it returns an empty slice without touching the
// database, unless the entity is soft-deletable; the exclusion filter
// must apply, so that case executes SELECT ... WHERE delete_at IS NULL.
func (m *Model[T]) Find(ctx context.Context) ([]T, error) {
	if err := m.clause.Err(); err != nil {
		return nil, err
	}
	if !m.clause.Active() && !m.desc.SoftDelete {
		return []T{}, nil
	}

	conn, err := m.conn()
	if err != nil {
		return nil, err
	}
	return executor.QueryAll[T](ctx, conn, m.desc, sqlgen.Select(m.desc, m.clause))
}

// FindOne executes the accumulated filter with the result size forced to
// one row. With no active filter it returns ErrNotFound without touching
// the database (same soft-delete carve-out as Find).
func (m *Model[T]) FindOne(ctx context.Context) (*T, error) {
	if err := m.clause.Err(); err != nil {
		return nil, err
	}
	if !m.clause.Active() && !m.desc.SoftDelete {
		return nil, ErrNotFound
	}

	conn, err := m.conn()
	if err != nil {
		return nil, err
	}
	return executor.QueryOne[T](ctx, conn, m.desc, sqlgen.SelectOne(m.desc, m.clause))
}

// Get looks up one row by primary key. Composite keys are bound
// positionally against the key columns, in declaration order. Rows marked
// soft-deleted are excluded.
func (m *Model[T]) Get(ctx context.Context, keys ...interface{}) (*T, error) {
	if len(keys) != len(m.desc.PrimaryKey) {
		return nil, &schema.ConfigurationError{
			Type: m.desc.Type,
			Msg:  fmt.Sprintf("got %d key values for %d key columns", len(keys), len(m.desc.PrimaryKey)),
		}
	}

	conn, err := m.conn()
	if err != nil {
		return nil, err
	}
	return executor.QueryOne[T](ctx, conn, m.desc, sqlgen.SelectByKeys(m.desc, keys))
}

// GetAll returns every row of the table, excluding soft-deleted rows.
// The accumulated filter is not consulted.
func (m *Model[T]) GetAll(ctx context.Context) ([]T, error) {
	conn, err := m.conn()
	if err != nil {
		return nil, err
	}
	var empty sqlgen.Clause
	return executor.QueryAll[T](ctx, conn, m.desc, sqlgen.Select(m.desc, empty))
}

// Save inserts the bound entity. See Insert.
func (m *Model[T]) Save(ctx context.Context) (*T, error) {
	if m.entity == nil {
		return nil, ErrNoEntity
	}
	return m.Insert(ctx, m.entity)
}

// Insert persists the entity's set fields, in declaration order, and
// returns the stored row. Null fields are omitted from the statement
// entirely; reference fields collapse to the referenced key value. The
// stored row is re-fetched through LastInsertId when the key is a single
// integer column, otherwise through the entity's own key values; when
// neither applies the input entity is returned as-is.
func (m *Model[T]) Insert(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, ErrNoEntity
	}

	columns, values := insertValues(m.desc, entity)
	if len(columns) == 0 {
		return nil, ErrNoFields
	}

	conn, err := m.conn()
	if err != nil {
		return nil, err
	}

	res, err := executor.Exec(ctx, conn, sqlgen.Insert(m.desc, columns, values))
	if err != nil {
		return nil, err
	}

	if integerKey(m.desc) {
		if id, err := res.LastInsertId(); err == nil && id != 0 {
			return executor.QueryOne[T](ctx, conn, m.desc, sqlgen.SelectByKeys(m.desc, []interface{}{id}))
		}
	}
	if keys, err := keyValues(m.desc, entity); err == nil {
		return executor.QueryOne[T](ctx, conn, m.desc, sqlgen.SelectByKeys(m.desc, keys))
	}
	return entity, nil
}

// Update rewrites the bound entity's row from its set non-key fields and
// reports whether a row changed. With zero set fields it returns false
// without executing anything.
func (m *Model[T]) Update(ctx context.Context) (bool, error) {
	return m.update(ctx, m.entity)
}

// UpdateEntity is Update over an explicit entity instead of the bound one.
func (m *Model[T]) UpdateEntity(ctx context.Context, entity *T) (bool, error) {
	return m.update(ctx, entity)
}

func (m *Model[T]) update(ctx context.Context, entity *T) (bool, error) {
	if entity == nil {
		return false, ErrNoEntity
	}

	columns, values := updateValues(m.desc, entity)
	if len(columns) == 0 {
		return false, nil
	}

	keys, err := keyValues(m.desc, entity)
	if err != nil {
		return false, err
	}

	conn, err := m.conn()
	if err != nil {
		return false, err
	}

	res, err := executor.Exec(ctx, conn, sqlgen.Update(m.desc, columns, values, keys))
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Delete removes the bound entity's row by its primary-key values.
func (m *Model[T]) Delete(ctx context.Context) error {
	if m.entity == nil {
		return ErrNoEntity
	}
	keys, err := keyValues(m.desc, m.entity)
	if err != nil {
		return err
	}
	return m.deleteByKeys(ctx, keys)
}

// DeleteByKeys removes one row by explicit primary-key values, bound
// positionally against the key columns.
func (m *Model[T]) DeleteByKeys(ctx context.Context, keys ...interface{}) error {
	if len(keys) != len(m.desc.PrimaryKey) {
		return &schema.ConfigurationError{
			Type: m.desc.Type,
			Msg:  fmt.Sprintf("got %d key values for %d key columns", len(keys), len(m.desc.PrimaryKey)),
		}
	}
	return m.deleteByKeys(ctx, keys)
}

func (m *Model[T]) deleteByKeys(ctx context.Context, keys []interface{}) error {
	conn, err := m.conn()
	if err != nil {
		return err
	}
	_, err = executor.Exec(ctx, conn, sqlgen.Delete(m.desc, keys))
	return err
}

// SoftDelete stamps the bound entity's row as deleted instead of removing
// it. The entity type must declare the delete_at column.
func (m *Model[T]) SoftDelete(ctx context.Context) error {
	if !m.desc.SoftDelete {
		return ErrNotSoftDeletable
	}
	if m.entity == nil {
		return ErrNoEntity
	}
	keys, err := keyValues(m.desc, m.entity)
	if err != nil {
		return err
	}

	conn, err := m.conn()
	if err != nil {
		return err
	}
	_, err = executor.Exec(ctx, conn, sqlgen.SoftDelete(m.desc, keys))
	return err
}

// Count returns the number of rows matching the accumulated filter, or
// the size of the whole table with no filter.
func (m *Model[T]) Count(ctx context.Context) (int64, error) {
	if err := m.clause.Err(); err != nil {
		return 0, err
	}
	conn, err := m.conn()
	if err != nil {
		return 0, err
	}
	return executor.QueryCount(ctx, conn, sqlgen.Count(m.desc, m.clause))
}

// Query executes raw SQL and returns each row as a column-to-value map.
// The builder state is not consulted; the statement runs verbatim with
// the given placeholder arguments.
func (m *Model[T]) Query(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error) {
	conn, err := m.conn()
	if err != nil {
		return nil, err
	}
	return executor.QueryMaps(ctx, conn, &sqlgen.Query{SQL: query, Args: args})
}
