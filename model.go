// Package modelgo is a reflection-based convenience layer over database/sql.
// Entities are plain structs; Model resolves their table metadata once,
// accumulates a parameterized filter through a small fluent builder, and maps
// result rows back into struct values.
//
//	users := modelgo.MustNew[User]()
//	adults, err := users.Where("age", ">", 18).OrderBy("name", "ASC").Find(ctx)
package modelgo

import (
	"context"
	"reflect"

	"github.com/satishbabariya/modelgo/query/executor"
	"github.com/satishbabariya/modelgo/query/sqlgen"
	"github.com/satishbabariya/modelgo/runtime/client"
	"github.com/satishbabariya/modelgo/schema"
)

// Model is the entry point for working with one entity type. It owns the
// resolved table metadata, the accumulated filter state, an optional bound
// entity instance, and the execution target.
//
// A Model is not safe for concurrent use; each goroutine builds its own.
type Model[T any] struct {
	desc   *schema.Descriptor
	clause sqlgen.Clause
	entity *T
	client *client.Client
	tx     *client.Tx
}

// Option configures a Model at construction time.
type Option func(*options)

type options struct {
	client *client.Client
	naming schema.NamingStrategy
}

// WithClient sets the execution client. Without it the Model uses the
// package-level default client.
func WithClient(c *client.Client) Option {
	return func(o *options) { o.client = c }
}

// WithNaming sets the naming strategy used to derive table and column
// names from the entity type.
func WithNaming(n schema.NamingStrategy) Option {
	return func(o *options) { o.naming = n }
}

// New resolves the metadata for T and returns a Model bound to it.
// Resolution failures surface as *schema.ConfigurationError.
func New[T any](opts ...Option) (*Model[T], error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var schemaOpts []schema.Option
	if o.naming != nil {
		schemaOpts = append(schemaOpts, schema.WithNaming(o.naming))
	}

	desc, err := schema.Resolve(reflect.TypeOf((*T)(nil)).Elem(), schemaOpts...)
	if err != nil {
		return nil, err
	}

	return &Model[T]{desc: desc, client: o.client}, nil
}

// MustNew is New, panicking on error. Intended for package-level
// initialization of well-known entity types.
func MustNew[T any](opts ...Option) *Model[T] {
	m, err := New[T](opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Descriptor returns the resolved metadata for the entity type.
func (m *Model[T]) Descriptor() *schema.Descriptor {
	return m.desc
}

// Bind associates an entity instance with the Model for Save, Update,
// Delete, and SoftDelete. Bind(nil) clears the association.
func (m *Model[T]) Bind(entity *T) *Model[T] {
	m.entity = entity
	return m
}

// Where starts a fresh filter, discarding any accumulated state.
// Where("age", 18) filters on equality; Where("age", ">", 18) uses the
// given operator verbatim. Operators and column names are not validated;
// they must never come from untrusted input.
func (m *Model[T]) Where(column string, args ...interface{}) *Model[T] {
	m.clause.Where(column, args...)
	return m
}

// Like starts a fresh LIKE filter, discarding any accumulated state.
func (m *Model[T]) Like(column string, pattern interface{}) *Model[T] {
	m.clause.Like(column, pattern)
	return m
}

// And appends an AND condition. Without an active filter it is a no-op.
func (m *Model[T]) And(column string, args ...interface{}) *Model[T] {
	m.clause.And(column, args...)
	return m
}

// Or appends an OR condition. Without an active filter it is a no-op.
func (m *Model[T]) Or(column string, args ...interface{}) *Model[T] {
	m.clause.Or(column, args...)
	return m
}

// OrderBy appends an ordering. Without an active filter it is a no-op.
func (m *Model[T]) OrderBy(column, direction string) *Model[T] {
	m.clause.OrderBy(column, direction)
	return m
}

// Limit caps the result size. Without an active filter it is a no-op.
func (m *Model[T]) Limit(n int) *Model[T] {
	m.clause.Limit(n)
	return m
}

// Offset skips the first n rows. Without an active filter it is a no-op.
func (m *Model[T]) Offset(n int) *Model[T] {
	m.clause.Offset(n)
	return m
}

// Reset clears the accumulated filter state.
func (m *Model[T]) Reset() *Model[T] {
	m.clause.Reset()
	return m
}

// conn returns the execution target: the open transaction if one was
// begun, the injected client, or the shared default client.
func (m *Model[T]) conn() (executor.ExecQuerier, error) {
	if m.tx != nil {
		return m.tx, nil
	}
	if m.client != nil {
		return m.client, nil
	}
	return client.Default()
}

// txClient returns the client transactions are started on.
func (m *Model[T]) txClient() (*client.Client, error) {
	if m.client != nil {
		return m.client, nil
	}
	return client.Default()
}

// Begin starts a transaction. Subsequent operations run on it until
// Commit or Rollback. Calling Begin inside an open transaction is a no-op.
func (m *Model[T]) Begin(ctx context.Context) error {
	if m.tx != nil {
		return nil
	}
	c, err := m.txClient()
	if err != nil {
		return err
	}
	tx, err := c.Begin(ctx)
	if err != nil {
		return err
	}
	m.tx = tx
	return nil
}

// Commit commits the open transaction. Without one it is a no-op.
func (m *Model[T]) Commit() error {
	if m.tx == nil {
		return nil
	}
	err := m.tx.Commit()
	m.tx = nil
	return err
}

// Rollback rolls back the open transaction. Without one it is a no-op.
func (m *Model[T]) Rollback() error {
	if m.tx == nil {
		return nil
	}
	err := m.tx.Rollback()
	m.tx = nil
	return err
}

// Close releases the Model's connection. An open transaction is rolled
// back first. With an injected client the client is disconnected and
// later operations fail with client.ErrClosed; with the shared default
// client the default is closed, and the next use re-initializes it.
func (m *Model[T]) Close() error {
	if m.tx != nil {
		_ = m.Rollback()
	}
	if m.client != nil {
		return m.client.Disconnect()
	}
	return client.Close()
}
