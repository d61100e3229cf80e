// Package repository provides a transactional repository facade over Model.
// Every write runs in its own transaction: committed on success, rolled
// back on error. Entities are keyed by UUID.
package repository

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/satishbabariya/modelgo"
	"github.com/satishbabariya/modelgo/runtime/client"
	"github.com/satishbabariya/modelgo/schema"
)

// Repository wraps a Model with UUID-keyed accessors and transactional
// writes. Like Model, it is not safe for concurrent use.
type Repository[T any] struct {
	model *modelgo.Model[T]
}

// Option configures a Repository at construction time.
type Option func(*options)

type options struct {
	client *client.Client
	naming schema.NamingStrategy
}

// WithClient sets the execution client. Without it the Repository uses
// the package-level default client.
func WithClient(c *client.Client) Option {
	return func(o *options) { o.client = c }
}

// WithNaming sets the naming strategy for table and column resolution.
func WithNaming(n schema.NamingStrategy) Option {
	return func(o *options) { o.naming = n }
}

// New resolves the metadata for T and returns a Repository bound to it.
func New[T any](opts ...Option) (*Repository[T], error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var modelOpts []modelgo.Option
	if o.client != nil {
		modelOpts = append(modelOpts, modelgo.WithClient(o.client))
	}
	if o.naming != nil {
		modelOpts = append(modelOpts, modelgo.WithNaming(o.naming))
	}

	m, err := modelgo.New[T](modelOpts...)
	if err != nil {
		return nil, err
	}
	return &Repository[T]{model: m}, nil
}

// Model exposes the underlying Model for filtered queries beyond the
// Repository surface.
func (r *Repository[T]) Model() *modelgo.Model[T] {
	return r.model
}

// Get returns the entity with the given id, or modelgo.ErrNotFound.
func (r *Repository[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	return r.model.Get(ctx, id)
}

// GetAll returns every stored entity.
func (r *Repository[T]) GetAll(ctx context.Context) ([]T, error) {
	return r.model.GetAll(ctx)
}

// Find returns the entities matching every criteria pair, AND-composed
// on equality. Criteria are applied in sorted column order so the
// generated statement is deterministic. Empty criteria return all rows.
func (r *Repository[T]) Find(ctx context.Context, criteria map[string]interface{}) ([]T, error) {
	if len(criteria) == 0 {
		return r.model.GetAll(ctx)
	}
	r.applyCriteria(criteria)
	return r.model.Find(ctx)
}

// FindOne returns the single entity matching every criteria pair, or
// modelgo.ErrNotFound when nothing matches.
func (r *Repository[T]) FindOne(ctx context.Context, criteria map[string]interface{}) (*T, error) {
	r.applyCriteria(criteria)
	return r.model.FindOne(ctx)
}

// Count returns the number of rows matching every criteria pair. Empty
// criteria count the whole table.
func (r *Repository[T]) Count(ctx context.Context, criteria map[string]interface{}) (int64, error) {
	r.applyCriteria(criteria)
	return r.model.Count(ctx)
}

func (r *Repository[T]) applyCriteria(criteria map[string]interface{}) {
	columns := make([]string, 0, len(criteria))
	for column := range criteria {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	r.model.Reset()
	for i, column := range columns {
		if i == 0 {
			r.model.Where(column, criteria[column])
			continue
		}
		r.model.And(column, criteria[column])
	}
}

// Create inserts the entity within its own transaction and returns the
// stored row.
func (r *Repository[T]) Create(ctx context.Context, entity *T) (*T, error) {
	if err := r.model.Begin(ctx); err != nil {
		return nil, err
	}
	stored, err := r.model.Insert(ctx, entity)
	if err != nil {
		_ = r.model.Rollback()
		return nil, err
	}
	if err := r.model.Commit(); err != nil {
		return nil, err
	}
	return stored, nil
}

// Update rewrites the entity's row within its own transaction and reports
// whether a row changed.
func (r *Repository[T]) Update(ctx context.Context, entity *T) (bool, error) {
	if err := r.model.Begin(ctx); err != nil {
		return false, err
	}
	changed, err := r.model.UpdateEntity(ctx, entity)
	if err != nil {
		_ = r.model.Rollback()
		return false, err
	}
	if err := r.model.Commit(); err != nil {
		return false, err
	}
	return changed, nil
}

// Delete removes the entity's row within its own transaction.
func (r *Repository[T]) Delete(ctx context.Context, entity *T) error {
	if err := r.model.Begin(ctx); err != nil {
		return err
	}
	if err := r.model.Bind(entity).Delete(ctx); err != nil {
		_ = r.model.Rollback()
		return err
	}
	return r.model.Commit()
}
