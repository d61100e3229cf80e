package modelgo

import (
	"errors"

	"github.com/satishbabariya/modelgo/query/executor"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = executor.ErrNotFound

	// ErrNoFields is returned when an insert finds no set fields to persist.
	ErrNoFields = errors.New("no non-null fields to persist")

	// ErrNoEntity is returned by entity-bound operations without a bound entity.
	ErrNoEntity = errors.New("no entity bound")

	// ErrNotSoftDeletable is returned by SoftDelete when the entity type
	// does not declare the delete_at column.
	ErrNotSoftDeletable = errors.New("entity is not soft-deletable")
)
