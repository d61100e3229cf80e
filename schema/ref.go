package schema

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// keyer lets the resolver detect reference fields without knowing the
// referenced entity type.
type keyer interface {
	refKey() (interface{}, bool)
}

// Ref is a typed reference to another entity. It is stored as the
// referenced key value: on write it collapses to that value, and an unset
// reference binds SQL NULL. The type parameter documents and type-checks
// the target entity; it carries no runtime cost.
type Ref[T any] struct {
	key   interface{}
	valid bool
}

// NewRef returns a reference holding the target's key value.
func NewRef[T any](key interface{}) Ref[T] {
	return Ref[T]{key: key, valid: true}
}

// Key returns the referenced key value and whether the reference is set.
func (r Ref[T]) Key() (interface{}, bool) {
	return r.key, r.valid
}

// Valid reports whether the reference is set.
func (r Ref[T]) Valid() bool {
	return r.valid
}

// Value implements driver.Valuer. Unset references bind NULL.
func (r Ref[T]) Value() (driver.Value, error) {
	if !r.valid {
		return nil, nil
	}
	return r.key, nil
}

// Scan implements sql.Scanner.
func (r *Ref[T]) Scan(src interface{}) error {
	if src == nil {
		r.key, r.valid = nil, false
		return nil
	}
	switch v := src.(type) {
	case []byte:
		// Drivers reuse the byte slice between rows.
		b := make([]byte, len(v))
		copy(b, v)
		r.key = b
	case int64, float64, bool, string, time.Time:
		r.key = v
	default:
		return fmt.Errorf("schema: cannot scan %T into Ref", src)
	}
	r.valid = true
	return nil
}

func (r Ref[T]) refKey() (interface{}, bool) {
	return r.key, r.valid
}
