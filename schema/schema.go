// Package schema resolves entity metadata from struct types: table name,
// column list, primary key set, and soft-delete support.
package schema

import (
	"reflect"
	"strings"
	"sync"
)

// SoftDeleteColumn marks a row as soft deleted when set.
// Entities exposing this column are filtered on every read.
const SoftDeleteColumn = "delete_at"

// DefaultPrimaryKey is assumed when no field carries a primary tag.
const DefaultPrimaryKey = "id"

// Tabler overrides the table name derived from the entity type name.
type Tabler interface {
	TableName() string
}

// FieldDescriptor describes one persistent struct field.
type FieldDescriptor struct {
	Name    string // Go field name
	Column  string // SQL column name
	Index   []int  // index path for reflect.Value.FieldByIndex
	Primary bool   // member of the primary key
	Ref     bool   // field is a reference (Ref[...]) collapsing to a key column
}

// Descriptor holds the resolved metadata for one entity type.
// Descriptors are immutable after resolution and shared between callers.
type Descriptor struct {
	Type       reflect.Type
	Table      string
	Fields     []FieldDescriptor
	PrimaryKey []string
	SoftDelete bool

	byColumn map[string]int
}

// Field returns the descriptor for a column. Lookup is case-insensitive.
func (d *Descriptor) Field(column string) (FieldDescriptor, bool) {
	i, ok := d.byColumn[strings.ToLower(column)]
	if !ok {
		return FieldDescriptor{}, false
	}
	return d.Fields[i], true
}

// Columns returns the column names in field order.
func (d *Descriptor) Columns() []string {
	cols := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		cols[i] = f.Column
	}
	return cols
}

// KeyFields returns the field descriptors backing the primary key, in key
// order. ok is false when a key column has no backing field, which happens
// for entities relying on the implicit id key without declaring the column.
func (d *Descriptor) KeyFields() ([]FieldDescriptor, bool) {
	fields := make([]FieldDescriptor, 0, len(d.PrimaryKey))
	for _, col := range d.PrimaryKey {
		f, ok := d.Field(col)
		if !ok {
			return nil, false
		}
		fields = append(fields, f)
	}
	return fields, true
}

// Option configures resolution.
type Option func(*options)

type options struct {
	naming NamingStrategy
}

// WithNaming sets the naming strategy used to derive table and column names.
func WithNaming(n NamingStrategy) Option {
	return func(o *options) {
		o.naming = n
	}
}

type cacheKey struct {
	typ    reflect.Type
	naming NamingStrategy
}

var (
	cache   = make(map[cacheKey]*Descriptor)
	cacheMu sync.RWMutex
)

// Resolve builds the descriptor for an entity struct type. Results are
// cached per type and naming strategy; repeated calls return the shared
// descriptor. Validation is eager: metadata problems surface here, not at
// execution time.
func Resolve(t reflect.Type, opts ...Option) (*Descriptor, error) {
	o := options{naming: Lowercase{}}
	for _, opt := range opts {
		opt(&o)
	}

	key := cacheKey{typ: t, naming: o.naming}
	cacheMu.RLock()
	d, ok := cache[key]
	cacheMu.RUnlock()
	if ok {
		return d, nil
	}

	d, err := resolve(t, o.naming)
	if err != nil {
		return nil, err
	}

	cacheMu.Lock()
	cache[key] = d
	cacheMu.Unlock()

	return d, nil
}

func resolve(t reflect.Type, naming NamingStrategy) (*Descriptor, error) {
	if t == nil {
		return nil, &ConfigurationError{Msg: "entity type is nil"}
	}
	if t.Kind() != reflect.Struct {
		return nil, &ConfigurationError{Type: t, Msg: "entity must be a struct type"}
	}

	d := &Descriptor{
		Type:     t,
		Table:    tableName(t, naming),
		byColumn: make(map[string]int),
	}

	if err := collectFields(d, t, nil, naming); err != nil {
		return nil, err
	}

	// Primary key: tagged fields in declaration order, or the implicit id.
	for _, f := range d.Fields {
		if f.Primary {
			d.PrimaryKey = append(d.PrimaryKey, f.Column)
		}
	}
	if len(d.PrimaryKey) == 0 {
		d.PrimaryKey = []string{DefaultPrimaryKey}
	}

	_, d.SoftDelete = d.Field(SoftDeleteColumn)

	return d, nil
}

// tableName prefers the Tabler override, falling back to the naming
// strategy applied to the bare type name.
func tableName(t reflect.Type, naming NamingStrategy) string {
	if t.Implements(tablerType) {
		return reflect.New(t).Elem().Interface().(Tabler).TableName()
	}
	if reflect.PtrTo(t).Implements(tablerType) {
		return reflect.New(t).Interface().(Tabler).TableName()
	}
	return naming.TableName(t.Name())
}

var (
	tablerType = reflect.TypeOf((*Tabler)(nil)).Elem()
	keyerType  = reflect.TypeOf((*keyer)(nil)).Elem()
)

// collectFields walks the struct type: own fields first, then embedded
// structs in declaration order. A column already collected shadows any
// later (deeper) definition, so the outermost declaration wins. Two fields
// of the same struct mapping to one column is a configuration error.
func collectFields(d *Descriptor, t reflect.Type, path []int, naming NamingStrategy) error {
	var embedded []reflect.StructField
	local := make(map[string]bool)

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		if f.Anonymous && f.Type.Kind() == reflect.Ptr {
			return &ConfigurationError{Type: d.Type, Msg: "embedded pointer field " + f.Name + " is not supported"}
		}
		if f.Anonymous && f.Type.Kind() == reflect.Struct && !f.Type.Implements(keyerType) {
			embedded = append(embedded, f)
			continue
		}

		column, primary, skip, err := parseTag(d.Type, f, naming)
		if err != nil {
			return err
		}
		if skip {
			continue
		}

		isRef := f.Type.Implements(keyerType)
		if primary && isRef {
			return &ConfigurationError{Type: d.Type, Msg: "field " + f.Name + " is a reference and cannot be part of the primary key"}
		}

		lower := strings.ToLower(column)
		if local[lower] {
			return &ConfigurationError{Type: d.Type, Msg: "duplicate column " + column + " in " + t.String()}
		}
		local[lower] = true

		if _, ok := d.byColumn[lower]; ok {
			continue // shadowed by an outer definition
		}

		idx := make([]int, 0, len(path)+1)
		idx = append(idx, path...)
		idx = append(idx, i)

		d.byColumn[lower] = len(d.Fields)
		d.Fields = append(d.Fields, FieldDescriptor{
			Name:    f.Name,
			Column:  column,
			Index:   idx,
			Primary: primary,
			Ref:     isRef,
		})
	}

	// Embedded structs flatten like supertypes.
	for _, f := range embedded {
		idx := make([]int, 0, len(path)+1)
		idx = append(idx, path...)
		idx = append(idx, f.Index[0])
		if err := collectFields(d, f.Type, idx, naming); err != nil {
			return err
		}
	}

	return nil
}

// parseTag reads the db tag: "column", "column,primary", ",primary",
// or "-" to exclude the field.
func parseTag(owner reflect.Type, f reflect.StructField, naming NamingStrategy) (column string, primary, skip bool, err error) {
	tag := f.Tag.Get("db")
	if tag == "-" {
		return "", false, true, nil
	}

	parts := strings.Split(tag, ",")
	column = strings.TrimSpace(parts[0])
	for _, p := range parts[1:] {
		switch strings.TrimSpace(p) {
		case "primary":
			primary = true
		case "":
		default:
			return "", false, false, &ConfigurationError{Type: owner, Msg: "field " + f.Name + " has unknown tag option " + strings.TrimSpace(p)}
		}
	}

	if column == "" {
		column = naming.ColumnName(f.Name)
	}
	if column == "" {
		return "", false, false, &ConfigurationError{Type: owner, Msg: "field " + f.Name + " resolves to an empty column name"}
	}

	return column, primary, false, nil
}
