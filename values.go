package modelgo

import (
	"database/sql/driver"
	"fmt"
	"reflect"

	"github.com/satishbabariya/modelgo/schema"
)

// refValue is the surface of schema.Ref used for foreign-key collapse.
type refValue interface {
	Key() (interface{}, bool)
	Valid() bool
}

// fieldValue returns the bind value for one struct field and whether the
// field counts as set. Nil pointers, invalid Valuers, and unset references
// are all null. Reference fields collapse to their key value.
func fieldValue(rv reflect.Value, isRef bool) (interface{}, bool) {
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	v := rv.Interface()

	if isRef {
		if r, ok := v.(refValue); ok {
			key, set := r.Key()
			if !set {
				return nil, false
			}
			return key, true
		}
	}

	if valuer, ok := v.(driver.Valuer); ok {
		dv, err := valuer.Value()
		if err != nil || dv == nil {
			return nil, false
		}
		return v, true
	}

	return v, true
}

// insertValues collects the column names and bind values of every set
// field, in field declaration order.
func insertValues[T any](d *schema.Descriptor, entity *T) (columns []string, values []interface{}) {
	rv := reflect.ValueOf(entity).Elem()
	for _, f := range d.Fields {
		v, set := fieldValue(rv.FieldByIndex(f.Index), f.Ref)
		if !set {
			continue
		}
		columns = append(columns, f.Column)
		values = append(values, v)
	}
	return columns, values
}

// updateValues is insertValues restricted to non-primary-key fields.
func updateValues[T any](d *schema.Descriptor, entity *T) (columns []string, values []interface{}) {
	rv := reflect.ValueOf(entity).Elem()
	for _, f := range d.Fields {
		if f.Primary {
			continue
		}
		v, set := fieldValue(rv.FieldByIndex(f.Index), f.Ref)
		if !set {
			continue
		}
		columns = append(columns, f.Column)
		values = append(values, v)
	}
	return columns, values
}

// keyValues extracts the primary-key values of the entity, in key order.
// A key column without a backing field or with a null value is a
// configuration error.
func keyValues[T any](d *schema.Descriptor, entity *T) ([]interface{}, error) {
	fields, ok := d.KeyFields()
	if !ok {
		return nil, &schema.ConfigurationError{
			Type: d.Type,
			Msg:  "primary key column has no backing field",
		}
	}

	rv := reflect.ValueOf(entity).Elem()
	keys := make([]interface{}, 0, len(fields))
	for _, f := range fields {
		v, set := fieldValue(rv.FieldByIndex(f.Index), f.Ref)
		if !set {
			return nil, &schema.ConfigurationError{
				Type: d.Type,
				Msg:  fmt.Sprintf("primary key %s is null", f.Column),
			}
		}
		keys = append(keys, v)
	}
	return keys, nil
}

// integerKey reports whether the entity has a single integer primary-key
// field, the shape LastInsertId can repopulate.
func integerKey(d *schema.Descriptor) bool {
	fields, ok := d.KeyFields()
	if !ok || len(fields) != 1 || len(d.PrimaryKey) != 1 {
		return false
	}
	t := d.Type.FieldByIndex(fields[0].Index).Type
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}
