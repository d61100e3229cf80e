// Package sqlgen generates SQL statements from entity metadata and
// accumulated clause state. Statements use generic ? placeholders; values
// are never inlined into SQL text.
package sqlgen

import (
	"strconv"
	"strings"

	"github.com/satishbabariya/modelgo/schema"
)

// Query represents a SQL statement with its bound arguments.
type Query struct {
	SQL  string
	Args []interface{}
}

// Select generates SELECT * over the accumulated clause. Soft-deletable
// entities always exclude deleted rows: the filter merges into the WHERE
// clause ahead of ordering and paging, and a bare select still gets a
// proper WHERE keyword.
func Select(d *schema.Descriptor, c Clause) *Query {
	var parts []string
	var args []interface{}

	parts = append(parts, "SELECT * FROM "+d.Table)

	// WHERE clause, merged with the soft-delete exclusion
	pred := c.clause
	if d.SoftDelete {
		if pred != "" {
			pred += " AND " + schema.SoftDeleteColumn + " IS NULL"
		} else {
			pred = schema.SoftDeleteColumn + " IS NULL"
		}
	}
	if pred != "" {
		parts = append(parts, "WHERE "+pred)
		args = append(args, c.args...)
	}

	parts = appendTail(parts, c)

	return &Query{
		SQL:  strings.Join(parts, " "),
		Args: args,
	}
}

// SelectOne generates the find-one form of Select: the clause's limit is
// forced to 1 whatever was accumulated.
func SelectOne(d *schema.Descriptor, c Clause) *Query {
	c.limit = 1
	return Select(d, c)
}

// SelectByKeys generates the primary-key lookup: one positional
// placeholder per key column, soft-delete exclusion applied, LIMIT 1.
func SelectByKeys(d *schema.Descriptor, keys []interface{}) *Query {
	var c Clause
	c.clause = keyPredicate(d)
	c.args = keys
	return SelectOne(d, c)
}

// Count generates SELECT COUNT(*) AS count over the accumulated clause,
// with the limit forced to 1. The clause may be empty; counting does not
// require an active filter.
func Count(d *schema.Descriptor, c Clause) *Query {
	var parts []string
	var args []interface{}

	parts = append(parts, "SELECT COUNT(*) AS count FROM "+d.Table)

	if c.clause != "" {
		parts = append(parts, "WHERE "+c.clause)
		args = append(args, c.args...)
	}

	c.limit = 1
	parts = appendTail(parts, c)

	return &Query{
		SQL:  strings.Join(parts, " "),
		Args: args,
	}
}

// Insert generates INSERT over the given column subset. The caller
// supplies columns in field-declaration order, already filtered to
// non-null values.
func Insert(d *schema.Descriptor, columns []string, values []interface{}) *Query {
	var parts []string

	parts = append(parts, "INSERT INTO "+d.Table)
	parts = append(parts, "("+strings.Join(columns, ", ")+")")

	placeholders := make([]string, len(values))
	for i := range values {
		placeholders[i] = "?"
	}
	parts = append(parts, "VALUES ("+strings.Join(placeholders, ", ")+")")

	return &Query{
		SQL:  strings.Join(parts, " "),
		Args: values,
	}
}

// Update generates UPDATE ... SET over the given column subset, targeting
// one row by its primary-key values.
func Update(d *schema.Descriptor, columns []string, values []interface{}, keys []interface{}) *Query {
	var parts []string

	setParts := make([]string, len(columns))
	for i, col := range columns {
		setParts[i] = col + " = ?"
	}

	parts = append(parts, "UPDATE "+d.Table)
	parts = append(parts, "SET "+strings.Join(setParts, ", "))
	parts = append(parts, "WHERE "+keyPredicate(d))

	args := make([]interface{}, 0, len(values)+len(keys))
	args = append(args, values...)
	args = append(args, keys...)

	return &Query{
		SQL:  strings.Join(parts, " "),
		Args: args,
	}
}

// Delete generates DELETE targeting one row by its primary-key values.
func Delete(d *schema.Descriptor, keys []interface{}) *Query {
	return &Query{
		SQL:  "DELETE FROM " + d.Table + " WHERE " + keyPredicate(d),
		Args: keys,
	}
}

// SoftDelete generates the soft-delete form of Delete: the row stays and
// delete_at records the deletion time.
func SoftDelete(d *schema.Descriptor, keys []interface{}) *Query {
	return &Query{
		SQL:  "UPDATE " + d.Table + " SET " + schema.SoftDeleteColumn + " = NOW() WHERE " + keyPredicate(d),
		Args: keys,
	}
}

// keyPredicate renders "pk1 = ? AND pk2 = ?" over the primary-key columns
// in key order.
func keyPredicate(d *schema.Descriptor) string {
	conds := make([]string, len(d.PrimaryKey))
	for i, col := range d.PrimaryKey {
		conds[i] = col + " = ?"
	}
	return strings.Join(conds, " AND ")
}

// appendTail renders ORDER BY, LIMIT, and OFFSET after the complete WHERE
// clause. Limits render as literals, matching the accumulated clause
// contract of binding only comparison values.
func appendTail(parts []string, c Clause) []string {
	if c.orderBy != "" {
		parts = append(parts, "ORDER BY "+c.orderBy)
	}
	if c.limit > 0 {
		parts = append(parts, "LIMIT "+strconv.Itoa(c.limit))
	}
	if c.offset > 0 {
		parts = append(parts, "OFFSET "+strconv.Itoa(c.offset))
	}
	return parts
}
