// Package sqlgen accumulates filter state and generates SQL statements.
package sqlgen

import (
	"fmt"
	"strings"
)

// Clause accumulates the filter state of one fluent query: predicate text
// with placeholders, bound values, ordering and paging. The zero value is
// an empty clause. An empty predicate means "no active filter": refining
// operations silently do nothing until Where or Like starts one.
//
// Column names, operators, and order directions are appended verbatim.
// Callers are trusted with identifiers; only values are bound, always
// through placeholders.
//
// A Clause is owned by a single builder and is not safe for concurrent
// use. Copies are read-only snapshots for statement generation.
type Clause struct {
	clause  string
	args    []interface{}
	orderBy string
	limit   int
	offset  int
	err     error
}

// condition renders one comparison. A single argument compares for
// equality; two arguments supply the operator and the value.
func condition(column string, args []interface{}) (string, interface{}, error) {
	switch len(args) {
	case 1:
		return column + " = ?", args[0], nil
	case 2:
		op, ok := args[0].(string)
		if !ok {
			return "", nil, fmt.Errorf("sqlgen: operator for column %s must be a string, got %T", column, args[0])
		}
		return column + " " + op + " ?", args[1], nil
	default:
		return "", nil, fmt.Errorf("sqlgen: condition on %s takes one or two arguments, got %d", column, len(args))
	}
}

// Where starts a new filter, discarding any accumulated state.
func (c *Clause) Where(column string, args ...interface{}) {
	c.Reset()
	frag, val, err := condition(column, args)
	if err != nil {
		c.err = err
		return
	}
	c.clause = frag
	c.args = []interface{}{val}
}

// Like starts a new filter matching column against a pattern, discarding
// any accumulated state.
func (c *Clause) Like(column string, pattern interface{}) {
	c.Reset()
	c.clause = column + " LIKE ?"
	c.args = []interface{}{pattern}
}

// And refines the active filter. Without one it does nothing.
func (c *Clause) And(column string, args ...interface{}) {
	c.refine("AND", column, args)
}

// Or refines the active filter. Without one it does nothing.
func (c *Clause) Or(column string, args ...interface{}) {
	c.refine("OR", column, args)
}

func (c *Clause) refine(conj, column string, args []interface{}) {
	if c.err != nil || c.clause == "" {
		return
	}
	frag, val, err := condition(column, args)
	if err != nil {
		c.err = err
		return
	}
	c.clause += " " + conj + " " + frag
	c.args = append(c.args, val)
}

// OrderBy records an ordering term. Without an active filter it does
// nothing. Repeated calls extend the ordering column by column.
func (c *Clause) OrderBy(column, direction string) {
	if c.clause == "" {
		return
	}
	term := strings.TrimSpace(column + " " + direction)
	if c.orderBy == "" {
		c.orderBy = term
	} else {
		c.orderBy += ", " + term
	}
}

// Limit records a row limit. Without an active filter it does nothing.
func (c *Clause) Limit(n int) {
	if c.clause == "" || n <= 0 {
		return
	}
	c.limit = n
}

// Offset records a row offset. Without an active filter it does nothing.
func (c *Clause) Offset(n int) {
	if c.clause == "" || n <= 0 {
		return
	}
	c.offset = n
}

// Reset clears all accumulated state.
func (c *Clause) Reset() {
	*c = Clause{}
}

// Active reports whether a filter has been started.
func (c *Clause) Active() bool {
	return c.clause != ""
}

// Err returns the first accumulation error since the last reset.
// Terminal operations surface it instead of executing.
func (c *Clause) Err() error {
	return c.err
}

// Text returns the accumulated predicate text.
func (c *Clause) Text() string {
	return c.clause
}

// Args returns the bound values in placeholder order.
func (c *Clause) Args() []interface{} {
	return c.args
}
