package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClause_WhereAndChain(t *testing.T) {
	var c Clause
	c.Where("age", ">", 18)
	c.And("active", true)
	c.And("name", "A")

	require.NoError(t, c.Err())
	assert.Equal(t, "age > ? AND active = ? AND name = ?", c.Text())
	assert.Equal(t, []interface{}{18, true, "A"}, c.Args(), "one parameter per call, in call order")
}

func TestClause_OrConjunction(t *testing.T) {
	var c Clause
	c.Where("role", "admin")
	c.Or("role", "owner")

	assert.Equal(t, "role = ? OR role = ?", c.Text())
	assert.Equal(t, []interface{}{"admin", "owner"}, c.Args())
}

func TestClause_RefineWithoutFilterIsNoop(t *testing.T) {
	var c Clause
	c.And("age", 1)
	c.Or("age", 2)
	c.OrderBy("age", "DESC")
	c.Limit(10)
	c.Offset(5)

	assert.False(t, c.Active())
	assert.Empty(t, c.Text())
	assert.Empty(t, c.Args())
	assert.Equal(t, Clause{}, c, "builder state unchanged")
}

func TestClause_LikeDiscardsPriorWhere(t *testing.T) {
	var c Clause
	c.Where("a", 1)
	c.Like("b", "x%")

	assert.Equal(t, "b LIKE ?", c.Text())
	assert.Equal(t, []interface{}{"x%"}, c.Args(), "exactly one parameter remains")
}

func TestClause_WhereDiscardsPriorState(t *testing.T) {
	var c Clause
	c.Where("a", 1)
	c.And("b", 2)
	c.OrderBy("a", "ASC")
	c.Where("c", "<", 3)

	assert.Equal(t, "c < ?", c.Text())
	assert.Equal(t, []interface{}{3}, c.Args())
}

func TestClause_OrderByExtends(t *testing.T) {
	var c Clause
	c.Where("a", 1)
	c.OrderBy("name", "ASC")
	c.OrderBy("age", "DESC")
	c.OrderBy("id", "")

	assert.Equal(t, "name ASC, age DESC, id", c.orderBy)
}

func TestClause_ConditionArgErrors(t *testing.T) {
	var c Clause
	c.Where("a")
	require.Error(t, c.Err())

	c.Where("a", 1, 2, 3)
	require.Error(t, c.Err())

	c.Where("a", 42, 1)
	require.Error(t, c.Err(), "operator must be a string")

	// An erroneous refinement keeps the filter text intact.
	c.Where("a", 1)
	c.And("b")
	require.Error(t, c.Err())
	assert.Equal(t, "a = ?", c.Text())

	// Starting over clears the error.
	c.Where("a", 1)
	assert.NoError(t, c.Err())
}

func TestClause_Reset(t *testing.T) {
	var c Clause
	c.Where("a", 1)
	c.OrderBy("a", "DESC")
	c.Limit(3)
	c.Reset()

	assert.Equal(t, Clause{}, c)
}

func TestClause_NonPositivePagingIgnored(t *testing.T) {
	var c Clause
	c.Where("a", 1)
	c.Limit(0)
	c.Limit(-1)
	c.Offset(-2)

	assert.Equal(t, 0, c.limit)
	assert.Equal(t, 0, c.offset)
}
