package schema

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type base struct {
	ID        *int64     `db:"id,primary"`
	CreatedAt *time.Time `db:"created_at"`
}

type account struct {
	base
	Name   *string `db:"name"`
	Age    *int64  `db:"age"`
	Active *bool   `db:"active"`
	secret string  // not a column
}

type renamed struct {
	ID *int64 `db:"id,primary"`
}

func (renamed) TableName() string { return "accounts_v2" }

func typeOf(v interface{}) reflect.Type {
	return reflect.TypeOf(v)
}

func TestResolve_Defaults(t *testing.T) {
	type Profile struct {
		Bio *string
	}

	d, err := Resolve(typeOf(Profile{}))
	require.NoError(t, err)

	assert.Equal(t, "profile", d.Table)
	assert.Equal(t, []string{"id"}, d.PrimaryKey, "implicit primary key")
	assert.False(t, d.SoftDelete)

	f, ok := d.Field("bio")
	require.True(t, ok)
	assert.Equal(t, "Bio", f.Name)
	assert.False(t, f.Primary)

	// No field backs the implicit id key.
	_, ok = d.KeyFields()
	assert.False(t, ok)
}

func TestResolve_EmbeddedAndTags(t *testing.T) {
	d, err := Resolve(typeOf(account{}))
	require.NoError(t, err)

	assert.Equal(t, "account", d.Table)
	assert.Equal(t, []string{"id"}, d.PrimaryKey)

	// Own fields come first, embedded definitions follow.
	assert.Equal(t, []string{"name", "age", "active", "id", "created_at"}, d.Columns())

	keys, ok := d.KeyFields()
	require.True(t, ok)
	require.Len(t, keys, 1)
	assert.Equal(t, "ID", keys[0].Name)
	assert.Equal(t, []int{0, 0}, keys[0].Index, "embedded fields keep their index path")

	_, ok = d.Field("secret")
	assert.False(t, ok, "unexported fields are not columns")
}

func TestResolve_TablerOverride(t *testing.T) {
	d, err := Resolve(typeOf(renamed{}))
	require.NoError(t, err)
	assert.Equal(t, "accounts_v2", d.Table)
}

func TestResolve_CompositePrimaryKey(t *testing.T) {
	type Membership struct {
		AccountID *int64 `db:"account_id,primary"`
		GroupID   *int64 `db:"group_id,primary"`
		Role      *string
	}

	d, err := Resolve(typeOf(Membership{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"account_id", "group_id"}, d.PrimaryKey)
}

func TestResolve_ShadowedEmbeddedField(t *testing.T) {
	type inner struct {
		ID   *int64  `db:"id,primary"`
		Name *string `db:"name"`
	}
	type outer struct {
		inner
		Name *string `db:"name"` // shadows inner.Name
	}

	d, err := Resolve(typeOf(outer{}))
	require.NoError(t, err)

	f, ok := d.Field("name")
	require.True(t, ok)
	assert.Equal(t, []int{1}, f.Index, "outer definition wins")
	assert.Equal(t, []string{"name", "id"}, d.Columns())
}

func TestResolve_DuplicateColumn(t *testing.T) {
	type Broken struct {
		A *string `db:"same"`
		B *string `db:"same"`
	}

	_, err := Resolve(typeOf(Broken{}))
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Error(), "duplicate column")
}

func TestResolve_SkippedField(t *testing.T) {
	type Entity struct {
		ID     *int64  `db:"id,primary"`
		Cached *string `db:"-"`
	}

	d, err := Resolve(typeOf(Entity{}))
	require.NoError(t, err)
	_, ok := d.Field("cached")
	assert.False(t, ok)
}

func TestResolve_SoftDelete(t *testing.T) {
	type Post struct {
		ID       *int64     `db:"id,primary"`
		DeleteAt *time.Time `db:"delete_at"`
	}

	d, err := Resolve(typeOf(Post{}))
	require.NoError(t, err)
	assert.True(t, d.SoftDelete)
}

func TestResolve_RefField(t *testing.T) {
	type Author struct {
		ID *int64 `db:"id,primary"`
	}
	type Book struct {
		ID     *int64      `db:"id,primary"`
		Author Ref[Author] `db:"author_id"`
	}

	d, err := Resolve(typeOf(Book{}))
	require.NoError(t, err)

	f, ok := d.Field("author_id")
	require.True(t, ok)
	assert.True(t, f.Ref)
}

func TestResolve_RefPrimaryKeyRejected(t *testing.T) {
	type Author struct {
		ID *int64 `db:"id,primary"`
	}
	type Broken struct {
		Author Ref[Author] `db:"author_id,primary"`
	}

	_, err := Resolve(typeOf(Broken{}))
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestResolve_NonStruct(t *testing.T) {
	_, err := Resolve(reflect.TypeOf(42))
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestResolve_UnknownTagOption(t *testing.T) {
	type Broken struct {
		ID *int64 `db:"id,autoincrement"`
	}

	_, err := Resolve(typeOf(Broken{}))
	require.Error(t, err)
}

func TestResolve_Cached(t *testing.T) {
	first, err := Resolve(typeOf(account{}))
	require.NoError(t, err)
	second, err := Resolve(typeOf(account{}))
	require.NoError(t, err)
	assert.Same(t, first, second)

	snake, err := Resolve(typeOf(account{}), WithNaming(SnakeCase{}))
	require.NoError(t, err)
	assert.NotSame(t, first, snake, "naming strategy is part of the cache key")
}

func TestNamingStrategies(t *testing.T) {
	type UserProfile struct {
		DisplayName *string
	}

	d, err := Resolve(typeOf(UserProfile{}), WithNaming(SnakeCase{}))
	require.NoError(t, err)
	assert.Equal(t, "user_profile", d.Table)
	_, ok := d.Field("display_name")
	assert.True(t, ok)

	lower, err := Resolve(typeOf(UserProfile{}))
	require.NoError(t, err)
	assert.Equal(t, "userprofile", lower.Table)
	_, ok = lower.Field("displayname")
	assert.True(t, ok)
}

func TestRef_Lifecycle(t *testing.T) {
	type Author struct {
		ID *int64 `db:"id,primary"`
	}

	var unset Ref[Author]
	assert.False(t, unset.Valid())
	v, err := unset.Value()
	require.NoError(t, err)
	assert.Nil(t, v, "unset references bind NULL")

	ref := NewRef[Author](int64(7))
	key, ok := ref.Key()
	require.True(t, ok)
	assert.Equal(t, int64(7), key)

	var scanned Ref[Author]
	require.NoError(t, scanned.Scan(int64(7)))
	assert.True(t, scanned.Valid())

	require.NoError(t, scanned.Scan(nil))
	assert.False(t, scanned.Valid())
}
