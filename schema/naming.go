package schema

import (
	"strings"

	"github.com/go-openapi/inflect"
)

// NamingStrategy maps Go identifiers to SQL identifiers.
type NamingStrategy interface {
	TableName(name string) string
	ColumnName(name string) string
}

// Lowercase lowercases identifiers verbatim: UserProfile becomes
// "userprofile". This is the default strategy.
type Lowercase struct{}

func (Lowercase) TableName(name string) string  { return strings.ToLower(name) }
func (Lowercase) ColumnName(name string) string { return strings.ToLower(name) }

// SnakeCase underscores multi-word identifiers: UserProfile becomes
// "user_profile", CreatedAt becomes "created_at".
type SnakeCase struct{}

func (SnakeCase) TableName(name string) string  { return inflect.Underscore(name) }
func (SnakeCase) ColumnName(name string) string { return inflect.Underscore(name) }
