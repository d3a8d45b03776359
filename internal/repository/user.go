package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"userpass/internal/domain"
)

var (
	// ErrUserNotFound is returned when no record matches the requested username.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidIdentifier is returned for table or column names that are not plain SQL identifiers.
	ErrInvalidIdentifier = errors.New("invalid sql identifier")
)

// UserRepository is read-only access to an external user table.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Schema names the table and columns holding user records.
type Schema struct {
	Table          string
	UsernameColumn string
	HashColumn     string
}

// DefaultSchema matches the CMS users table: users(name, pass).
func DefaultSchema() Schema {
	return Schema{
		Table:          "users",
		UsernameColumn: "name",
		HashColumn:     "pass",
	}
}

func (s Schema) Validate() error {
	for _, ident := range []struct{ kind, name string }{
		{"table", s.Table},
		{"username column", s.UsernameColumn},
		{"hash column", s.HashColumn},
	} {
		if !identifierPattern.MatchString(ident.name) {
			return fmt.Errorf("%s %q: %w", ident.kind, ident.name, ErrInvalidIdentifier)
		}
	}
	return nil
}
