package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"userpass/internal/domain"
	"userpass/internal/repository"
)

type UserRepository struct {
	db    *sql.DB
	query string
}

// NewUserRepository validates schema and prepares the lookup query for it.
func NewUserRepository(db *sql.DB, schema repository.Schema) (repository.UserRepository, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &UserRepository{
		db: db,
		query: fmt.Sprintf(`
SELECT "%s", "%s"
FROM "%s"
WHERE "%s" = ?
LIMIT 1`,
			schema.UsernameColumn,
			schema.HashColumn,
			schema.Table,
			schema.UsernameColumn,
		),
	}, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, r.query, username)

	var (
		user domain.User
		hash sql.NullString
	)
	if err := row.Scan(&user.Username, &hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.PasswordHash = hash.String
	return &user, nil
}
