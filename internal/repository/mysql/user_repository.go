package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"userpass/internal/domain"
	"userpass/internal/repository"
)

// userRow receives the aliased columns regardless of the physical schema.
type userRow struct {
	Username     string
	PasswordHash *string
}

type UserRepository struct {
	db     *gorm.DB
	schema repository.Schema
}

func NewUserRepository(db *gorm.DB, schema repository.Schema) (repository.UserRepository, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &UserRepository{db: db, schema: schema}, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var row userRow
	err := r.db.WithContext(ctx).
		Table(r.schema.Table).
		Select(fmt.Sprintf("`%s` AS username, `%s` AS password_hash", r.schema.UsernameColumn, r.schema.HashColumn)).
		Where(fmt.Sprintf("`%s` = ?", r.schema.UsernameColumn), username).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	user := &domain.User{Username: row.Username}
	if row.PasswordHash != nil {
		user.PasswordHash = *row.PasswordHash
	}
	return user, nil
}
