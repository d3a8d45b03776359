package mysql

import (
	"context"
	"database/sql"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userpass/internal/repository"
	"userpass/internal/repository/sqlite/sqlitetest"
)

// The queries built here only use backtick quoting and LIMIT, which sqlite
// accepts, so a sqlite pool stands in for a MySQL server.
func openRepo(t *testing.T, users map[string]string, schema repository.Schema) (repository.UserRepository, string) {
	t.Helper()

	path := sqlitetest.NewUserStore(t, users)
	conn, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := OpenConn(conn, logger)
	require.NoError(t, err)

	repo, err := NewUserRepository(db, schema)
	require.NoError(t, err)
	return repo, path
}

func TestGetByUsernameReturnsStoredHash(t *testing.T) {
	repo, _ := openRepo(t, map[string]string{
		"alice": "$2y$10$abc",
		"dave":  "$S$Dxyz",
	}, repository.DefaultSchema())

	user, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "$2y$10$abc", user.PasswordHash)
}

func TestGetByUsernameUnknownUser(t *testing.T) {
	repo, _ := openRepo(t, map[string]string{"alice": "$2y$10$abc"}, repository.DefaultSchema())

	user, err := repo.GetByUsername(context.Background(), "bob")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestGetByUsernameLeavesStoreUntouched(t *testing.T) {
	repo, path := openRepo(t, map[string]string{
		"alice": "$2y$10$abc",
		"dave":  "$2y$10$def",
	}, repository.DefaultSchema())
	before := sqlitetest.Snapshot(t, path)

	for _, name := range []string{"alice", "bob", "dave"} {
		_, _ = repo.GetByUsername(context.Background(), name)
	}

	assert.Equal(t, before, sqlitetest.Snapshot(t, path))
}

func TestGetByUsernameWrongColumn(t *testing.T) {
	repo, _ := openRepo(t, map[string]string{"alice": "$2y$10$abc"}, repository.Schema{
		Table:          "users",
		UsernameColumn: "name",
		HashColumn:     "password",
	})

	_, err := repo.GetByUsername(context.Background(), "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrUserNotFound)
}

func TestNewUserRepositoryRejectsBadSchema(t *testing.T) {
	_, err := NewUserRepository(nil, repository.Schema{Table: "users`", UsernameColumn: "name", HashColumn: "pass"})
	assert.ErrorIs(t, err, repository.ErrInvalidIdentifier)
}
