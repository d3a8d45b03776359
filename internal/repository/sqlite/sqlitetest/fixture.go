// Package sqlitetest builds throwaway user stores for tests.
package sqlitetest

import (
	"database/sql"
	"net/url"
	"path/filepath"
	"sort"
	"testing"

	_ "modernc.org/sqlite"
)

const createUsersTable = `
CREATE TABLE users (
	uid INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL DEFAULT '' UNIQUE,
	pass TEXT NOT NULL DEFAULT '',
	mail TEXT NOT NULL DEFAULT ''
);
`

// NewUserStore writes a CMS-style users table holding the given name -> hash
// pairs and returns the database path.
func NewUserStore(t *testing.T, users map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "users.db")
	NewUserStoreAt(t, path, users)
	return path
}

// NewUserStoreAt is NewUserStore at a caller chosen path; the parent directory
// must exist.
func NewUserStoreAt(t *testing.T, path string, users map[string]string) {
	t.Helper()

	db, err := sql.Open("sqlite", fileURI(t, path, "rwc"))
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(createUsersTable); err != nil {
		t.Fatalf("create users table: %v", err)
	}

	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := db.Exec(`INSERT INTO users (name, pass, mail) VALUES (?, ?, ?)`, name, users[name], name+"@example.org"); err != nil {
			t.Fatalf("insert user %s: %v", name, err)
		}
	}
}

// Snapshot returns every (name, pass) row, ordered by uid.
func Snapshot(t *testing.T, path string) [][2]string {
	t.Helper()

	db, err := sql.Open("sqlite", fileURI(t, path, "ro"))
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT name, pass FROM users ORDER BY uid ASC`)
	if err != nil {
		t.Fatalf("query users: %v", err)
	}
	defer rows.Close()

	var out [][2]string
	for rows.Next() {
		var row [2]string
		if err := rows.Scan(&row[0], &row[1]); err != nil {
			t.Fatalf("scan user: %v", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("iterate users: %v", err)
	}
	return out
}

// fileURI escapes path so that '?', '#' and '%' in directory names survive.
func fileURI(t *testing.T, path, mode string) string {
	t.Helper()

	abs, err := filepath.Abs(path)
	if err != nil {
		t.Fatalf("resolve fixture path: %v", err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: "mode=" + mode}
	return u.String()
}
