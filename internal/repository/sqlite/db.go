package sqlite

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Open opens an existing sqlite database read-only. The file is never created.
func Open(path string) (*sql.DB, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat sqlite db: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("sqlite db %s is a directory", path)
	}

	dsn, err := FileURI(path, "ro")
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA query_only = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable query_only: %w", err)
	}

	return db, nil
}

// FileURI builds a sqlite URI filename for path opened with the given mode
// (ro, rw, rwc). The path is made absolute and escaped so that '?', '#' and
// '%' stay part of the file name.
func FileURI(path, mode string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve sqlite db path: %w", err)
	}
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(abs),
		RawQuery: url.Values{"mode": {mode}}.Encode(),
	}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	return u.String(), nil
}
