package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const sqliteScheme = "sqlite://"

// StoreURL is a parsed mock store location. "sqlite://" is a transient
// in-memory store; "sqlite:///mock.db" and "sqlite:////abs/mock.db" are
// durable files (relative and absolute).
type StoreURL struct {
	Path   string
	Memory bool
}

// ParseStoreURL parses a sqlite connection URL.
func ParseStoreURL(raw string) (StoreURL, error) {
	if !strings.HasPrefix(raw, sqliteScheme) {
		return StoreURL{}, fmt.Errorf("unsupported store url %q: want %s", raw, sqliteScheme)
	}
	rest := strings.TrimPrefix(raw, sqliteScheme)
	if rest == "" || rest == "/" || rest == "/:memory:" || rest == ":memory:" {
		return StoreURL{Memory: true}, nil
	}
	if !strings.HasPrefix(rest, "/") {
		return StoreURL{}, fmt.Errorf("invalid store url %q: missing path separator", raw)
	}
	return StoreURL{Path: strings.TrimPrefix(rest, "/")}, nil
}

func (u StoreURL) String() string {
	if u.Memory {
		return sqliteScheme
	}
	return sqliteScheme + "/" + u.Path
}

// OpenSQLite opens the mock store named by rawURL. The pool is limited to a
// single connection: an in-memory database lives only as long as that
// connection, and every consumer in the process must see the same one.
func OpenSQLite(rawURL string) (*sql.DB, error) {
	u, err := ParseStoreURL(rawURL)
	if err != nil {
		return nil, err
	}

	dsn := ":memory:"
	if !u.Memory {
		if err := os.MkdirAll(filepath.Dir(u.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
		dsn = u.Path + "?_pragma=busy_timeout(5000)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", u, err)
	}
	return conn, nil
}

// OpenSnapshot opens an existing sqlite file read-only.
func OpenSnapshot(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat snapshot: %w", err)
	}
	conn, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	conn.SetMaxOpenConns(1)
	return conn, nil
}
