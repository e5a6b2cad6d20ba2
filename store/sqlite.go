package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gitrec/gitrec-companion/model"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS preferences (
    profile TEXT NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT (datetime('now')),
    PRIMARY KEY (profile, key)
);
`

type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens the preference database at path
func OpenSQLite(path string) (PreferenceStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Get(ctx context.Context, profile, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE profile = ? AND key = ?`, profile, key,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("%w: reading preference %s: %v", model.ErrStore, key, err)
	}

	return value, true, nil
}

func (s *sqliteStore) Set(ctx context.Context, profile, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (profile, key, value) VALUES (?, ?, ?)
		ON CONFLICT (profile, key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')`,
		profile, key, value,
	)

	if err != nil {
		return fmt.Errorf("%w: writing preference %s: %v", model.ErrStore, key, err)
	}

	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
