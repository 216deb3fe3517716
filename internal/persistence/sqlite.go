package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/spec-kit/grievance-service/internal/config"
)

// SQLite wraps the single-file database used by the default store backend.
type SQLite struct {
	DB *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS grievances (
    seq             INTEGER PRIMARY KEY AUTOINCREMENT,
    id              TEXT NOT NULL,
    student_id      TEXT NOT NULL,
    student_email   TEXT NOT NULL,
    student_dept    TEXT NOT NULL,
    category        TEXT NOT NULL,
    description     TEXT NOT NULL,
    status          TEXT NOT NULL,
    forwarded_to    TEXT,
    created_at      TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_grievances_id ON grievances(id);

CREATE TABLE IF NOT EXISTS grievance_history (
    seq             INTEGER PRIMARY KEY AUTOINCREMENT,
    id              TEXT NOT NULL,
    grievance_id    TEXT NOT NULL,
    action          TEXT NOT NULL,
    forwarded_to    TEXT,
    remarks         TEXT,
    created_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_grievance ON grievance_history(grievance_id);

CREATE TABLE IF NOT EXISTS users (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    email           TEXT NOT NULL UNIQUE,
    student_id      TEXT NOT NULL DEFAULT '',
    course          TEXT NOT NULL DEFAULT '',
    department      TEXT NOT NULL DEFAULT '',
    role            TEXT NOT NULL,
    password_hash   TEXT NOT NULL,
    created_at      TEXT NOT NULL,
    updated_at      TEXT NOT NULL
);
`

// NewSQLite opens the database and ensures the schema. Display ids start at
// G-1001, so the grievance sequence is seeded past 1000.
func NewSQLite(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", cfg.SQLitePath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Serialized access keeps BEGIN..COMMIT an exclusive read-modify-append.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `
        INSERT INTO sqlite_sequence(name, seq)
        SELECT 'grievances', 1000
        WHERE NOT EXISTS (SELECT 1 FROM sqlite_sequence WHERE name='grievances')`); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("opened sqlite store", zap.String("path", cfg.SQLitePath))
	return &SQLite{DB: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() {
	if s != nil && s.DB != nil {
		_ = s.DB.Close()
	}
}

// Ping verifies the database is reachable.
func (s *SQLite) Ping(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return sql.ErrConnDone
	}
	return s.DB.PingContext(ctx)
}
