package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const schema = `CREATE TABLE IF NOT EXISTS pages (
	path         VARCHAR(512) NOT NULL PRIMARY KEY,
	title        VARCHAR(512) NOT NULL,
	html         MEDIUMTEXT NOT NULL,
	content_hash CHAR(64) NOT NULL,
	build_id     CHAR(36) NOT NULL,
	created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci`

// NewDB opens a MySQL connection using sensible defaults.
func NewDB(cfg Config) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("no database configured")
	}

	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, err
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return db, nil
}

// EnsureSchema creates the pages table when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create pages table: %w", err)
	}
	return nil
}
