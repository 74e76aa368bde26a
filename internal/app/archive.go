package app

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	mysql "github.com/go-sql-driver/mysql"
)

// ErrDuplicatePage signals that a path already exists in the archive.
var ErrDuplicatePage = errors.New("duplicate page")

// ArchivedPage is one rendered page as stored by the archive.
type ArchivedPage struct {
	Path        string
	Title       string
	HTML        string
	ContentHash string
	BuildID     string
	UpdatedAt   time.Time
}

// Archive records rendered pages in MySQL so consecutive builds can report
// which paths changed.
type Archive struct {
	db *sql.DB
}

// NewArchive wraps an open database handle.
func NewArchive(db *sql.DB) *Archive {
	return &Archive{db: db}
}

// ContentHash returns the hex SHA-256 of a rendered page.
func ContentHash(html string) string {
	sum := sha256.Sum256([]byte(html))
	return hex.EncodeToString(sum[:])
}

// Record stores the page and reports whether its content differs from the
// previously archived version. New paths count as changed.
func (a *Archive) Record(ctx context.Context, path, title, html, buildID string) (bool, error) {
	hash := ContentHash(html)

	err := a.insert(ctx, ArchivedPage{Path: path, Title: title, HTML: html, ContentHash: hash, BuildID: buildID})
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, ErrDuplicatePage) {
		return false, err
	}

	stored, err := a.Lookup(ctx, path)
	if err != nil {
		return false, err
	}
	if stored != nil && stored.ContentHash == hash {
		const touch = `UPDATE pages SET build_id = ? WHERE path = ?`
		_, err := a.db.ExecContext(ctx, touch, buildID, path)
		return false, err
	}

	const update = `UPDATE pages SET title = ?, html = ?, content_hash = ?, build_id = ? WHERE path = ?`
	if _, err := a.db.ExecContext(ctx, update, title, html, hash, buildID, path); err != nil {
		return false, err
	}
	return true, nil
}

func (a *Archive) insert(ctx context.Context, p ArchivedPage) error {
	const insert = `INSERT INTO pages (path, title, html, content_hash, build_id) VALUES (?, ?, ?, ?, ?)`
	if _, err := a.db.ExecContext(ctx, insert, p.Path, p.Title, p.HTML, p.ContentHash, p.BuildID); err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return ErrDuplicatePage
		}
		return err
	}
	return nil
}

// Lookup returns the archived page at path, or nil when none exists.
func (a *Archive) Lookup(ctx context.Context, path string) (*ArchivedPage, error) {
	const query = `SELECT path, title, html, content_hash, build_id, updated_at FROM pages WHERE path = ?`
	row := a.db.QueryRowContext(ctx, query, path)
	var p ArchivedPage
	if err := row.Scan(&p.Path, &p.Title, &p.HTML, &p.ContentHash, &p.BuildID, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Count returns the number of archived pages.
func (a *Archive) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM pages`
	var count int
	if err := a.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Stale returns the paths not touched by buildID, i.e. pages that disappeared
// from the CMS since an earlier build.
func (a *Archive) Stale(ctx context.Context, buildID string) ([]string, error) {
	const query = `SELECT path FROM pages WHERE build_id <> ? ORDER BY path`
	rows, err := a.db.QueryContext(ctx, query, buildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// Pages streams every archived page to fn in path order.
func (a *Archive) Pages(ctx context.Context, fn func(ArchivedPage) error) error {
	const query = `SELECT path, title, html, content_hash, build_id, updated_at FROM pages ORDER BY path`
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p ArchivedPage
		if err := rows.Scan(&p.Path, &p.Title, &p.HTML, &p.ContentHash, &p.BuildID, &p.UpdatedAt); err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return rows.Err()
}
