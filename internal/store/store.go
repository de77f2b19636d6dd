package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"gioibon/internal/document"
)

// WriteOptions controls the shape of a written database.
type WriteOptions struct {
	IndexLabel bool
}

// Write creates a fresh database at path holding segments in uid order. Any
// existing file at path is replaced. Callers publishing over a live database
// should write to a staging path first.
func Write(ctx context.Context, path string, segments []document.Segment, opts WriteOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create database dir: %w", err)
	}
	for _, stale := range []string{path, path + "-journal"} {
		if err := os.Remove(stale); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove stale database: %w", err)
		}
	}

	db, err := open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	return retryOnBusy(ctx, func() error {
		return writeContents(ctx, db, segments, opts)
	})
}

func writeContents(ctx context.Context, db *sql.DB, segments []document.Segment, opts WriteOptions) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin write tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := createSchema(ctx, tx, opts.IndexLabel); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO contents (uid, html, label, segment, audio, hint) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, seg := range segments {
		if _, err := stmt.ExecContext(ctx, seg.UID, seg.HTML, seg.Label, seg.Text, seg.Audio, seg.Hint); err != nil {
			return fmt.Errorf("insert segment %d: %w", seg.UID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit segments: %w", err)
	}
	return nil
}

func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// The web client loads the file whole, so no WAL sidecar files.
	pragmas := []string{
		"PRAGMA journal_mode=DELETE",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	return db, nil
}

// Reader gives read access to a published database.
type Reader struct {
	db   *sql.DB
	path string
}

// OpenReader opens an existing database and verifies its schema version.
func OpenReader(ctx context.Context, path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	if err := checkSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Reader{db: db, path: path}, nil
}

// Close closes the underlying connection.
func (r *Reader) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Path returns the database file path.
func (r *Reader) Path() string { return r.path }

// Segments returns every stored segment in uid order.
func (r *Reader) Segments(ctx context.Context) ([]document.Segment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT uid, html, label, segment, audio, hint FROM contents ORDER BY uid`)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	var out []document.Segment
	for rows.Next() {
		var seg document.Segment
		if err := rows.Scan(&seg.UID, &seg.HTML, &seg.Label, &seg.Text, &seg.Audio, &seg.Hint); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		out = append(out, seg)
	}
	return out, rows.Err()
}

// AudioNames returns the set of artifact names the stored segments reference.
func (r *Reader) AudioNames(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT audio FROM contents WHERE audio NOT IN (?, ?, '')`,
		document.AudioSkip, document.AudioUnresolved)
	if err != nil {
		return nil, fmt.Errorf("query audio names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan audio name: %w", err)
		}
		names[name] = struct{}{}
	}
	return names, rows.Err()
}

// LabelCounts returns the number of stored segments per label.
func (r *Reader) LabelCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT label, COUNT(1) FROM contents GROUP BY label`)
	if err != nil {
		return nil, fmt.Errorf("query label counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, err
		}
		counts[label] = count
	}
	return counts, rows.Err()
}
