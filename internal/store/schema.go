package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

const labelIndexSQL = `CREATE INDEX IF NOT EXISTS idx_contents_label ON contents(label)`

// schemaVersion is recorded in PRAGMA user_version so the web client can
// reject databases it does not understand. Bump it when schema.sql changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was written by an incompatible build.
var ErrSchemaMismatch = errors.New("schema version mismatch")

func createSchema(ctx context.Context, tx *sql.Tx, indexLabel bool) error {
	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if indexLabel {
		if _, err := tx.ExecContext(ctx, labelIndexSQL); err != nil {
			return fmt.Errorf("create label index: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}

func checkSchema(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (rerun gioibon build)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}
