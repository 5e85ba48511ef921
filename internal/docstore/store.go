// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package docstore keeps a local registry of documents uploaded to the
// analysis service, so document IDs survive restarts and the picker can
// offer them without a network round trip.
package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/docsight-tui/internal/docquery"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotFound      = errors.New("document not found")
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// SCHEMA
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id              TEXT PRIMARY KEY,
	filename        TEXT NOT NULL,
	pages           INTEGER NOT NULL DEFAULT 0,
	uploaded_at     INTEGER NOT NULL,
	last_queried_at INTEGER
);

CREATE INDEX IF NOT EXISTS idx_documents_uploaded_at
	ON documents(uploaded_at DESC);
`

// =============================================================================
// STORE
// =============================================================================

// Store is the local document registry backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the registry database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Record inserts or refreshes one document. Re-uploading the same document
// ID updates its metadata in place.
func (s *Store) Record(ctx context.Context, doc docquery.DocumentInfo) error {
	uploadedAt := doc.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, pages, uploaded_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			pages = excluded.pages,
			uploaded_at = excluded.uploaded_at
	`, doc.ID, doc.Filename, doc.Pages, uploadedAt.Unix())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// Get returns one document by ID.
func (s *Store) Get(ctx context.Context, id string) (docquery.DocumentInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, filename, pages, uploaded_at FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return docquery.DocumentInfo{}, ErrNotFound
	}
	if err != nil {
		return docquery.DocumentInfo{}, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return doc, nil
}

// List returns all known documents, newest upload first.
func (s *Store) List(ctx context.Context) ([]docquery.DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, pages, uploaded_at
		FROM documents
		ORDER BY uploaded_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var docs []docquery.DocumentInfo
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return docs, nil
}

// Remove deletes one document from the registry.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchQueried records that a document was just used in a query.
func (s *Store) TouchQueried(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE documents SET last_queried_at = ? WHERE id = ?
	`, time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// Count returns the number of registered documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return n, nil
}

// Sync reconciles the registry against the service's document listing:
// documents the service no longer knows are dropped, documents it reports
// that are missing locally are added.
func (s *Store) Sync(ctx context.Context, remote []docquery.DocumentInfo) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	for _, doc := range remote {
		uploadedAt := doc.UploadedAt
		if uploadedAt.IsZero() {
			uploadedAt = time.Now()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents (id, filename, pages, uploaded_at)
			VALUES (?, ?, ?, ?)
		`, doc.ID, doc.Filename, doc.Pages, uploadedAt.Unix()); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (docquery.DocumentInfo, error) {
	var doc docquery.DocumentInfo
	var uploadedAt int64
	if err := row.Scan(&doc.ID, &doc.Filename, &doc.Pages, &uploadedAt); err != nil {
		return docquery.DocumentInfo{}, err
	}
	doc.UploadedAt = time.Unix(uploadedAt, 0)
	return doc, nil
}
