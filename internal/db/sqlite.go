package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLiteStore is a DocumentStore backed by a local SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore creates a document store on an opened, migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// OpenSQLiteStore opens path and returns a store that owns the handle.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewSQLiteStore(db), nil
}

// DB returns the underlying database handle.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Get returns the document or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var data, updatedAt string
	err := s.db.QueryRowContext(ctx, `SELECT data, updated_at FROM documents WHERE collection=? AND id=?`,
		collection, id).Scan(&data, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}

	doc := Document{Collection: collection, ID: id}
	if err := json.Unmarshal([]byte(data), &doc.Fields); err != nil {
		return Document{}, fmt.Errorf("decode document %s/%s: %w", collection, id, err)
	}
	doc.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return Document{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return doc, nil
}

// Set inserts or replaces the document.
func (s *SQLiteStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	if collection == "" || id == "" {
		return fmt.Errorf("set document: collection and id are required")
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	now := s.now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin set document: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO documents(collection, id, data, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET data=excluded.data, updated_at=excluded.updated_at`,
		collection, id, string(data), now, now); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("upsert document: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set document: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
