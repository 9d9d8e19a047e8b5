// Package db persists generated artifacts as JSON documents keyed by
// collection and id.
package db

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Document is a stored JSON object.
type Document struct {
	Collection string         `json:"collection"`
	ID         string         `json:"id"`
	Fields     map[string]any `json:"fields"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// DocumentStore reads and writes documents. Set replaces any existing
// document with the same collection and id.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	Set(ctx context.Context, collection, id string, fields map[string]any) error
	Close() error
}
