package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore is a DocumentStore backed by Cloud Firestore. The emulator
// is used when FIRESTORE_EMULATOR_HOST is set.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects to the Firestore database of projectID.
func NewFirestoreStore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

// Get returns the document or ErrNotFound.
func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Document{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return Document{
		Collection: collection,
		ID:         id,
		Fields:     snap.Data(),
		UpdatedAt:  snap.UpdateTime,
	}, nil
}

// Set inserts or replaces the document.
func (s *FirestoreStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, fields); err != nil {
		return fmt.Errorf("set document: %w", err)
	}
	return nil
}

// Close closes the client connection.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
