// Package store provides dataset storage for uploaded GEDCOM documents.
//
// The HTTP server lets clients upload a GEDCOM file once and render trees
// from it repeatedly. Each upload becomes a Dataset with a generated id.
// Two backends are provided:
//   - memory: in-process storage for development and tests
//   - mongo: MongoDB-backed storage for server deployments
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a dataset does not exist.
var ErrNotFound = errors.New("dataset not found")

// Dataset is an uploaded GEDCOM document with metadata.
type Dataset struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Data      []byte    `json:"-" bson:"data"`
	Hash      string    `json:"hash" bson:"hash"`
	Persons   int       `json:"persons" bson:"persons"`
	Families  int       `json:"families" bson:"families"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Store is the interface for dataset storage backends.
type Store interface {
	// Get retrieves a dataset by id. Returns ErrNotFound if it does not
	// exist.
	Get(ctx context.Context, id string) (*Dataset, error)

	// Put stores a dataset, replacing any existing dataset with the same
	// id.
	Put(ctx context.Context, ds *Dataset) error

	// Delete removes a dataset. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error

	// List returns metadata for all datasets, ordered by creation time.
	// The Data field is not populated.
	List(ctx context.Context) ([]*Dataset, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
