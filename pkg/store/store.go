// Package store persists saved projects for the API and CLI.
//
// A saved project is the validated project file plus storage metadata:
// a time-sortable ULID, the project name, and the save timestamp. The
// Store interface has four implementations:
//   - memory: In-memory storage for development/testing
//   - file: JSON files in a config directory for CLI use
//   - sqlite: Embedded local project library
//   - mongo: Durable storage for multi-instance API deployments
//
// # Usage
//
// Create a store and save a project:
//
//	st, err := store.NewFileStore("") // Uses ~/.config/baleframe/projects/
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	rec := store.NewRecord(file)
//	if err := st.Put(ctx, rec); err != nil {
//	    return err
//	}
//
// Lookups on a missing record return a NOT_FOUND_PROJECT error, which
// the API maps to 404:
//
//	rec, err := st.Get(ctx, id)
//	if errors.Is(err, errors.ErrCodeProjectNotFound) {
//	    // no such project
//	}
package store

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/baleframe/baleframe/pkg/errors"
	"github.com/baleframe/baleframe/pkg/project"
)

// Record is a saved project with its storage metadata.
type Record struct {
	ID      string       `json:"id" bson:"_id"`
	Name    string       `json:"name" bson:"name"`
	SavedAt time.Time    `json:"saved_at" bson:"saved_at"`
	File    project.File `json:"file" bson:"file"`
}

// Store is the interface for saved-project storage backends.
type Store interface {
	// Put saves a record, replacing any record with the same ID.
	Put(ctx context.Context, rec Record) error

	// Get retrieves a record by ID. Returns a NOT_FOUND_PROJECT error
	// if no record exists.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns all records, newest first. The ULID encodes the
	// creation time, so descending ID order is descending age.
	List(ctx context.Context) ([]Record, error)

	// Delete removes a record. Returns a NOT_FOUND_PROJECT error if no
	// record exists.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// NewID returns a fresh time-sortable record ID. IDs created later
// always sort lexicographically after IDs created earlier.
func NewID() string {
	return ulid.Make().String()
}

// NewRecord wraps a project file in a record with a fresh ID and the
// current time. The record name is taken from the file.
func NewRecord(f project.File) Record {
	return Record{
		ID:      NewID(),
		Name:    f.Project.Name,
		SavedAt: time.Now().UTC(),
		File:    f,
	}
}

// Validate checks that a record can be stored.
func (r Record) Validate() error {
	if r.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "record has no id")
	}
	if _, err := ulid.ParseStrict(r.ID); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "record id %q is not a ULID", r.ID)
	}
	return nil
}

// notFound builds the coded error all backends return for a missing
// record.
func notFound(id string) error {
	return errors.New(errors.ErrCodeProjectNotFound, "project %s not found", id)
}
