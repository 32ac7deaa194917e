// Package persistence loads and saves the tracker state as JSON documents.
//
// Three documents make up the persisted state:
//   - students: the registry, one object per student with its scores
//   - attempts: the recent-activity log, at most its capacity
//   - auth:     the access gate flag
//
// Documents are always rewritten whole. Where they live is decided by a
// Store: a directory of files, a PostgreSQL table, Redis keys or memory.
package persistence

import (
	"context"
	"errors"
)

// ErrDocumentNotFound is returned by a Store when a document was never written.
var ErrDocumentNotFound = errors.New("persistence: document not found")

// Store reads and replaces whole documents by name.
type Store interface {
	// Read returns the document body or ErrDocumentNotFound.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write replaces the document body.
	Write(ctx context.Context, name string, data []byte) error

	// Close releases the store's resources.
	Close() error
}

// Documents names the three documents inside a Store.
type Documents struct {
	Students string
	Attempts string
	Auth     string
}

// DefaultDocuments returns the historical file names.
func DefaultDocuments() Documents {
	return Documents{
		Students: "students.json",
		Attempts: "attempts.json",
		Auth:     "auth.json",
	}
}
