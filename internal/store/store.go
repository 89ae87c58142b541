// Package store provides the path-addressed persisted-object store that
// materialized assets are written to.
package store

import (
	"github.com/google/uuid"
)

// Document is one persisted asset instance
type Document struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Fields map[string]any `json:"fields"`
}

// NewDocument creates a document of the given wrapper type with a fresh ID
func NewDocument(typeName string) *Document {
	return &Document{
		ID:     uuid.NewString(),
		Type:   typeName,
		Fields: make(map[string]any),
	}
}

// Ref is a serialized reference to another document by store path
type Ref struct {
	Path string `json:"$ref"`
}

// Store is a path-addressed persisted-object store. Paths are
// slash-separated and relative to the store root.
type Store interface {
	// Save writes the document at the given path, replacing any prior one
	Save(path string, doc *Document) error
	// Load reads the document at the given path
	Load(path string) (*Document, error)
	// Delete removes the document at the given path; deleting a missing
	// document is not an error
	Delete(path string) error
	// Exists reports whether a document is present at the given path
	Exists(path string) bool
	// List returns the paths of all stored documents, sorted
	List() ([]string, error)
	// Clean removes every document in the store and prunes empty
	// directories left behind
	Clean() error
}
