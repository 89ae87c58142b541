package store

import (
	"encoding/json"
	"fmt"
	"sort"
)

// MemoryStore is a map-backed Store used in tests. Documents are cloned on
// save and load so mutations behave like real persistence.
type MemoryStore struct {
	docs map[string]*Document
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*Document)}
}

func cloneDocument(doc *Document) (*Document, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var clone Document
	if err := json.Unmarshal(data, &clone); err != nil {
		return nil, err
	}
	return &clone, nil
}

// Save stores a clone of the document at the given path
func (s *MemoryStore) Save(path string, doc *Document) error {
	clone, err := cloneDocument(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", path, err)
	}
	s.docs[path] = clone
	return nil
}

// Load returns a clone of the document at the given path
func (s *MemoryStore) Load(path string) (*Document, error) {
	doc, ok := s.docs[path]
	if !ok {
		return nil, fmt.Errorf("document not found: %s", path)
	}
	return cloneDocument(doc)
}

// Delete removes the document at the given path if present
func (s *MemoryStore) Delete(path string) error {
	delete(s.docs, path)
	return nil
}

// Exists reports whether a document is present at the given path
func (s *MemoryStore) Exists(path string) bool {
	_, ok := s.docs[path]
	return ok
}

// List returns the paths of all stored documents, sorted
func (s *MemoryStore) List() ([]string, error) {
	paths := make([]string, 0, len(s.docs))
	for path := range s.docs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// Clean removes every document
func (s *MemoryStore) Clean() error {
	s.docs = make(map[string]*Document)
	return nil
}
