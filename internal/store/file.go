package store

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileStore persists documents as JSON files under a root directory
type FileStore struct {
	root string
}

// NewFileStore creates a store rooted at the given directory. The root is
// created on first save, not here, so a dry inspection never mutates disk.
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// Root returns the store's root directory
func (s *FileStore) Root() string {
	return s.root
}

func (s *FileStore) fullPath(path string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid store path: %s", path)
	}
	return filepath.Join(s.root, cleaned), nil
}

// Save writes the document at the given path, replacing any prior file
func (s *FileStore) Save(path string, doc *Document) error {
	full, err := s.fullPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create asset directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", path, err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(full, data, 0644); err != nil {
		return fmt.Errorf("failed to write document %s: %w", path, err)
	}
	return nil
}

// Load reads the document at the given path
func (s *FileStore) Load(path string) (*Document, error) {
	full, err := s.fullPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", path, err)
	}
	return &doc, nil
}

// Delete removes the document at the given path if present
func (s *FileStore) Delete(path string) error {
	full, err := s.fullPath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document %s: %w", path, err)
	}
	return nil
}

// Exists reports whether a document is present at the given path
func (s *FileStore) Exists(path string) bool {
	full, err := s.fullPath(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && !info.IsDir()
}

// List returns the store-relative paths of all persisted documents
func (s *FileStore) List() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list store: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Clean removes every document under the root and prunes directories left
// empty by the removal. The root itself is kept.
func (s *FileStore) Clean() error {
	paths, err := s.List()
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := s.Delete(path); err != nil {
			return err
		}
	}
	return s.pruneEmptyDirs(s.root)
}

func (s *FileStore) pruneEmptyDirs(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sub := filepath.Join(dir, entry.Name())
		if err := s.pruneEmptyDirs(sub); err != nil {
			return err
		}
		remaining, err := os.ReadDir(sub)
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			if err := os.Remove(sub); err != nil {
				return err
			}
		}
	}
	return nil
}
