// Package schema provides a registry for managing class descriptors
package schema

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages all class descriptors known to the builder
type Registry struct {
	classes map[string]*Class
	mu      sync.RWMutex
}

// NewRegistry creates a new class registry
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[string]*Class),
	}
}

// Register registers a new class descriptor
func (r *Registry) Register(class *Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if class.Name == "" {
		return fmt.Errorf("class name cannot be empty")
	}
	if _, exists := r.classes[class.Name]; exists {
		return fmt.Errorf("class %s is already registered", class.Name)
	}

	r.classes[class.Name] = class
	return nil
}

// Get retrieves a class descriptor by name
func (r *Registry) Get(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	class, exists := r.classes[name]
	return class, exists
}

// All returns a copy of all registered classes
func (r *Registry) All() map[string]*Class {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*Class, len(r.classes))
	for k, v := range r.classes {
		result[k] = v
	}
	return result
}

// List returns the names of all registered classes, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Marked returns all classes carrying the generate marker, in name order
// so downstream passes see a deterministic sequence.
func (r *Registry) Marked() []*Class {
	r.mu.RLock()
	defer r.mu.RUnlock()

	marked := make([]*Class, 0, len(r.classes))
	for _, class := range r.classes {
		if class.Generate {
			marked = append(marked, class)
		}
	}
	sort.Slice(marked, func(i, j int) bool { return marked[i].Name < marked[j].Name })
	return marked
}

// IsMarked reports whether the named class carries the generate marker
func (r *Registry) IsMarked(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	class, exists := r.classes[name]
	return exists && class.Generate
}

// EffectiveProperties returns a class's own properties plus all properties
// inherited through its parent chain, parents first. Ignored properties are
// retained; callers filter on the marker themselves.
func (r *Registry) EffectiveProperties(class *Class) ([]*Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var chain []*Class
	seen := make(map[string]bool)
	for c := class; c != nil; {
		if seen[c.Name] {
			return nil, fmt.Errorf("inheritance cycle involving class %s", c.Name)
		}
		seen[c.Name] = true
		chain = append(chain, c)

		if c.Parent == "" {
			break
		}
		parent, exists := r.classes[c.Parent]
		if !exists {
			return nil, fmt.Errorf("class %s: parent %s is not registered", c.Name, c.Parent)
		}
		c = parent
	}

	var props []*Property
	for i := len(chain) - 1; i >= 0; i-- {
		props = append(props, chain[i].Properties...)
	}
	return props, nil
}

// Exists checks if a class is registered
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.classes[name]
	return exists
}

// Count returns the number of registered classes
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.classes)
}

// Clear removes all registered classes (useful for testing)
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.classes = make(map[string]*Class)
}
