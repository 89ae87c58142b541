// Package provider models the static holders that expose named collections
// of live data instances, and resolves a class's backing collection through
// a session-scoped cache.
package provider

// Instance is one live data record: the in-memory value a persisted asset
// is materialized from. Instances are identity-compared, so the same
// *Instance pointer must be used wherever the record is referenced.
type Instance struct {
	Class  string
	Fields map[string]any
}

// NewInstance creates a live instance of the named class
func NewInstance(class string, fields map[string]any) *Instance {
	if fields == nil {
		fields = make(map[string]any)
	}
	return &Instance{Class: class, Fields: fields}
}

// Field returns the named field value
func (i *Instance) Field(name string) (any, bool) {
	v, ok := i.Fields[name]
	return v, ok
}

// DisplayName returns the string value of the given property. The second
// return is false when the property is absent or not a string.
func (i *Instance) DisplayName(property string) (string, bool) {
	v, ok := i.Fields[property]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Provider is a named holder exposing ordered collections of live
// instances, keyed by collection name.
type Provider struct {
	Name        string
	Collections map[string][]*Instance
}

// NewProvider creates an empty provider
func NewProvider(name string) *Provider {
	return &Provider{
		Name:        name,
		Collections: make(map[string][]*Instance),
	}
}

// Add appends instances to the named collection
func (p *Provider) Add(collection string, instances ...*Instance) *Provider {
	p.Collections[collection] = append(p.Collections[collection], instances...)
	return p
}

// validShape reports whether the provider has the required holder shape.
// Providers failing this check are skipped during discovery, not fatal.
func (p *Provider) validShape() bool {
	return p != nil && p.Name != "" && p.Collections != nil
}

// FieldHandle is a resolved binding from a class to the provider collection
// backing it.
type FieldHandle struct {
	Provider   string
	Collection string
	Instances  []*Instance
}
