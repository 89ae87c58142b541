package provider

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Tomtomcapo/AssetBuilder/internal/schema"
)

// Resolution failures are recoverable: callers treat them as "skip this
// class" and keep going.
var (
	// ErrMissingCollectionName is returned when a class carries no
	// collection-name marker.
	ErrMissingCollectionName = errors.New("class declares no collection name")

	// ErrFieldNotFound is returned when no discovered provider exposes the
	// declared collection.
	ErrFieldNotFound = errors.New("no provider exposes the declared collection")

	// ErrAmbiguousProviderField is returned in strict mode when more than
	// one provider exposes the same collection name.
	ErrAmbiguousProviderField = errors.New("collection name exposed by multiple providers")
)

// Resolver binds classes to the provider collections backing them.
// Discovery runs once per session and successful lookups are cached until
// ClearCache is called. All operations run on the calling goroutine; the
// resolver performs no locking of its own.
type Resolver struct {
	providers  []*Provider
	discovered []*Provider
	scanned    bool
	cache      map[string]*FieldHandle
	strict     bool
	log        *zap.Logger
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithStrict makes ambiguous collection lookups an error instead of a
// logged first-match-wins warning.
func WithStrict() ResolverOption {
	return func(r *Resolver) { r.strict = true }
}

// WithLogger sets the resolver's logger
func WithLogger(log *zap.Logger) ResolverOption {
	return func(r *Resolver) { r.log = log }
}

// NewResolver creates a resolver over the given provider set. Providers
// are searched in registration order.
func NewResolver(providers []*Provider, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		providers: providers,
		cache:     make(map[string]*FieldHandle),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterProvider adds a provider to the set. Registering after the
// initial scan requires a ClearCache for the provider to be discovered.
func (r *Resolver) RegisterProvider(p *Provider) {
	r.providers = append(r.providers, p)
}

// Resolve returns the collection backing the given class. The result is
// cached for the session.
func (r *Resolver) Resolve(class *schema.Class) (*FieldHandle, error) {
	if handle, ok := r.cache[class.Name]; ok {
		return handle, nil
	}

	if !r.scanned {
		r.scanProviders()
	}

	if class.CollectionName == "" {
		return nil, fmt.Errorf("class %s: %w", class.Name, ErrMissingCollectionName)
	}

	var handle *FieldHandle
	for _, p := range r.discovered {
		instances, ok := p.Collections[class.CollectionName]
		if !ok {
			continue
		}
		if handle != nil {
			// First match wins; surface the ambiguity instead of resolving
			// it silently.
			if r.strict {
				return nil, fmt.Errorf("class %s: collection %q found in both %s and %s: %w",
					class.Name, class.CollectionName, handle.Provider, p.Name, ErrAmbiguousProviderField)
			}
			r.log.Warn("collection exposed by multiple providers, keeping first match",
				zap.String("class", class.Name),
				zap.String("collection", class.CollectionName),
				zap.String("kept", handle.Provider),
				zap.String("ignored", p.Name))
			continue
		}
		handle = &FieldHandle{
			Provider:   p.Name,
			Collection: class.CollectionName,
			Instances:  instances,
		}
	}

	if handle == nil {
		return nil, fmt.Errorf("class %s: collection %q: %w", class.Name, class.CollectionName, ErrFieldNotFound)
	}

	r.cache[class.Name] = handle
	return handle, nil
}

// scanProviders discovers usable providers, skipping malformed ones with a
// warning.
func (r *Resolver) scanProviders() {
	r.discovered = r.discovered[:0]
	for _, p := range r.providers {
		if !p.validShape() {
			name := "<unnamed>"
			if p != nil && p.Name != "" {
				name = p.Name
			}
			r.log.Warn("skipping provider with invalid shape", zap.String("provider", name))
			continue
		}
		r.discovered = append(r.discovered, p)
	}
	r.scanned = true
}

// ClearCache drops all cached lookups and the discovered provider set,
// forcing a full re-scan on next use.
func (r *Resolver) ClearCache() {
	r.cache = make(map[string]*FieldHandle)
	r.discovered = nil
	r.scanned = false
}

// Scanned reports whether provider discovery has run in this session
func (r *Resolver) Scanned() bool {
	return r.scanned
}
