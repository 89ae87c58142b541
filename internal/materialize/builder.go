package materialize

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Tomtomcapo/AssetBuilder/internal/provider"
	"github.com/Tomtomcapo/AssetBuilder/internal/schema"
	"github.com/Tomtomcapo/AssetBuilder/internal/store"
)

// placeholderName is used when an instance has no usable display name
const placeholderName = "unnamed"

// Builder materializes persisted asset documents from live instances. One
// Builder owns one build session: the instance-to-path cache threading the
// two passes together is reset at the start of every Build call. All work
// runs synchronously on the calling goroutine.
type Builder struct {
	registry *schema.Registry
	resolver *provider.Resolver
	store    store.Store
	conv     *Converter
	log      *zap.Logger

	state State
	paths map[*provider.Instance]string
}

// BuilderOption configures a Builder
type BuilderOption func(*Builder)

// WithBuildLogger sets the builder's logger
func WithBuildLogger(log *zap.Logger) BuilderOption {
	return func(b *Builder) { b.log = log }
}

// NewBuilder creates a builder over the given registry, resolver, and store
func NewBuilder(registry *schema.Registry, resolver *provider.Resolver, st store.Store, opts ...BuilderOption) *Builder {
	b := &Builder{
		registry: registry,
		resolver: resolver,
		store:    st,
		conv:     NewConverter(registry),
		log:      zap.NewNop(),
		state:    StateIdle,
		paths:    make(map[*provider.Instance]string),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns the current build state
func (b *Builder) State() State {
	return b.state
}

// Paths returns the instance-to-path cache of the last build
func (b *Builder) Paths() map[*provider.Instance]string {
	return b.paths
}

// Build materializes every marked class selected by toggles. A nil toggles
// map selects every class. Per-item failures are logged and skipped;
// failures that invalidate the whole run move the builder to StateFailed
// and return the error.
func (b *Builder) Build(toggles map[string]bool) error {
	b.paths = make(map[*provider.Instance]string)
	b.state = StateSorting

	graph, err := schema.NewReferenceGraph(b.registry, b.registry.Marked())
	if err != nil {
		b.state = StateFailed
		return fmt.Errorf("failed to build reference graph: %w", err)
	}
	if cycles := graph.DetectCycles(); len(cycles) > 0 {
		// A cycle cannot loop the sort, but the resulting order may leave
		// some references unresolved until a later run.
		b.log.Warn("reference cycles between marked classes",
			zap.String("cycles", schema.FormatCycles(cycles)))
	}
	order := graph.SortedClasses()

	selected := make([]*schema.Class, 0, len(order))
	for _, class := range order {
		if class.Abstract {
			continue
		}
		if toggles != nil && !toggles[class.Name] {
			continue
		}
		selected = append(selected, class)
	}

	b.state = StateCreatingPass
	created := b.creatingPass(selected)

	b.state = StateReferencePass
	resolved := b.referencePass(selected)

	b.state = StateCommitted
	b.log.Info("build committed",
		zap.Int("classes", len(selected)),
		zap.Int("created", created),
		zap.Int("referenced", resolved))
	return nil
}

// creatingPass persists one document per live instance, leaving fields
// that reference marked classes unset, and records each instance's output
// path in the session cache.
func (b *Builder) creatingPass(classes []*schema.Class) int {
	created := 0
	for _, class := range classes {
		handle, err := b.resolver.Resolve(class)
		if err != nil {
			b.log.Warn("skipping class without a resolvable collection",
				zap.String("class", class.Name),
				zap.Error(err))
			continue
		}

		for _, inst := range handle.Instances {
			doc, err := b.conv.FromInstance(class, inst)
			if err != nil {
				b.log.Warn("skipping instance that failed conversion",
					zap.String("class", class.Name),
					zap.Error(err))
				continue
			}

			path := b.assetPath(class, inst)
			if b.store.Exists(path) {
				if err := b.store.Delete(path); err != nil {
					b.log.Warn("failed to delete stale document",
						zap.String("path", path),
						zap.Error(err))
					continue
				}
			}
			if err := b.store.Save(path, doc); err != nil {
				b.log.Warn("failed to persist document",
					zap.String("path", path),
					zap.Error(err))
				continue
			}

			b.paths[inst] = path
			created++
		}
	}
	return created
}

// referencePass loads each created document and wires reference fields to
// the persisted counterparts of the live sub-instances. Sub-instances with
// no cached path are left absent: a class excluded by toggles produces
// dangling-but-absent references, not a failure.
func (b *Builder) referencePass(classes []*schema.Class) int {
	resolved := 0
	for _, class := range classes {
		handle, err := b.resolver.Resolve(class)
		if err != nil {
			continue
		}

		props, err := b.registry.EffectiveProperties(class)
		if err != nil {
			b.log.Warn("skipping reference pass for class",
				zap.String("class", class.Name),
				zap.Error(err))
			continue
		}

		for _, inst := range handle.Instances {
			path, ok := b.paths[inst]
			if !ok {
				continue
			}

			doc, err := b.store.Load(path)
			if err != nil {
				b.log.Warn("failed to load document for reference pass",
					zap.String("path", path),
					zap.Error(err))
				continue
			}

			changed := false
			for _, prop := range props {
				if prop.Ignore {
					continue
				}
				target := prop.Type.ReferencedClass()
				if target == "" || !b.registry.IsMarked(target) {
					continue
				}
				if b.wireReference(doc, inst, prop) {
					changed = true
				}
			}

			if changed {
				if err := b.store.Save(path, doc); err != nil {
					b.log.Warn("failed to persist resolved references",
						zap.String("path", path),
						zap.Error(err))
					continue
				}
				resolved++
			}
		}
	}
	return resolved
}

// wireReference assigns the persisted counterpart of each referenced live
// sub-instance into doc. Returns true when the document was mutated.
func (b *Builder) wireReference(doc *store.Document, inst *provider.Instance, prop *schema.Property) bool {
	raw, ok := inst.Field(prop.Name)
	if !ok || raw == nil {
		return false
	}

	switch prop.Type.Kind {
	case schema.KindClass:
		sub, ok := raw.(*provider.Instance)
		if !ok || sub == nil {
			return false
		}
		path, ok := b.paths[sub]
		if !ok {
			return false
		}
		doc.Fields[prop.Name] = store.Ref{Path: path}
		return true

	case schema.KindSequence, schema.KindArray:
		subs := referenceSlice(raw)
		if subs == nil {
			return false
		}
		refs := make([]any, 0, len(subs))
		for _, sub := range subs {
			if sub == nil {
				refs = append(refs, nil)
				continue
			}
			if path, ok := b.paths[sub]; ok {
				refs = append(refs, store.Ref{Path: path})
			} else {
				refs = append(refs, nil)
			}
		}
		doc.Fields[prop.Name] = refs
		return true
	}

	return false
}

// referenceSlice normalizes the live value of a reference collection
func referenceSlice(raw any) []*provider.Instance {
	switch v := raw.(type) {
	case []*provider.Instance:
		return v
	case []any:
		subs := make([]*provider.Instance, 0, len(v))
		for _, item := range v {
			sub, _ := item.(*provider.Instance)
			subs = append(subs, sub)
		}
		return subs
	}
	return nil
}

// assetPath derives the store path for one instance from its wrapper type
// name and sanitized display name.
func (b *Builder) assetPath(class *schema.Class, inst *provider.Instance) string {
	name, ok := inst.DisplayName(class.DisplayProperty())
	if !ok {
		name = placeholderName
	}
	return fmt.Sprintf("%ss/%s.json", class.ResolvedOutputName(), sanitizeName(name))
}

// sanitizeName strips characters that cannot appear in a store path
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return placeholderName
	}
	return out
}
