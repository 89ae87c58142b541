package provider

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Tomtomcapo/AssetBuilder/internal/schema"
)

// dataFile is the on-disk YAML representation of one provider
type dataFile struct {
	Provider    string                      `yaml:"provider"`
	Collections map[string][]map[string]any `yaml:"collections"`
}

// LoadFile reads one provider data file
func LoadFile(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var file dataFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", path, err)
	}
	if file.Provider == "" {
		return nil, fmt.Errorf("data file %s declares no provider name", path)
	}

	p := NewProvider(file.Provider)
	for collection, records := range file.Collections {
		for _, record := range records {
			p.Add(collection, NewInstance("", record))
		}
	}
	return p, nil
}

// LoadDir loads every .yml/.yaml provider file in a directory, in file
// name order so provider registration order is deterministic.
func LoadDir(dir string) ([]*Provider, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yml" || ext == ".yaml" {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	providers := make([]*Provider, 0, len(paths))
	for _, path := range paths {
		p, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, nil
}

// Link tags loaded instances with their class and resolves reference
// fields. In data files a reference is written as the display name of the
// target instance; Link replaces it with the live *Instance so identity
// comparison works during materialization. Unresolvable references are
// logged and left unset.
func Link(registry *schema.Registry, providers []*Provider, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	// Map collection names to their owning classes, then index instances
	// by display name per class.
	classByCollection := make(map[string]*schema.Class)
	for _, class := range registry.All() {
		if class.CollectionName != "" {
			classByCollection[class.CollectionName] = class
		}
	}

	index := make(map[string]map[string]*Instance)
	for _, p := range providers {
		for collection, instances := range p.Collections {
			class, ok := classByCollection[collection]
			if !ok {
				log.Warn("data collection matches no registered class",
					zap.String("provider", p.Name),
					zap.String("collection", collection))
				continue
			}
			for _, inst := range instances {
				inst.Class = class.Name
				name, ok := inst.DisplayName(class.DisplayProperty())
				if !ok {
					continue
				}
				if index[class.Name] == nil {
					index[class.Name] = make(map[string]*Instance)
				}
				index[class.Name][name] = inst
			}
		}
	}

	// Resolve reference-typed fields against the index
	for _, p := range providers {
		for _, instances := range p.Collections {
			for _, inst := range instances {
				if inst.Class == "" {
					continue
				}
				class, _ := registry.Get(inst.Class)
				if class == nil {
					continue
				}
				props, err := registry.EffectiveProperties(class)
				if err != nil {
					return err
				}
				for _, prop := range props {
					target := prop.Type.ReferencedClass()
					if target == "" {
						continue
					}
					if err := linkField(inst, prop, target, index, log); err != nil {
						return err
					}
				}
			}
		}
	}

	return nil
}

func linkField(inst *Instance, prop *schema.Property, target string, index map[string]map[string]*Instance, log *zap.Logger) error {
	raw, ok := inst.Fields[prop.Name]
	if !ok || raw == nil {
		return nil
	}

	lookup := func(name string) *Instance {
		ref := index[target][strings.TrimSpace(name)]
		if ref == nil {
			log.Warn("unresolved reference in data file",
				zap.String("class", inst.Class),
				zap.String("property", prop.Name),
				zap.String("target", target),
				zap.String("name", name))
		}
		return ref
	}

	switch prop.Type.Kind {
	case schema.KindClass:
		name, ok := raw.(string)
		if !ok {
			return fmt.Errorf("class %s property %s: reference must be a name string, got %T",
				inst.Class, prop.Name, raw)
		}
		if ref := lookup(name); ref != nil {
			inst.Fields[prop.Name] = ref
		} else {
			inst.Fields[prop.Name] = nil
		}

	case schema.KindSequence, schema.KindArray:
		items, ok := raw.([]any)
		if !ok {
			return fmt.Errorf("class %s property %s: reference list must be a sequence of names, got %T",
				inst.Class, prop.Name, raw)
		}
		refs := make([]*Instance, 0, len(items))
		for _, item := range items {
			name, ok := item.(string)
			if !ok {
				return fmt.Errorf("class %s property %s: reference list element must be a name string, got %T",
					inst.Class, prop.Name, item)
			}
			refs = append(refs, lookup(name))
		}
		inst.Fields[prop.Name] = refs
	}

	return nil
}
