// Package schema provides loading of class descriptors from YAML files
package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// schemaFile is the on-disk YAML representation of a set of classes
type schemaFile struct {
	Classes []classDef `yaml:"classes"`
}

type classDef struct {
	Name        string        `yaml:"name"`
	Namespace   string        `yaml:"namespace"`
	Abstract    bool          `yaml:"abstract"`
	Parent      string        `yaml:"parent"`
	Generate    bool          `yaml:"generate"`
	OutputName  string        `yaml:"output_name"`
	Collection  string        `yaml:"collection"`
	DisplayName string        `yaml:"display_name_property"`
	Properties  []propertyDef `yaml:"properties"`
}

type propertyDef struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Ignore bool   `yaml:"ignore"`
}

// Load reads a YAML schema file and registers every class it declares
// into a fresh registry.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from raw YAML schema content
func Parse(data []byte) (*Registry, error) {
	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse schema file: %w", err)
	}

	registry := NewRegistry()
	for _, def := range file.Classes {
		class, err := buildClass(def)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(class); err != nil {
			return nil, err
		}
	}

	// Parent references must resolve within the same file
	for _, class := range registry.All() {
		if class.Parent != "" && !registry.Exists(class.Parent) {
			return nil, fmt.Errorf("class %s: parent %s is not declared", class.Name, class.Parent)
		}
	}

	return registry, nil
}

func buildClass(def classDef) (*Class, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("schema declares a class with no name")
	}

	class := &Class{
		Name:                def.Name,
		Namespace:           def.Namespace,
		Abstract:            def.Abstract,
		Parent:              def.Parent,
		Generate:            def.Generate,
		OutputName:          def.OutputName,
		CollectionName:      def.Collection,
		DisplayNameProperty: def.DisplayName,
		Properties:          make([]*Property, 0, len(def.Properties)),
	}

	for _, propDef := range def.Properties {
		if propDef.Name == "" {
			return nil, fmt.Errorf("class %s declares a property with no name", def.Name)
		}
		spec, err := ParseTypeSpec(propDef.Type)
		if err != nil {
			return nil, fmt.Errorf("class %s property %s: %w", def.Name, propDef.Name, err)
		}
		class.Properties = append(class.Properties, &Property{
			Name:   propDef.Name,
			Type:   spec,
			Ignore: propDef.Ignore,
		})
	}

	return class, nil
}

// ParseTypeSpec parses a type expression: a primitive name, a class name,
// sequence<T>, or array<T>.
func ParseTypeSpec(s string) (*TypeSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty type expression")
	}

	for _, wrapper := range []struct {
		prefix string
		kind   TypeKind
	}{
		{"sequence<", KindSequence},
		{"array<", KindArray},
	} {
		if strings.HasPrefix(s, wrapper.prefix) {
			if !strings.HasSuffix(s, ">") {
				return nil, fmt.Errorf("malformed type expression: %s", s)
			}
			inner := s[len(wrapper.prefix) : len(s)-1]
			element, err := ParseTypeSpec(inner)
			if err != nil {
				return nil, err
			}
			return &TypeSpec{Kind: wrapper.kind, Element: element}, nil
		}
	}

	if primitive, err := ParsePrimitiveType(s); err == nil {
		return Primitive(primitive), nil
	}

	// Anything else is a reference to another class by name
	return ClassRef(s), nil
}
