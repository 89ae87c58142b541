// Package schema provides a code-first builder API for class descriptors
package schema

// ClassBuilder builds Class descriptors programmatically. It is the
// code-first alternative to loading a schema file.
type ClassBuilder struct {
	class *Class
}

// NewClass starts building a class descriptor with the given name
func NewClass(name string) *ClassBuilder {
	return &ClassBuilder{
		class: &Class{
			Name:       name,
			Properties: make([]*Property, 0),
		},
	}
}

// Namespace sets the declaring namespace
func (b *ClassBuilder) Namespace(ns string) *ClassBuilder {
	b.class.Namespace = ns
	return b
}

// Abstract marks the class abstract
func (b *ClassBuilder) Abstract() *ClassBuilder {
	b.class.Abstract = true
	return b
}

// Parent sets the parent class by name
func (b *ClassBuilder) Parent(name string) *ClassBuilder {
	b.class.Parent = name
	return b
}

// Generate attaches the generation marker. outputName may be empty, in
// which case the wrapper name is derived as <Name>Asset.
func (b *ClassBuilder) Generate(outputName string) *ClassBuilder {
	b.class.Generate = true
	b.class.OutputName = outputName
	return b
}

// Collection attaches the collection-name marker
func (b *ClassBuilder) Collection(name string) *ClassBuilder {
	b.class.CollectionName = name
	return b
}

// DisplayName sets the property used to name persisted assets
func (b *ClassBuilder) DisplayName(property string) *ClassBuilder {
	b.class.DisplayNameProperty = property
	return b
}

// Prop adds a property with the given type
func (b *ClassBuilder) Prop(name string, t *TypeSpec) *ClassBuilder {
	b.class.Properties = append(b.class.Properties, &Property{Name: name, Type: t})
	return b
}

// IgnoredProp adds a property carrying the ignore marker
func (b *ClassBuilder) IgnoredProp(name string, t *TypeSpec) *ClassBuilder {
	b.class.Properties = append(b.class.Properties, &Property{Name: name, Type: t, Ignore: true})
	return b
}

// Ref adds a property referencing another class
func (b *ClassBuilder) Ref(name, className string) *ClassBuilder {
	return b.Prop(name, ClassRef(className))
}

// Build returns the finished descriptor
func (b *ClassBuilder) Build() *Class {
	return b.class
}
