// Package schema provides the descriptor model for asset generation.
// It defines the core data structures for representing annotated data
// classes, their properties, and the markers that drive wrapper generation
// and asset materialization.
package schema

import "fmt"

// PrimitiveType represents the built-in primitive property types
type PrimitiveType int

const (
	TypeInvalid PrimitiveType = iota
	TypeString
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeDecimal
	TypeBool
)

// String returns the string representation of the primitive type
func (p PrimitiveType) String() string {
	switch p {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeLong:
		return "long"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeDecimal:
		return "decimal"
	case TypeBool:
		return "bool"
	default:
		return "invalid"
	}
}

// ParsePrimitiveType converts a string to a PrimitiveType
func ParsePrimitiveType(s string) (PrimitiveType, error) {
	switch s {
	case "string":
		return TypeString, nil
	case "int":
		return TypeInt, nil
	case "long":
		return TypeLong, nil
	case "float":
		return TypeFloat, nil
	case "double":
		return TypeDouble, nil
	case "decimal":
		return TypeDecimal, nil
	case "bool":
		return TypeBool, nil
	default:
		return TypeInvalid, fmt.Errorf("unknown primitive type: %s", s)
	}
}

// TypeKind distinguishes the shapes a property type can take
type TypeKind int

const (
	KindPrimitive TypeKind = iota
	KindClass
	KindSequence
	KindArray
)

// TypeSpec represents a complete property type specification
type TypeSpec struct {
	Kind      TypeKind
	Primitive PrimitiveType // KindPrimitive
	ClassName string        // KindClass: reference to another class by name
	Element   *TypeSpec     // KindSequence / KindArray
}

// Primitive builds a primitive TypeSpec
func Primitive(p PrimitiveType) *TypeSpec {
	return &TypeSpec{Kind: KindPrimitive, Primitive: p}
}

// ClassRef builds a TypeSpec referencing another class by name
func ClassRef(name string) *TypeSpec {
	return &TypeSpec{Kind: KindClass, ClassName: name}
}

// SequenceOf builds an ordered-sequence TypeSpec
func SequenceOf(element *TypeSpec) *TypeSpec {
	return &TypeSpec{Kind: KindSequence, Element: element}
}

// ArrayOf builds an array TypeSpec
func ArrayOf(element *TypeSpec) *TypeSpec {
	return &TypeSpec{Kind: KindArray, Element: element}
}

// String returns a string representation of the TypeSpec
func (t *TypeSpec) String() string {
	switch t.Kind {
	case KindPrimitive:
		return t.Primitive.String()
	case KindClass:
		return t.ClassName
	case KindSequence:
		return fmt.Sprintf("sequence<%s>", t.Element.String())
	case KindArray:
		return fmt.Sprintf("array<%s>", t.Element.String())
	default:
		return "unknown"
	}
}

// ReferencedClass returns the class name this type refers to, unwrapping
// sequence and array element types. Returns "" for primitive types.
func (t *TypeSpec) ReferencedClass() string {
	switch t.Kind {
	case KindClass:
		return t.ClassName
	case KindSequence, KindArray:
		if t.Element != nil {
			return t.Element.ReferencedClass()
		}
	}
	return ""
}

// Property describes one public property of a data class
type Property struct {
	Name   string
	Type   *TypeSpec
	Ignore bool // carries the ignore marker: excluded from generated code
}

// Class describes one annotated data class
type Class struct {
	Name      string
	Namespace string
	Abstract  bool
	Parent    string // parent class name, "" for none

	// Generation markers
	Generate   bool
	OutputName string // explicit output class name; "" derives <Name>Asset

	// Materialization markers
	CollectionName      string // backing provider collection, required for builds
	DisplayNameProperty string // property used for asset naming, default "name"

	Properties []*Property
}

// DefaultDisplayNameProperty is used when a class declares no display-name
// property of its own.
const DefaultDisplayNameProperty = "name"

// ResolvedOutputName returns the wrapper type name for this class: the
// explicit output name if one was declared, otherwise <Name>Asset.
func (c *Class) ResolvedOutputName() string {
	if c.OutputName != "" {
		return c.OutputName
	}
	return c.Name + "Asset"
}

// DisplayProperty returns the property used to derive persisted asset names
func (c *Class) DisplayProperty() string {
	if c.DisplayNameProperty != "" {
		return c.DisplayNameProperty
	}
	return DefaultDisplayNameProperty
}

// Property returns the named property declared directly on this class
func (c *Class) Property(name string) (*Property, bool) {
	for _, p := range c.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}
