// Package materialize turns live data instances into persisted asset
// documents in two dependency-ordered passes: instance creation, then
// cross-reference resolution.
package materialize

import (
	"fmt"

	"github.com/Tomtomcapo/AssetBuilder/internal/provider"
	"github.com/Tomtomcapo/AssetBuilder/internal/schema"
	"github.com/Tomtomcapo/AssetBuilder/internal/store"
)

// Converter performs the schema-driven conversion between live instances
// and asset documents. Its semantics mirror the generated wrapper
// conversions: ignored properties are omitted, decimals widen to float64,
// and nil collections or references stay absent rather than becoming
// empty values.
type Converter struct {
	registry *schema.Registry
}

// NewConverter creates a converter over the given registry
func NewConverter(registry *schema.Registry) *Converter {
	return &Converter{registry: registry}
}

// FromInstance converts a live instance into a fresh document. Properties
// whose (element) type is a marked class are left unset: the reference
// pass fills them in once every referenced document exists.
func (c *Converter) FromInstance(class *schema.Class, inst *provider.Instance) (*store.Document, error) {
	props, err := c.registry.EffectiveProperties(class)
	if err != nil {
		return nil, err
	}

	doc := store.NewDocument(class.ResolvedOutputName())
	for _, prop := range props {
		if prop.Ignore {
			continue
		}
		if target := prop.Type.ReferencedClass(); target != "" {
			if c.registry.IsMarked(target) {
				continue // reference pass
			}
			return nil, fmt.Errorf("property %s references class %s which is not marked for generation",
				prop.Name, target)
		}

		raw, ok := inst.Field(prop.Name)
		if !ok || raw == nil {
			continue
		}
		value, err := convertValue(prop.Type, raw)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", prop.Name, err)
		}
		doc.Fields[prop.Name] = value
	}

	return doc, nil
}

// ToInstance converts a document back into a plain live instance. Fields
// holding references stay as store.Ref values; resolving them back to live
// instances is not the converter's concern.
func (c *Converter) ToInstance(class *schema.Class, doc *store.Document) (*provider.Instance, error) {
	props, err := c.registry.EffectiveProperties(class)
	if err != nil {
		return nil, err
	}

	inst := provider.NewInstance(class.Name, nil)
	for _, prop := range props {
		if prop.Ignore {
			continue
		}
		value, ok := doc.Fields[prop.Name]
		if !ok {
			continue
		}
		inst.Fields[prop.Name] = value
	}
	return inst, nil
}

// convertValue maps a live value onto its serialized form for the given
// type, recursing into sequence and array element types.
func convertValue(t *schema.TypeSpec, raw any) (any, error) {
	switch t.Kind {
	case schema.KindPrimitive:
		return convertPrimitive(t.Primitive, raw)

	case schema.KindSequence, schema.KindArray:
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("expected a sequence, got %T", raw)
		}
		out := make([]any, 0, len(items))
		for i, item := range items {
			value, err := convertValue(t.Element, item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, value)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("cannot convert type %s", t)
	}
}

// convertPrimitive normalizes a primitive value. The decimal widening rule
// lives here: high-precision decimals become float64 because the
// serialized format has no arbitrary-precision representation.
func convertPrimitive(p schema.PrimitiveType, raw any) (any, error) {
	switch p {
	case schema.TypeString:
		v, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", raw)
		}
		return v, nil

	case schema.TypeBool:
		v, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", raw)
		}
		return v, nil

	case schema.TypeInt, schema.TypeLong:
		switch v := raw.(type) {
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			return int64(v), nil
		}
		return nil, fmt.Errorf("expected integer, got %T", raw)

	case schema.TypeFloat, schema.TypeDouble, schema.TypeDecimal:
		switch v := raw.(type) {
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case float64:
			return v, nil
		case string:
			// Decimal values may arrive as strings to preserve precision
			// upstream; they widen to float64 here.
			if p == schema.TypeDecimal {
				var f float64
				if _, err := fmt.Sscanf(v, "%g", &f); err != nil {
					return nil, fmt.Errorf("invalid decimal literal %q", v)
				}
				return f, nil
			}
		}
		return nil, fmt.Errorf("expected number, got %T", raw)

	default:
		return nil, fmt.Errorf("cannot convert primitive %s", p)
	}
}
