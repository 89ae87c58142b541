package codegen

import (
	"fmt"
	"strings"

	"github.com/Tomtomcapo/AssetBuilder/internal/schema"
)

// goPrimitiveType maps a schema primitive to its Go type. Decimal widens
// to float64: the serialized form has no arbitrary-precision decimals.
func goPrimitiveType(p schema.PrimitiveType) (string, error) {
	switch p {
	case schema.TypeString:
		return "string", nil
	case schema.TypeInt:
		return "int", nil
	case schema.TypeLong:
		return "int64", nil
	case schema.TypeFloat:
		return "float32", nil
	case schema.TypeDouble:
		return "float64", nil
	case schema.TypeDecimal:
		return "float64", nil
	case schema.TypeBool:
		return "bool", nil
	default:
		return "", fmt.Errorf("unmappable primitive type: %s", p)
	}
}

// goType computes the wrapper field type for a property type. Class
// references resolve through the output-name table built in pass 1, so
// forward references between marked classes work regardless of
// declaration order.
func (g *Generator) goType(t *schema.TypeSpec) (string, error) {
	switch t.Kind {
	case schema.KindPrimitive:
		return goPrimitiveType(t.Primitive)

	case schema.KindClass:
		output, ok := g.names[t.ClassName]
		if !ok {
			return "", fmt.Errorf("referenced class %s is not marked for generation", t.ClassName)
		}
		return "*" + output, nil

	case schema.KindSequence, schema.KindArray:
		element, err := g.goType(t.Element)
		if err != nil {
			return "", err
		}
		if t.Element.Kind == schema.KindSequence || t.Element.Kind == schema.KindArray {
			return "", fmt.Errorf("nested collection types are not supported: %s", t)
		}
		return "[]" + element, nil

	default:
		return "", fmt.Errorf("unknown type kind: %d", t.Kind)
	}
}

// zeroValue returns the zero-value literal for a generated field type
func zeroValue(goType string) string {
	switch goType {
	case "string":
		return `""`
	case "bool":
		return "false"
	case "int", "int64", "float32", "float64":
		return "0"
	default:
		// Pointers and slices
		return "nil"
	}
}

// toGoFieldName converts a snake_case property name to PascalCase
func toGoFieldName(name string) string {
	initialisms := map[string]string{
		"id":   "ID",
		"url":  "URL",
		"uri":  "URI",
		"uuid": "UUID",
		"api":  "API",
		"json": "JSON",
		"xml":  "XML",
		"html": "HTML",
		"sql":  "SQL",
		"ip":   "IP",
	}

	parts := strings.Split(name, "_")
	for i, part := range parts {
		if len(part) > 0 {
			if upper, ok := initialisms[strings.ToLower(part)]; ok {
				parts[i] = upper
			} else {
				parts[i] = strings.ToUpper(part[0:1]) + part[1:]
			}
		}
	}
	return strings.Join(parts, "")
}
