// Package codegen generates Go source for asset wrapper types from class
// descriptors. Each marked class yields one wrapper struct mirroring its
// non-ignored properties, plus conversion functions to and from the plain
// record form.
package codegen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Tomtomcapo/AssetBuilder/internal/schema"
)

// DefaultPackage is the package name emitted into generated files
const DefaultPackage = "assets"

// Generator transforms class descriptors into wrapper source text
type Generator struct {
	registry *schema.Registry
	pkg      string
	buf      *bytes.Buffer
	indent   int
	names    map[string]string // class name -> resolved output type name
	errs     []error
	log      *zap.Logger
}

// Option configures a Generator
type Option func(*Generator)

// WithPackage overrides the package name of generated files
func WithPackage(pkg string) Option {
	return func(g *Generator) { g.pkg = pkg }
}

// WithLogger sets the generator's logger
func WithLogger(log *zap.Logger) Option {
	return func(g *Generator) { g.log = log }
}

// NewGenerator creates a new wrapper source generator
func NewGenerator(registry *schema.Registry, opts ...Option) *Generator {
	g := &Generator{
		registry: registry,
		pkg:      DefaultPackage,
		buf:      &bytes.Buffer{},
		names:    make(map[string]string),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces wrapper source text for every marked class. The first
// pass resolves every class's output type name so forward references
// between marked classes resolve regardless of declaration order; the
// second pass emits each wrapper. Per-class failures are recorded and
// skipped so one bad class does not abort the rest.
func (g *Generator) Generate(classes []*schema.Class) map[*schema.Class]string {
	g.errs = nil
	g.names = make(map[string]string, len(classes))
	for _, class := range classes {
		g.names[class.Name] = class.ResolvedOutputName()
	}

	files := make(map[*schema.Class]string, len(classes))
	for _, class := range classes {
		source, err := g.generateClass(class)
		if err != nil {
			g.errs = append(g.errs, fmt.Errorf("class %s: %w", class.Name, err))
			g.log.Warn("skipping wrapper generation for class",
				zap.String("class", class.Name),
				zap.Error(err))
			continue
		}
		files[class] = source
	}
	return files
}

// Errors returns the per-class failures of the last Generate call
func (g *Generator) Errors() []error {
	return g.errs
}

// WriteFiles persists generated sources as <OutputTypeName>.go under dir,
// overwriting prior files. Failure to create the directory aborts before
// any file is written.
func (g *Generator) WriteFiles(files map[*schema.Class]string, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	classes := make([]*schema.Class, 0, len(files))
	for class := range files {
		classes = append(classes, class)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })

	for _, class := range classes {
		path := filepath.Join(dir, class.ResolvedOutputName()+".go")
		if err := os.WriteFile(path, []byte(files[class]), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

// generateClass emits the complete wrapper source for one class
func (g *Generator) generateClass(class *schema.Class) (string, error) {
	g.reset()

	output := class.ResolvedOutputName()

	g.writeLine("// Code generated by assetbuilder; DO NOT EDIT.")
	g.writeLine("")
	g.writeLine("package %s", g.pkg)
	g.writeLine("")

	if err := g.generateStruct(class, output); err != nil {
		return "", err
	}

	if err := g.generateAccessors(class, output); err != nil {
		return "", err
	}

	// Abstract classes have nothing concrete to construct, so they carry
	// fields and accessors only.
	if !class.Abstract {
		if err := g.generateFromPlain(class, output); err != nil {
			return "", err
		}
		if err := g.generateToPlain(class, output); err != nil {
			return "", err
		}
	}

	return g.buf.String(), nil
}

// generateStruct emits the wrapper struct with one serializable field per
// non-ignored property declared directly on the class. Inherited
// properties arrive through the embedded parent wrapper.
func (g *Generator) generateStruct(class *schema.Class, output string) error {
	if class.Abstract {
		g.writeLine("// %s is the generated asset form of the abstract class %s.", output, class.Name)
	} else {
		g.writeLine("// %s is the generated asset form of %s.", output, class.Name)
	}
	g.writeLine("type %s struct {", output)
	g.indent++

	if class.Parent != "" {
		parent, ok := g.names[class.Parent]
		if !ok {
			return fmt.Errorf("parent class %s is not marked for generation", class.Parent)
		}
		g.writeLine("%s", parent)
		g.writeLine("")
	}

	type fieldInfo struct {
		name string
		typ  string
		tag  string
	}
	var fields []fieldInfo

	for _, prop := range class.Properties {
		if prop.Ignore {
			continue
		}
		typ, err := g.goType(prop.Type)
		if err != nil {
			return fmt.Errorf("property %s: %w", prop.Name, err)
		}
		tag := fmt.Sprintf("`json:%q`", prop.Name)
		if strings.HasPrefix(typ, "*") || strings.HasPrefix(typ, "[]") {
			tag = fmt.Sprintf("`json:%q`", prop.Name+",omitempty")
		}
		fields = append(fields, fieldInfo{
			name: toGoFieldName(prop.Name),
			typ:  typ,
			tag:  tag,
		})
	}

	maxNameLen := 0
	maxTypeLen := 0
	for _, f := range fields {
		if len(f.name) > maxNameLen {
			maxNameLen = len(f.name)
		}
		if len(f.typ) > maxTypeLen {
			maxTypeLen = len(f.typ)
		}
	}

	for _, f := range fields {
		g.writeLine("%s%s %s%s %s",
			f.name,
			strings.Repeat(" ", maxNameLen-len(f.name)),
			f.typ,
			strings.Repeat(" ", maxTypeLen-len(f.typ)),
			f.tag)
	}

	g.indent--
	g.writeLine("}")
	return nil
}

// generateAccessors emits a nil-safe getter per non-ignored property
func (g *Generator) generateAccessors(class *schema.Class, output string) error {
	receiver := strings.ToLower(output[0:1])

	for _, prop := range class.Properties {
		if prop.Ignore {
			continue
		}
		typ, err := g.goType(prop.Type)
		if err != nil {
			return fmt.Errorf("property %s: %w", prop.Name, err)
		}
		field := toGoFieldName(prop.Name)

		g.writeLine("")
		g.writeLine("func (%s *%s) Get%s() %s {", receiver, output, field, typ)
		g.indent++
		g.writeLine("if %s == nil {", receiver)
		g.indent++
		g.writeLine("return %s", zeroValue(typ))
		g.indent--
		g.writeLine("}")
		g.writeLine("return %s.%s", receiver, field)
		g.indent--
		g.writeLine("}")
	}
	return nil
}

// generateFromPlain emits the plain-record-to-wrapper conversion. It fills
// inherited fields too, since abstract parents carry no conversion of
// their own. Nil records and nil collections convert to nil.
func (g *Generator) generateFromPlain(class *schema.Class, output string) error {
	props, err := g.registry.EffectiveProperties(class)
	if err != nil {
		return err
	}

	g.writeLine("")
	g.writeLine("// %sFromPlain converts a plain %s record into a %s.", output, class.Name, output)
	g.writeLine("func %sFromPlain(src map[string]any) *%s {", output, output)
	g.indent++
	g.writeLine("if src == nil {")
	g.indent++
	g.writeLine("return nil")
	g.indent--
	g.writeLine("}")
	g.writeLine("out := &%s{}", output)

	for _, prop := range props {
		if prop.Ignore {
			continue
		}
		if err := g.emitFromPlainField(prop); err != nil {
			return fmt.Errorf("property %s: %w", prop.Name, err)
		}
	}

	g.writeLine("return out")
	g.indent--
	g.writeLine("}")
	return nil
}

func (g *Generator) emitFromPlainField(prop *schema.Property) error {
	field := toGoFieldName(prop.Name)

	switch prop.Type.Kind {
	case schema.KindPrimitive:
		g.emitFromPlainPrimitive(prop.Name, "out."+field, prop.Type.Primitive)

	case schema.KindClass:
		wrapper, ok := g.names[prop.Type.ClassName]
		if !ok {
			return fmt.Errorf("referenced class %s is not marked for generation", prop.Type.ClassName)
		}
		g.writeLine("if v, ok := src[%q].(map[string]any); ok {", prop.Name)
		g.indent++
		g.writeLine("out.%s = %sFromPlain(v)", field, wrapper)
		g.indent--
		g.writeLine("}")

	case schema.KindSequence, schema.KindArray:
		elemType, err := g.goType(prop.Type.Element)
		if err != nil {
			return err
		}
		g.writeLine("if v, ok := src[%q].([]any); ok && v != nil {", prop.Name)
		g.indent++
		g.writeLine("out.%s = make([]%s, 0, len(v))", field, elemType)
		g.writeLine("for _, item := range v {")
		g.indent++

		switch prop.Type.Element.Kind {
		case schema.KindPrimitive:
			g.emitFromPlainElement("out."+field, prop.Type.Element.Primitive, elemType)
		case schema.KindClass:
			wrapper := g.names[prop.Type.Element.ClassName]
			g.writeLine("if e, ok := item.(map[string]any); ok {")
			g.indent++
			g.writeLine("out.%s = append(out.%s, %sFromPlain(e))", field, field, wrapper)
			g.indent--
			g.writeLine("}")
		}

		g.indent--
		g.writeLine("}")
		g.indent--
		g.writeLine("}")
	}
	return nil
}

// emitFromPlainPrimitive emits the assignment for one primitive field.
// Numeric values arrive as int, int64, or float64 depending on the record
// source, so numeric targets convert from all three.
func (g *Generator) emitFromPlainPrimitive(key, target string, p schema.PrimitiveType) {
	goType, _ := goPrimitiveType(p)

	switch p {
	case schema.TypeString, schema.TypeBool:
		g.writeLine("if v, ok := src[%q].(%s); ok {", key, goType)
		g.indent++
		g.writeLine("%s = v", target)
		g.indent--
		g.writeLine("}")
	default:
		g.writeLine("switch v := src[%q].(type) {", key)
		for _, from := range []string{"int", "int64", "float64"} {
			g.writeLine("case %s:", from)
			g.indent++
			g.writeLine("%s = %s(v)", target, goType)
			g.indent--
		}
		g.writeLine("}")
	}
}

// emitFromPlainElement emits the append for one primitive sequence element
func (g *Generator) emitFromPlainElement(target string, p schema.PrimitiveType, goType string) {
	switch p {
	case schema.TypeString, schema.TypeBool:
		g.writeLine("if e, ok := item.(%s); ok {", goType)
		g.indent++
		g.writeLine("%s = append(%s, e)", target, target)
		g.indent--
		g.writeLine("}")
	default:
		g.writeLine("switch e := item.(type) {")
		for _, from := range []string{"int", "int64", "float64"} {
			g.writeLine("case %s:", from)
			g.indent++
			g.writeLine("%s = append(%s, %s(e))", target, target, goType)
			g.indent--
		}
		g.writeLine("}")
	}
}

// generateToPlain emits the structural inverse of FromPlain
func (g *Generator) generateToPlain(class *schema.Class, output string) error {
	props, err := g.registry.EffectiveProperties(class)
	if err != nil {
		return err
	}
	receiver := strings.ToLower(output[0:1])

	g.writeLine("")
	g.writeLine("// ToPlain converts the wrapper back into a plain %s record.", class.Name)
	g.writeLine("func (%s *%s) ToPlain() map[string]any {", receiver, output)
	g.indent++
	g.writeLine("if %s == nil {", receiver)
	g.indent++
	g.writeLine("return nil")
	g.indent--
	g.writeLine("}")
	g.writeLine("out := map[string]any{}")

	for _, prop := range props {
		if prop.Ignore {
			continue
		}
		g.emitToPlainField(receiver, prop)
	}

	g.writeLine("return out")
	g.indent--
	g.writeLine("}")
	return nil
}

func (g *Generator) emitToPlainField(receiver string, prop *schema.Property) {
	field := toGoFieldName(prop.Name)
	access := receiver + "." + field

	switch prop.Type.Kind {
	case schema.KindPrimitive:
		g.writeLine("out[%q] = %s", prop.Name, access)

	case schema.KindClass:
		g.writeLine("if %s != nil {", access)
		g.indent++
		g.writeLine("out[%q] = %s.ToPlain()", prop.Name, access)
		g.indent--
		g.writeLine("}")

	case schema.KindSequence, schema.KindArray:
		g.writeLine("if %s != nil {", access)
		g.indent++
		g.writeLine("items := make([]any, 0, len(%s))", access)
		g.writeLine("for _, e := range %s {", access)
		g.indent++
		if prop.Type.Element.Kind == schema.KindClass {
			g.writeLine("items = append(items, e.ToPlain())")
		} else {
			g.writeLine("items = append(items, e)")
		}
		g.indent--
		g.writeLine("}")
		g.writeLine("out[%q] = items", prop.Name)
		g.indent--
		g.writeLine("}")
	}
}

// reset clears the generator's emit state
func (g *Generator) reset() {
	g.buf.Reset()
	g.indent = 0
}

// writeLine writes a formatted line with proper indentation
func (g *Generator) writeLine(format string, args ...interface{}) {
	if format == "" {
		g.buf.WriteString("\n")
		return
	}

	for i := 0; i < g.indent; i++ {
		g.buf.WriteString("\t")
	}

	if len(args) > 0 {
		g.buf.WriteString(fmt.Sprintf(format, args...))
	} else {
		g.buf.WriteString(format)
	}
	g.buf.WriteString("\n")
}
