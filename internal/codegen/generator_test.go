package codegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Tomtomcapo/AssetBuilder/internal/schema"
)

func gameRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	registry := schema.NewRegistry()

	classes := []*schema.Class{
		schema.NewClass("Item").
			Abstract().
			Generate("").
			Prop("name", schema.Primitive(schema.TypeString)).
			Build(),
		schema.NewClass("Weapon").
			Parent("Item").
			Generate("").
			Collection("Weapons").
			Prop("damage", schema.Primitive(schema.TypeDecimal)).
			Ref("ammo", "Ammo").
			Prop("tags", schema.SequenceOf(schema.Primitive(schema.TypeString))).
			IgnoredProp("debug_id", schema.Primitive(schema.TypeString)).
			Build(),
		schema.NewClass("Ammo").
			Generate("AmmoData").
			Collection("Ammos").
			Prop("name", schema.Primitive(schema.TypeString)).
			Prop("count", schema.Primitive(schema.TypeInt)).
			Build(),
	}
	for _, class := range classes {
		if err := registry.Register(class); err != nil {
			t.Fatalf("failed to register %s: %v", class.Name, err)
		}
	}
	return registry
}

func generateAll(t *testing.T, registry *schema.Registry) map[string]string {
	t.Helper()
	g := NewGenerator(registry)
	files := g.Generate(registry.Marked())
	if errs := g.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected generation errors: %v", errs)
	}

	byName := make(map[string]string, len(files))
	for class, source := range files {
		byName[class.Name] = source
	}
	return byName
}

func TestGenerateIdempotent(t *testing.T) {
	registry := gameRegistry(t)

	first := generateAll(t, registry)
	second := generateAll(t, registry)

	for name, source := range first {
		if second[name] != source {
			t.Errorf("generation for %s is not byte-identical across runs", name)
		}
	}
}

func TestGenerateStruct(t *testing.T) {
	files := generateAll(t, gameRegistry(t))
	weapon := files["Weapon"]

	if !strings.Contains(weapon, "package assets") {
		t.Error("missing package declaration")
	}
	if !strings.Contains(weapon, "type WeaponAsset struct {") {
		t.Error("missing wrapper struct")
	}
	// Parent wrapper is embedded
	if !strings.Contains(weapon, "\tItemAsset\n") {
		t.Error("missing embedded parent wrapper")
	}
	// Forward reference resolves to the explicit output name
	if !strings.Contains(weapon, "*AmmoData") {
		t.Error("reference field should use the resolved output type name")
	}
	if !strings.Contains(weapon, "GetDamage() float64") {
		t.Error("missing accessor")
	}
}

func TestDecimalWidening(t *testing.T) {
	files := generateAll(t, gameRegistry(t))
	weapon := files["Weapon"]

	if !strings.Contains(weapon, "Damage float64") {
		t.Error("decimal property should widen to float64")
	}
	if strings.Contains(weapon, "decimal") {
		t.Error("generated output must not mention the decimal representation")
	}
}

func TestIgnoreMarker(t *testing.T) {
	files := generateAll(t, gameRegistry(t))
	weapon := files["Weapon"]

	// Never in fields, accessors, or either conversion
	if strings.Contains(weapon, "DebugID") || strings.Contains(weapon, "debug_id") {
		t.Error("ignored property leaked into generated output")
	}
}

func TestConversions(t *testing.T) {
	files := generateAll(t, gameRegistry(t))
	weapon := files["Weapon"]

	if !strings.Contains(weapon, "func WeaponAssetFromPlain(src map[string]any) *WeaponAsset {") {
		t.Error("missing from-plain conversion")
	}
	if !strings.Contains(weapon, "func (w *WeaponAsset) ToPlain() map[string]any {") {
		t.Error("missing to-plain conversion")
	}
	// Inherited properties are filled by the concrete class's conversion
	if !strings.Contains(weapon, `src["name"]`) {
		t.Error("from-plain should copy inherited properties")
	}
	// Nested marked types recurse through their own conversions
	if !strings.Contains(weapon, "AmmoDataFromPlain(v)") {
		t.Error("from-plain should recurse into the nested wrapper's conversion")
	}
	// Null propagation guards
	if !strings.Contains(weapon, "if src == nil {") {
		t.Error("from-plain should propagate nil records")
	}
	if !strings.Contains(weapon, `if v, ok := src["tags"].([]any); ok && v != nil {`) {
		t.Error("from-plain should leave nil sequences absent")
	}
}

func TestAbstractClassHasNoConversions(t *testing.T) {
	files := generateAll(t, gameRegistry(t))
	item := files["Item"]

	if !strings.Contains(item, "type ItemAsset struct {") {
		t.Error("abstract class should still get a wrapper struct")
	}
	if !strings.Contains(item, "GetName() string") {
		t.Error("abstract class should still get accessors")
	}
	if strings.Contains(item, "FromPlain") || strings.Contains(item, "ToPlain") {
		t.Error("abstract class must not get conversion functions")
	}
}

func TestUnmarkedReferenceIsPerClassError(t *testing.T) {
	registry := schema.NewRegistry()
	registry.Register(schema.NewClass("Helper").Build())
	registry.Register(schema.NewClass("Good").Generate("").
		Prop("name", schema.Primitive(schema.TypeString)).
		Build())
	registry.Register(schema.NewClass("Bad").Generate("").
		Ref("helper", "Helper").
		Build())

	g := NewGenerator(registry)
	files := g.Generate(registry.Marked())

	// The bad class is skipped; the rest still generate
	if len(files) != 1 {
		t.Fatalf("expected 1 generated file, got %d", len(files))
	}
	if len(g.Errors()) != 1 {
		t.Fatalf("expected 1 recorded error, got %d", len(g.Errors()))
	}
}

func TestCustomPackageName(t *testing.T) {
	registry := gameRegistry(t)
	g := NewGenerator(registry, WithPackage("gamedata"))
	files := g.Generate(registry.Marked())

	for _, source := range files {
		if !strings.Contains(source, "package gamedata") {
			t.Error("expected custom package name in generated output")
		}
	}
}

func TestWriteFiles(t *testing.T) {
	registry := gameRegistry(t)
	g := NewGenerator(registry)
	files := g.Generate(registry.Marked())

	dir := filepath.Join(t.TempDir(), "out")
	if err := g.WriteFiles(files, dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"ItemAsset.go", "WeaponAsset.go", "AmmoData.go"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected output file %s: %v", name, err)
		}
	}

	// Regeneration overwrites in place
	if err := g.WriteFiles(files, dir); err != nil {
		t.Fatalf("unexpected error on overwrite: %v", err)
	}
}

func TestToGoFieldName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"name", "Name"},
		{"max_ammo", "MaxAmmo"},
		{"id", "ID"},
		{"texture_url", "TextureURL"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := toGoFieldName(tt.input); got != tt.expected {
				t.Errorf("toGoFieldName(%s) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}
