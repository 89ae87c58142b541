package schema

import (
	"testing"
)

func TestParseTypeSpec(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"string", "string"},
		{"decimal", "decimal"},
		{"bool", "bool"},
		{"Weapon", "Weapon"},
		{"sequence<string>", "sequence<string>"},
		{"array<Weapon>", "array<Weapon>"},
		{"sequence<decimal>", "sequence<decimal>"},
		{" int ", "int"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			spec, err := ParseTypeSpec(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if spec.String() != tt.expected {
				t.Errorf("ParseTypeSpec(%q) = %s, want %s", tt.input, spec, tt.expected)
			}
		})
	}

	t.Run("malformed expressions", func(t *testing.T) {
		for _, input := range []string{"", "sequence<string", "array<>", "sequence<>"} {
			if _, err := ParseTypeSpec(input); err == nil {
				t.Errorf("expected error for %q", input)
			}
		}
	})
}

func TestReferencedClass(t *testing.T) {
	tests := []struct {
		name     string
		spec     *TypeSpec
		expected string
	}{
		{"primitive", Primitive(TypeString), ""},
		{"class", ClassRef("Weapon"), "Weapon"},
		{"sequence of class", SequenceOf(ClassRef("Ammo")), "Ammo"},
		{"array of class", ArrayOf(ClassRef("Ammo")), "Ammo"},
		{"sequence of primitive", SequenceOf(Primitive(TypeInt)), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.ReferencedClass(); got != tt.expected {
				t.Errorf("ReferencedClass() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestResolvedOutputName(t *testing.T) {
	t.Run("derived name", func(t *testing.T) {
		class := NewClass("Weapon").Generate("").Build()
		if got := class.ResolvedOutputName(); got != "WeaponAsset" {
			t.Errorf("expected WeaponAsset, got %s", got)
		}
	})

	t.Run("explicit name", func(t *testing.T) {
		class := NewClass("Weapon").Generate("WeaponData").Build()
		if got := class.ResolvedOutputName(); got != "WeaponData" {
			t.Errorf("expected WeaponData, got %s", got)
		}
	})
}

func TestDisplayProperty(t *testing.T) {
	class := NewClass("Weapon").Build()
	if got := class.DisplayProperty(); got != "name" {
		t.Errorf("expected default display property name, got %s", got)
	}

	class = NewClass("Weapon").DisplayName("title").Build()
	if got := class.DisplayProperty(); got != "title" {
		t.Errorf("expected title, got %s", got)
	}
}
