package schema

import (
	"testing"
)

func TestRegistry(t *testing.T) {
	t.Run("register and get class", func(t *testing.T) {
		registry := NewRegistry()

		class := NewClass("Weapon").
			Generate("").
			Collection("Weapons").
			Prop("name", Primitive(TypeString)).
			Build()

		if err := registry.Register(class); err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		retrieved, exists := registry.Get("Weapon")
		if !exists {
			t.Fatal("class should exist")
		}
		if retrieved.Name != "Weapon" {
			t.Errorf("expected Weapon, got %s", retrieved.Name)
		}
	})

	t.Run("duplicate registration", func(t *testing.T) {
		registry := NewRegistry()
		class := NewClass("Weapon").Build()

		registry.Register(class)
		if err := registry.Register(class); err == nil {
			t.Error("expected error for duplicate registration")
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		registry := NewRegistry()
		if err := registry.Register(&Class{}); err == nil {
			t.Error("expected error for unnamed class")
		}
	})

	t.Run("marked returns generation-marked classes in name order", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(NewClass("Zone").Generate("").Build())
		registry.Register(NewClass("Ammo").Generate("").Build())
		registry.Register(NewClass("Helper").Build())

		marked := registry.Marked()
		if len(marked) != 2 {
			t.Fatalf("expected 2 marked classes, got %d", len(marked))
		}
		if marked[0].Name != "Ammo" || marked[1].Name != "Zone" {
			t.Errorf("expected [Ammo Zone], got [%s %s]", marked[0].Name, marked[1].Name)
		}

		if registry.IsMarked("Helper") {
			t.Error("Helper should not be marked")
		}
		if !registry.IsMarked("Ammo") {
			t.Error("Ammo should be marked")
		}
	})
}

func TestEffectiveProperties(t *testing.T) {
	t.Run("inherited properties come first", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(NewClass("Item").
			Abstract().
			Generate("").
			Prop("name", Primitive(TypeString)).
			Build())
		registry.Register(NewClass("Weapon").
			Parent("Item").
			Generate("").
			Prop("damage", Primitive(TypeDecimal)).
			Build())

		weapon, _ := registry.Get("Weapon")
		props, err := registry.EffectiveProperties(weapon)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(props) != 2 {
			t.Fatalf("expected 2 properties, got %d", len(props))
		}
		if props[0].Name != "name" || props[1].Name != "damage" {
			t.Errorf("expected [name damage], got [%s %s]", props[0].Name, props[1].Name)
		}
	})

	t.Run("missing parent is an error", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(NewClass("Weapon").Parent("Item").Build())

		weapon, _ := registry.Get("Weapon")
		if _, err := registry.EffectiveProperties(weapon); err == nil {
			t.Error("expected error for unregistered parent")
		}
	})

	t.Run("inheritance cycle is an error", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(NewClass("A").Parent("B").Build())
		registry.Register(NewClass("B").Parent("A").Build())

		a, _ := registry.Get("A")
		if _, err := registry.EffectiveProperties(a); err == nil {
			t.Error("expected error for inheritance cycle")
		}
	})
}
