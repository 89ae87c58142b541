package schema

import (
	"testing"
)

// chainRegistry builds A -> B -> C where "->" is a reference property
func chainRegistry(t *testing.T) *Registry {
	t.Helper()
	registry := NewRegistry()
	registry.Register(NewClass("C").Generate("").Prop("name", Primitive(TypeString)).Build())
	registry.Register(NewClass("B").Generate("").Ref("c", "C").Build())
	registry.Register(NewClass("A").Generate("").Ref("b", "B").Build())
	return registry
}

func indexOf(classes []*Class, name string) int {
	for i, class := range classes {
		if class.Name == name {
			return i
		}
	}
	return -1
}

func TestSortedClasses(t *testing.T) {
	t.Run("dependencies come before dependents", func(t *testing.T) {
		registry := chainRegistry(t)
		graph, err := NewReferenceGraph(registry, registry.Marked())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		order := graph.SortedClasses()
		if len(order) != 3 {
			t.Fatalf("expected 3 classes, got %d", len(order))
		}

		c, b, a := indexOf(order, "C"), indexOf(order, "B"), indexOf(order, "A")
		if !(c < b && b < a) {
			t.Errorf("expected C before B before A, got %v", []int{c, b, a})
		}
	})

	t.Run("sequence and array element references count", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(NewClass("Mod").Generate("").Build())
		registry.Register(NewClass("Weapon").Generate("").
			Prop("mods", SequenceOf(ClassRef("Mod"))).
			Build())

		graph, err := NewReferenceGraph(registry, registry.Marked())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		deps := graph.Dependencies("Weapon")
		if len(deps) != 1 || deps[0] != "Mod" {
			t.Errorf("expected Weapon to depend on Mod, got %v", deps)
		}
	})

	t.Run("ignored properties do not create edges", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(NewClass("B").Generate("").Build())
		registry.Register(NewClass("A").Generate("").
			IgnoredProp("b", ClassRef("B")).
			Build())

		graph, err := NewReferenceGraph(registry, registry.Marked())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if deps := graph.Dependencies("A"); len(deps) != 0 {
			t.Errorf("expected no dependencies, got %v", deps)
		}
	})

	t.Run("references to unmarked classes are not edges", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(NewClass("Helper").Build())
		registry.Register(NewClass("A").Generate("").Ref("h", "Helper").Build())

		graph, err := NewReferenceGraph(registry, registry.Marked())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if deps := graph.Dependencies("A"); len(deps) != 0 {
			t.Errorf("expected no dependencies, got %v", deps)
		}
	})

	t.Run("cycles terminate and are reported", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(NewClass("A").Generate("").Ref("b", "B").Build())
		registry.Register(NewClass("B").Generate("").Ref("a", "A").Build())

		graph, err := NewReferenceGraph(registry, registry.Marked())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// The visited set keeps the sort from looping; every class still
		// appears exactly once.
		order := graph.SortedClasses()
		if len(order) != 2 {
			t.Fatalf("expected both classes in the order, got %d", len(order))
		}

		cycles := graph.DetectCycles()
		if len(cycles) == 0 {
			t.Error("expected a detected cycle")
		}
	})

	t.Run("self references are ignored", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(NewClass("Node").Generate("").Ref("next", "Node").Build())

		graph, err := NewReferenceGraph(registry, registry.Marked())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if deps := graph.Dependencies("Node"); len(deps) != 0 {
			t.Errorf("expected no dependencies, got %v", deps)
		}
		if cycles := graph.DetectCycles(); len(cycles) != 0 {
			t.Errorf("expected no cycles, got %v", cycles)
		}
	})
}
