// Package schema provides reference graph analysis over marked classes
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// ReferenceGraph captures the "references" relation between marked classes:
// class A references class B when any of A's effective properties has B as
// its declared type, directly or as a sequence/array element type.
type ReferenceGraph struct {
	classes map[string]*Class
	order   []string            // class names in deterministic visit order
	edges   map[string][]string // class -> referenced marked classes
}

// NewReferenceGraph builds the reference graph for the given marked classes
func NewReferenceGraph(registry *Registry, classes []*Class) (*ReferenceGraph, error) {
	graph := &ReferenceGraph{
		classes: make(map[string]*Class, len(classes)),
		order:   make([]string, 0, len(classes)),
		edges:   make(map[string][]string),
	}
	for _, class := range classes {
		graph.classes[class.Name] = class
		graph.order = append(graph.order, class.Name)
	}

	for _, class := range classes {
		props, err := registry.EffectiveProperties(class)
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", class.Name, err)
		}
		seen := make(map[string]bool)
		for _, prop := range props {
			if prop.Ignore {
				continue
			}
			target := prop.Type.ReferencedClass()
			if target == "" || target == class.Name || seen[target] {
				continue
			}
			// Only references between marked classes order the build
			if _, marked := graph.classes[target]; !marked {
				continue
			}
			seen[target] = true
			graph.edges[class.Name] = append(graph.edges[class.Name], target)
		}
		sort.Strings(graph.edges[class.Name])
	}

	return graph, nil
}

// Dependencies returns the marked classes the given class references
func (g *ReferenceGraph) Dependencies(name string) []string {
	return g.edges[name]
}

// SortedClasses returns the classes in dependency order: every class
// appears after all marked classes it references. The sort is a post-order
// depth-first walk with a visited set, so a reference cycle cannot loop
// forever but may yield an order that does not satisfy every dependent
// inside the cycle; DetectCycles surfaces that case to callers.
func (g *ReferenceGraph) SortedClasses() []*Class {
	visited := make(map[string]bool)
	result := make([]*Class, 0, len(g.classes))

	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true

		for _, dep := range g.edges[name] {
			visit(dep)
		}
		result = append(result, g.classes[name])
	}

	for _, name := range g.order {
		visit(name)
	}

	return result
}

// DetectCycles detects reference cycles between marked classes
func (g *ReferenceGraph) DetectCycles() [][]string {
	var cycles [][]string
	visited := make(map[string]bool)
	recursionStack := make(map[string]bool)

	var dfs func(node string, path []string) bool
	dfs = func(node string, path []string) bool {
		visited[node] = true
		recursionStack[node] = true
		path = append(path, node)

		for _, neighbor := range g.edges[node] {
			if !visited[neighbor] {
				if dfs(neighbor, path) {
					return true
				}
			} else if recursionStack[neighbor] {
				cycleStart := -1
				for i, n := range path {
					if n == neighbor {
						cycleStart = i
						break
					}
				}
				if cycleStart >= 0 {
					cycle := make([]string, len(path)-cycleStart)
					copy(cycle, path[cycleStart:])
					cycles = append(cycles, cycle)
				}
				return true
			}
		}

		recursionStack[node] = false
		return false
	}

	for _, node := range g.order {
		if !visited[node] {
			dfs(node, []string{})
		}
	}

	return cycles
}

// FormatCycles formats cycle information for warnings and error messages
func FormatCycles(cycles [][]string) string {
	var b strings.Builder
	for i, cycle := range cycles {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("  cycle %d: %s -> %s",
			i+1,
			strings.Join(cycle, " -> "),
			cycle[0]))
	}
	return b.String()
}
