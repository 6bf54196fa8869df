package domain

import (
	"slices"
	"strings"
)

// DependencyGraph is a directed graph of package names to the names they depend on.
// It is used to explain a stalled layering.
type DependencyGraph struct {
	order []string
	edges map[string][]string
	names map[string]string
}

// NewDependencyGraph creates a new empty DependencyGraph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		edges: make(map[string][]string),
		names: make(map[string]string),
	}
}

// Add records that name depends on deps. Calling Add twice for the same name appends.
func (g *DependencyGraph) Add(name string, deps ...string) {
	key := NameKey(name)
	if _, exists := g.names[key]; !exists {
		g.names[key] = name
		g.order = append(g.order, key)
	}
	for _, d := range deps {
		g.edges[key] = append(g.edges[key], NameKey(d))
	}
}

// FindCycle returns one dependency cycle as a path of package names whose first and last
// elements are equal, or nil when the graph is acyclic. Only edges between added nodes count.
func (g *DependencyGraph) FindCycle() []string {
	visited := make(map[string]int) // 0: unvisited, 1: visiting, 2: visited
	var path []string
	var cycle []string

	var visit func(u string) bool
	visit = func(u string) bool {
		visited[u] = 1
		path = append(path, u)

		for _, dep := range g.edges[u] {
			if _, known := g.names[dep]; !known {
				continue
			}
			if visited[dep] == 1 {
				cycle = g.cyclePath(path, dep)
				return true
			}
			if visited[dep] == 0 && visit(dep) {
				return true
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		return false
	}

	// Insertion order keeps the reported cycle deterministic.
	for _, key := range g.order {
		if visited[key] == 0 && visit(key) {
			return cycle
		}
	}
	return nil
}

// cyclePath cuts the DFS path down to the cycle closing at dep.
func (g *DependencyGraph) cyclePath(path []string, dep string) []string {
	start := slices.Index(path, dep)
	if start < 0 {
		return nil
	}
	out := make([]string, 0, len(path)-start+1)
	for _, key := range path[start:] {
		out = append(out, g.names[key])
	}
	return append(out, g.names[dep])
}

// FormatCycle renders a cycle as "A -> B -> A".
func FormatCycle(cycle []string) string {
	return strings.Join(cycle, " -> ")
}
