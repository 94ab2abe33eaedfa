// Package routes enumerates and ranks every loop-free route between two
// stations of a graph.Graph.
package routes

import (
	"fmt"
	"strings"

	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/graph"
)

// VisitMode controls when the depth-first search marks a station visited.
type VisitMode int

const (
	// Strict marks the current station visited before expanding it, so
	// every route is a simple path.
	Strict VisitMode = iota
	// Permissive marks the current station visited one level late, after
	// its own successor check. A self-loop edge can therefore repeat the
	// current station once.
	Permissive
)

func (m VisitMode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Permissive:
		return "permissive"
	default:
		return fmt.Sprintf("VisitMode(%d)", int(m))
	}
}

// ParseVisitMode maps "strict" or "permissive" to a VisitMode.
func ParseVisitMode(s string) (VisitMode, error) {
	switch strings.ToLower(s) {
	case "", "strict":
		return Strict, nil
	case "permissive":
		return Permissive, nil
	}
	return Strict, fmt.Errorf("unknown visit mode %q", s)
}

// Route is one path from source to destination and its total credit cost.
type Route struct {
	Path []string `json:"path"`
	Cost int      `json:"cost"`
}

func (r Route) String() string {
	return strings.Join(r.Path, " -> ")
}

// Hops is the number of edges travelled.
func (r Route) Hops() int {
	if len(r.Path) == 0 {
		return 0
	}
	return len(r.Path) - 1
}

type options struct {
	mode VisitMode
}

type Option func(*options)

// WithVisitMode selects the visited-set semantics. The default is Strict.
func WithVisitMode(m VisitMode) Option {
	return func(o *options) { o.mode = m }
}

// FindAll returns every route from source to destination in depth-first
// discovery order. Successors are explored in name order. If source has no
// outgoing edges the result is empty. When source equals destination the
// only route is the zero-cost path [source].
func FindAll(g graph.Graph, source, destination string, opts ...Option) []Route {
	o := options{mode: Strict}
	for _, opt := range opts {
		opt(&o)
	}

	if _, ok := g[source]; !ok {
		return nil
	}

	s := &search{g: g, destination: destination, mode: o.mode}
	s.visit(source, []string{source}, 0, map[string]bool{})
	return s.found
}

type search struct {
	g           graph.Graph
	destination string
	mode        VisitMode
	found       []Route
}

// visit expands current. path, cost and visited belong to this branch only;
// children receive copies.
func (s *search) visit(current string, path []string, cost int, visited map[string]bool) {
	if current == s.destination {
		s.found = append(s.found, Route{Path: path, Cost: cost})
		return
	}

	childVisited := make(map[string]bool, len(visited)+1)
	for k := range visited {
		childVisited[k] = true
	}
	childVisited[current] = true

	// Permissive checks successors against the ancestors only.
	check := childVisited
	if s.mode == Permissive {
		check = visited
	}

	for _, next := range s.g.Neighbors(current) {
		if check[next] {
			continue
		}
		nextPath := make([]string, len(path), len(path)+1)
		copy(nextPath, path)
		nextPath = append(nextPath, next)

		s.visit(next, nextPath, cost+s.g[current][next], childVisited)
	}
}

// PathCost sums the edge costs along path. It reports false if any hop is
// not an edge of g.
func PathCost(g graph.Graph, path []string) (int, bool) {
	total := 0
	for i := 1; i < len(path); i++ {
		c, ok := g.Cost(path[i-1], path[i])
		if !ok {
			return 0, false
		}
		total += c
	}
	return total, true
}
