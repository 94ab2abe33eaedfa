// Package graph turns the wiki's train travel table into a directed,
// credit-weighted station graph.
package graph

import (
	"fmt"
	"sort"
)

// Graph maps a station to the stations reachable from it and the credit
// cost of each hop. A station with no outgoing edges is not a key.
type Graph map[string]map[string]int

// Network is the result of one Build call.
type Network struct {
	Graph Graph
	// Stations lists every source station in document order, including
	// stations whose record had no destinations.
	Stations []string
	// Stops maps every node, source or destination, to its line and
	// station titles.
	Stops map[string]Destination
}

// Cost returns the credit cost of the edge from -> to.
func (g Graph) Cost(from, to string) (int, bool) {
	c, ok := g[from][to]
	return c, ok
}

// Neighbors returns the destinations of from, sorted by name.
func (g Graph) Neighbors(from string) []string {
	next := make([]string, 0, len(g[from]))
	for to := range g[from] {
		next = append(next, to)
	}
	sort.Strings(next)
	return next
}

// Nodes returns every station that appears as a source or destination.
func (g Graph) Nodes() []string {
	seen := make(map[string]bool)
	var nodes []string
	for from, edges := range g {
		if !seen[from] {
			seen[from] = true
			nodes = append(nodes, from)
		}
		for to := range edges {
			if !seen[to] {
				seen[to] = true
				nodes = append(nodes, to)
			}
		}
	}
	sort.Strings(nodes)
	return nodes
}

// EdgeCount returns the number of directed edges.
func (g Graph) EdgeCount() int {
	n := 0
	for _, edges := range g {
		n += len(edges)
	}
	return n
}

// NodeName is the graph key for a station served by a line.
func NodeName(line, station string) string {
	return fmt.Sprintf("%s - %s", line, station)
}
