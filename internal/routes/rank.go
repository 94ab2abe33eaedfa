package routes

import (
	"sort"

	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/graph"
)

// DefaultLimit is how many routes a query shows.
const DefaultLimit = 10

// Rank orders routes by ascending cost, then by fewer hops, and keeps at
// most limit of them. A limit of zero or less keeps all. The input slice is
// not modified.
func Rank(routes []Route, limit int) []Route {
	ranked := make([]Route, len(routes))
	copy(ranked, routes)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Cost != ranked[j].Cost {
			return ranked[i].Cost < ranked[j].Cost
		}
		return ranked[i].Hops() < ranked[j].Hops()
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Query enumerates and ranks routes in one step.
func Query(g graph.Graph, source, destination string, limit int, opts ...Option) []Route {
	return Rank(FindAll(g, source, destination, opts...), limit)
}
