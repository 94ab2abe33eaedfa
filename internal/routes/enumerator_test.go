package routes

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/graph"
)

func sampleGraph() graph.Graph {
	return graph.Graph{
		"A": {"B": 2, "C": 3},
		"B": {"A": 2, "C": 1, "D": 4},
		"C": {"A": 3, "B": 1, "D": 2},
		"D": {"B": 4, "C": 2},
	}
}

func TestFindAll_SampleGraph(t *testing.T) {
	t.Parallel()

	got := FindAll(sampleGraph(), "A", "D")

	want := []Route{
		{Path: []string{"A", "B", "C", "D"}, Cost: 5},
		{Path: []string{"A", "B", "D"}, Cost: 6},
		{Path: []string{"A", "C", "B", "D"}, Cost: 8},
		{Path: []string{"A", "C", "D"}, Cost: 5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_RanksCheapestFirst(t *testing.T) {
	t.Parallel()

	ranked := Query(sampleGraph(), "A", "D", DefaultLimit)

	require.Len(t, ranked, 4)
	assert.Equal(t, "A -> C -> D", ranked[0].String())
	assert.Equal(t, 5, ranked[0].Cost)
	assert.Equal(t, "A -> B -> C -> D", ranked[1].String())

	var abd *Route
	for i := range ranked {
		if ranked[i].String() == "A -> B -> D" {
			abd = &ranked[i]
		}
	}
	require.NotNil(t, abd, "A -> B -> D must be enumerated")
	assert.Equal(t, 6, abd.Cost)
}

func TestFindAll_EdgeCases(t *testing.T) {
	t.Parallel()

	g := graph.Graph{
		"A": {"B": 1},
		"C": {"D": 1},
	}

	testCases := []struct {
		name        string
		source      string
		destination string
		want        []Route
	}{
		{name: "source absent", source: "Z", destination: "A", want: nil},
		{name: "source without outgoing edges", source: "B", destination: "A", want: nil},
		{name: "unreachable destination", source: "A", destination: "D", want: nil},
		{name: "destination absent", source: "A", destination: "Q", want: nil},
		{name: "source equals destination", source: "A", destination: "A", want: []Route{{Path: []string{"A"}, Cost: 0}}},
		{name: "source equals destination without edges", source: "B", destination: "B", want: nil},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			for _, mode := range []VisitMode{Strict, Permissive} {
				got := FindAll(g, tc.source, tc.destination, WithVisitMode(mode))
				require.Equal(t, tc.want, got, "mode %s", mode)
			}
		})
	}
}

func TestFindAll_VisitModes(t *testing.T) {
	t.Parallel()

	// A has a self-loop, the only way a station can repeat.
	g := graph.Graph{
		"A": {"A": 1, "B": 2},
		"B": {"C": 1},
	}

	strict := FindAll(g, "A", "C")
	require.Equal(t, []Route{{Path: []string{"A", "B", "C"}, Cost: 3}}, strict)
	require.Equal(t, strict, FindAll(g, "A", "C", WithVisitMode(Strict)))

	permissive := FindAll(g, "A", "C", WithVisitMode(Permissive))
	require.Equal(t, []Route{
		{Path: []string{"A", "A", "B", "C"}, Cost: 4},
		{Path: []string{"A", "B", "C"}, Cost: 3},
	}, permissive)

	for _, r := range permissive {
		assert.LessOrEqual(t, maxRepeats(r.Path), 2, "permissive mode repeats a station at most once: %v", r.Path)
	}
}

func TestFindAll_Properties(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	graphs := []graph.Graph{sampleGraph()}
	for i := 0; i < 20; i++ {
		graphs = append(graphs, randomGraph(rng, 6, 0.45))
	}

	for gi, g := range graphs {
		nodes := g.Nodes()
		for _, src := range nodes {
			for _, dst := range nodes {
				name := fmt.Sprintf("graph%d/%s->%s", gi, src, dst)
				routes := FindAll(g, src, dst)
				if _, ok := g[src]; !ok {
					require.Empty(t, routes, name)
					continue
				}

				seen := make(map[string]bool)
				for _, r := range routes {
					require.NotEmpty(t, r.Path, name)
					require.Equal(t, src, r.Path[0], name)
					require.Equal(t, dst, r.Path[len(r.Path)-1], name)
					require.Equal(t, 1, maxRepeats(r.Path), "%s: strict route repeats a station: %v", name, r.Path)

					cost, ok := PathCost(g, r.Path)
					require.True(t, ok, name)
					require.Equal(t, cost, r.Cost, name)

					key := r.String()
					require.False(t, seen[key], "%s: duplicate route %s", name, key)
					seen[key] = true
				}
				require.Equal(t, countSimplePaths(g, src, dst), len(routes), name)
			}
		}
	}
}

func TestPathCost(t *testing.T) {
	t.Parallel()

	g := sampleGraph()

	cost, ok := PathCost(g, []string{"A", "C", "D"})
	require.True(t, ok)
	require.Equal(t, 5, cost)

	cost, ok = PathCost(g, []string{"A"})
	require.True(t, ok)
	require.Zero(t, cost)

	_, ok = PathCost(g, []string{"A", "D"})
	require.False(t, ok)
}

func TestParseVisitMode(t *testing.T) {
	t.Parallel()

	m, err := ParseVisitMode("Permissive")
	require.NoError(t, err)
	require.Equal(t, Permissive, m)

	m, err = ParseVisitMode("")
	require.NoError(t, err)
	require.Equal(t, Strict, m)

	_, err = ParseVisitMode("loose")
	require.Error(t, err)
	require.Equal(t, "VisitMode(7)", VisitMode(7).String())
}

func maxRepeats(path []string) int {
	counts := make(map[string]int)
	most := 0
	for _, s := range path {
		counts[s]++
		if counts[s] > most {
			most = counts[s]
		}
	}
	return most
}

func randomGraph(rng *rand.Rand, n int, density float64) graph.Graph {
	g := make(graph.Graph)
	for i := 0; i < n; i++ {
		from := string(rune('A' + i))
		for j := 0; j < n; j++ {
			if i == j || rng.Float64() > density {
				continue
			}
			if g[from] == nil {
				g[from] = make(map[string]int)
			}
			g[from][string(rune('A'+j))] = 1 + rng.Intn(9)
		}
	}
	return g
}

// countSimplePaths counts simple paths by brute force, using an explicit
// stack instead of recursion.
func countSimplePaths(g graph.Graph, src, dst string) int {
	if _, ok := g[src]; !ok {
		return 0
	}
	type frame struct {
		path []string
	}
	count := 0
	stack := []frame{{path: []string{src}}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		last := f.path[len(f.path)-1]
		if last == dst {
			count++
			continue
		}
		for next := range g[last] {
			if contains(f.path, next) {
				continue
			}
			p := append(append([]string{}, f.path...), next)
			stack = append(stack, frame{path: p})
		}
	}
	return count
}

func contains(path []string, s string) bool {
	for _, p := range path {
		if p == s {
			return true
		}
	}
	return false
}
