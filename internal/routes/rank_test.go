package routes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	t.Parallel()

	input := []Route{
		{Path: []string{"A", "B", "C", "D"}, Cost: 5},
		{Path: []string{"A", "B", "D"}, Cost: 6},
		{Path: []string{"A", "C", "B", "D"}, Cost: 8},
		{Path: []string{"A", "C", "D"}, Cost: 5},
	}
	original := append([]Route(nil), input...)

	ranked := Rank(input, 0)
	require.Equal(t, []int{5, 5, 6, 8}, costs(ranked))
	require.Equal(t, "A -> C -> D", ranked[0].String(), "equal cost prefers fewer hops")
	require.Equal(t, original, input, "Rank must not reorder its input")

	require.Len(t, Rank(input, 2), 2)
	require.Len(t, Rank(input, 10), 4)
	require.Empty(t, Rank(nil, 10))
}

func TestRank_TopTen(t *testing.T) {
	t.Parallel()

	var many []Route
	for i := 20; i > 0; i-- {
		many = append(many, Route{Path: []string{"A", "B"}, Cost: i})
	}

	top := Rank(many, DefaultLimit)

	require.Len(t, top, DefaultLimit)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, costs(top))
}

func costs(routes []Route) []int {
	out := make([]int, 0, len(routes))
	for _, r := range routes {
		out = append(out, r.Cost)
	}
	return out
}
