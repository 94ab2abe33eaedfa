package stations

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/graph"
)

func testNetwork() *graph.Network {
	return &graph.Network{
		Graph: graph.Graph{
			"Red Line - Alpha": {"Blue Line - Beta": 1500, "Red Line - Gamma": 2250},
			"Blue Line - Beta": {"Red Line - Alpha": 1500},
		},
		Stations: []string{"Red Line - Alpha", "Blue Line - Beta", "Green Line - Delta"},
		Stops: map[string]graph.Destination{
			"Red Line - Alpha":   {Station: "Alpha", Line: "Red Line"},
			"Blue Line - Beta":   {Station: "Beta", Line: "Blue Line"},
			"Red Line - Gamma":   {Station: "Gamma", Line: "Red Line"},
			"Green Line - Delta": {Station: "Delta", Line: "Green Line"},
		},
	}
}

func TestNewStationDB(t *testing.T) {
	t.Parallel()

	db := NewStationDB(testNetwork())

	require.Equal(t, []string{
		"Blue Line - Beta",
		"Green Line - Delta",
		"Red Line - Alpha",
		"Red Line - Gamma",
	}, db.Names())

	alpha, ok := db.GetStation("Red Line - Alpha")
	require.True(t, ok)
	require.Equal(t, StationInfo{Name: "Red Line - Alpha", Station: "Alpha", Line: "Red Line", Departures: 2}, alpha)

	gamma, ok := db.GetStation("Red Line - Gamma")
	require.True(t, ok)
	require.Zero(t, gamma.Departures)

	_, ok = db.GetStation("Nowhere")
	require.False(t, ok)
}

func TestStationDB_HandAssembledNetwork(t *testing.T) {
	t.Parallel()

	db := NewStationDB(&graph.Network{Graph: graph.Graph{"A": {"B": 1}}})

	require.Equal(t, []string{"A", "B"}, db.Names())
	a, _ := db.GetStation("A")
	require.Equal(t, 1, a.Departures)
}

func TestStationDB_Search(t *testing.T) {
	t.Parallel()

	db := NewStationDB(testNetwork())

	testCases := []struct {
		query string
		want  []string
	}{
		{query: "alpha", want: []string{"Red Line - Alpha"}},
		{query: "red line", want: []string{"Red Line - Alpha", "Red Line - Gamma"}},
		{query: "  BETA ", want: []string{"Blue Line - Beta"}},
		{query: "zeta", want: nil},
		{query: "", want: nil},
	}
	for _, tc := range testCases {
		var got []string
		for _, s := range db.Search(tc.query) {
			got = append(got, s.Name)
		}
		require.Equal(t, tc.want, got, "query %q", tc.query)
	}
}

func TestStationDB_Resolve(t *testing.T) {
	t.Parallel()

	db := NewStationDB(testNetwork())

	name, ok := db.Resolve("Red Line - Alpha")
	require.True(t, ok)
	require.Equal(t, "Red Line - Alpha", name)

	name, ok = db.Resolve("red line - gamma")
	require.True(t, ok)
	require.Equal(t, "Red Line - Gamma", name)

	name, ok = db.Resolve("delta")
	require.True(t, ok)
	require.Equal(t, "Green Line - Delta", name)

	_, ok = db.Resolve("red")
	require.False(t, ok, "ambiguous input must not resolve")
}
