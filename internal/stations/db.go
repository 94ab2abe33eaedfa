package stations

import (
	"sort"
	"strings"

	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/graph"
)

// StationDB indexes every station of a network for selection and search.
type StationDB struct {
	stations    map[string]StationInfo
	allStations []StationInfo
}

// NewStationDB indexes the sources and destinations of net, sorted by name.
func NewStationDB(net *graph.Network) *StationDB {
	db := &StationDB{stations: make(map[string]StationInfo)}

	for name, stop := range net.Stops {
		db.stations[name] = StationInfo{
			Name:       name,
			Station:    stop.Station,
			Line:       stop.Line,
			Departures: len(net.Graph[name]),
		}
	}
	// Graph keys are always in Stops when built by graph.Build; this covers
	// hand-assembled networks.
	for _, name := range net.Graph.Nodes() {
		if _, ok := db.stations[name]; !ok {
			db.stations[name] = StationInfo{Name: name, Station: name, Departures: len(net.Graph[name])}
		}
	}

	for _, info := range db.stations {
		db.allStations = append(db.allStations, info)
	}
	sort.Slice(db.allStations, func(i, j int) bool {
		return db.allStations[i].Name < db.allStations[j].Name
	})
	return db
}

func (db *StationDB) GetAllStations() []StationInfo {
	return db.allStations
}

// Names returns all station names in sorted order.
func (db *StationDB) Names() []string {
	names := make([]string, 0, len(db.allStations))
	for _, s := range db.allStations {
		names = append(names, s.Name)
	}
	return names
}

func (db *StationDB) GetStation(name string) (StationInfo, bool) {
	s, ok := db.stations[name]
	return s, ok
}

// Search matches query case-insensitively against station names, or exactly
// against line titles.
func (db *StationDB) Search(query string) []StationInfo {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var results []StationInfo
	for _, s := range db.allStations {
		nameMatch := strings.Contains(strings.ToLower(s.Name), query)
		lineMatch := strings.ToLower(s.Line) == query
		if nameMatch || lineMatch {
			results = append(results, s)
		}
	}
	return results
}

// Resolve maps user input to a station name: an exact name, a
// case-insensitive name, or a unique search match.
func (db *StationDB) Resolve(input string) (string, bool) {
	if _, ok := db.stations[input]; ok {
		return input, true
	}
	for _, s := range db.allStations {
		if strings.EqualFold(s.Name, input) {
			return s.Name, true
		}
	}
	if matches := db.Search(input); len(matches) == 1 {
		return matches[0].Name, true
	}
	return "", false
}
