package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultCellSelector selects every table cell in the document.
const DefaultCellSelector = "td"

// Builder converts a parsed wiki page into a Network.
type Builder struct {
	cellSelector string
}

func NewBuilder(cellSelector string) *Builder {
	if cellSelector == "" {
		cellSelector = DefaultCellSelector
	}
	return &Builder{cellSelector: cellSelector}
}

// Build parses every connection record in doc. It fails on the first
// malformed record.
func (b *Builder) Build(doc *goquery.Document) (*Network, error) {
	records, err := GroupRecords(doc.Find(b.cellSelector))
	if err != nil {
		return nil, err
	}
	return FromRecords(records)
}

// Build parses doc using the default cell selector.
func Build(doc *goquery.Document) (*Network, error) {
	return NewBuilder(DefaultCellSelector).Build(doc)
}

// FromRecords assembles a Network from grouped records. Records without
// destinations add no graph entry; a later record for the same source
// replaces an earlier one.
func FromRecords(records []Record) (*Network, error) {
	net := &Network{Graph: make(Graph), Stops: make(map[string]Destination)}
	seen := make(map[string]bool)

	for _, rec := range records {
		source := rec.Source()
		if !seen[source] {
			seen[source] = true
			net.Stations = append(net.Stations, source)
		}
		net.Stops[source] = Destination{Station: rec.Station, Line: rec.Line}

		if len(rec.Destinations) == 0 {
			continue
		}
		if len(rec.Costs) < len(rec.Destinations) {
			return nil, &ParseError{
				Record:  rec.Index,
				Station: source,
				Reason:  costMismatch(len(rec.Destinations), len(rec.Costs)),
			}
		}

		edges := make(map[string]int, len(rec.Destinations))
		for k, dest := range rec.Destinations {
			cost, err := ParseCost(rec.Costs[k])
			if err != nil {
				return nil, &ParseError{
					Record:  rec.Index,
					Station: source,
					Reason:  fmt.Sprintf("cost for %s", dest.Node()),
					Err:     err,
				}
			}
			edges[dest.Node()] = cost
			net.Stops[dest.Node()] = dest
		}
		net.Graph[source] = edges
	}
	return net, nil
}

// ParseCost strips punctuation and whitespace from a cost token and
// converts it to a non-negative number of credits.
func ParseCost(token string) (int, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', '.', '\'', ' ', '\u00a0', '\t', '\n':
			return -1
		}
		return r
	}, token)

	cost, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid cost %q", token)
	}
	if cost < 0 {
		return 0, fmt.Errorf("negative cost %q", token)
	}
	return cost, nil
}
