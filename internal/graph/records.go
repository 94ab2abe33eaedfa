package graph

import (
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

// cellsPerRecord is the number of table cells that make up one record:
// station, line, destinations.
const cellsPerRecord = 3

// costPattern matches a currency amount such as "$1,500": the text between
// the dollar sign and the first comma, plus the three characters after it.
var costPattern = regexp.MustCompile(`\$(.*?),(.{3})`)

// Destination is one station reachable from a record's source.
type Destination struct {
	Station string
	Line    string
}

// Node is the destination's graph key.
func (d Destination) Node() string {
	return NodeName(d.Line, d.Station)
}

// Record is one station's row in the connection table.
type Record struct {
	Index        int
	Station      string
	Line         string
	Destinations []Destination
	// Costs holds the raw cost tokens in cell order; Costs[k] belongs to
	// Destinations[k].
	Costs []string
}

// Source is the record's graph key.
func (r Record) Source() string {
	return NodeName(r.Line, r.Station)
}

// GroupRecords splits cells, in document order, into connection records.
// The layout is strictly positional: every third cell starts a new record,
// and inside the destination cell the links alternate station, line.
func GroupRecords(cells *goquery.Selection) ([]Record, error) {
	n := cells.Length()
	if n%cellsPerRecord != 0 {
		return nil, &ParseError{
			Record: n / cellsPerRecord,
			Reason: "incomplete record: table cell count is not a multiple of three",
		}
	}

	records := make([]Record, 0, n/cellsPerRecord)
	for i := 0; i < n; i += cellsPerRecord {
		rec, err := groupRecord(i/cellsPerRecord, cells.Eq(i), cells.Eq(i+1), cells.Eq(i+2))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func groupRecord(index int, stationCell, lineCell, destCell *goquery.Selection) (Record, error) {
	rec := Record{Index: index}

	station, ok := lastTitle(stationCell)
	if !ok {
		return rec, &ParseError{Record: index, Reason: "station cell has no titled link"}
	}
	rec.Station = station

	line, ok := lastTitle(lineCell)
	if !ok {
		return rec, &ParseError{Record: index, Station: station, Reason: "line cell has no titled link"}
	}
	rec.Line = line

	titles, err := linkTitles(destCell)
	if err != nil {
		return rec, &ParseError{Record: index, Station: rec.Source(), Reason: "destination cell", Err: err}
	}
	if len(titles)%2 != 0 {
		return rec, &ParseError{
			Record:  index,
			Station: rec.Source(),
			Reason:  "destination cell links do not pair up as station and line",
		}
	}
	for j := 0; j < len(titles); j += 2 {
		rec.Destinations = append(rec.Destinations, Destination{Station: titles[j], Line: titles[j+1]})
	}

	rec.Costs = ExtractCosts(destCell.Text())
	if len(rec.Costs) != len(rec.Destinations) {
		return rec, &ParseError{
			Record:  index,
			Station: rec.Source(),
			Reason:  costMismatch(len(rec.Destinations), len(rec.Costs)),
		}
	}
	return rec, nil
}

// ExtractCosts returns every cost token in text, in order. A token is the
// amount before the comma joined with the three characters after it, so
// "$1,500" yields "1500".
func ExtractCosts(text string) []string {
	var tokens []string
	for _, m := range costPattern.FindAllStringSubmatch(text, -1) {
		tokens = append(tokens, m[1]+m[2])
	}
	return tokens
}

func lastTitle(cell *goquery.Selection) (string, bool) {
	title := ""
	cell.Find("a").Each(func(_ int, a *goquery.Selection) {
		if t, ok := a.Attr("title"); ok && t != "" {
			title = t
		}
	})
	return title, title != ""
}

func linkTitles(cell *goquery.Selection) ([]string, error) {
	var titles []string
	var err error
	cell.Find("a").EachWithBreak(func(j int, a *goquery.Selection) bool {
		t, ok := a.Attr("title")
		if !ok || t == "" {
			err = fmt.Errorf("link %d has no title", j)
			return false
		}
		titles = append(titles, t)
		return true
	})
	return titles, err
}

func costMismatch(destinations, costs int) string {
	return fmt.Sprintf("%d destinations but %d cost tokens", destinations, costs)
}
