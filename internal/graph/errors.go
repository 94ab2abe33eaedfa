package graph

import "fmt"

// ParseError reports a connection record that does not follow the table's
// positional layout or carries an unusable cost. Build never returns a
// partial graph alongside it.
type ParseError struct {
	Record  int    // zero-based record index
	Station string // source station, if it was already known
	Reason  string
	Err     error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("record %d", e.Record)
	if e.Station != "" {
		msg += fmt.Sprintf(" (%s)", e.Station)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
