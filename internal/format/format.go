// Package format renders ranked routes for people: credit amounts are
// grouped according to the reader's language.
package format

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/routes"
)

const (
	NoRoutesMessage        = "No routes found"
	MissingStationsMessage = "Please select both source and destination"
)

type Printer struct {
	p *message.Printer
}

// NewPrinter formats numbers for the BCP 47 tag lang. An empty or
// unparsable tag falls back to English.
func NewPrinter(lang string) *Printer {
	tag, err := language.Parse(lang)
	if err != nil || lang == "" {
		tag = language.English
	}
	return &Printer{p: message.NewPrinter(tag)}
}

// LanguageFromEnv derives a tag from LC_ALL, LC_NUMERIC or LANG, e.g.
// "de_DE.UTF-8" becomes "de-DE".
func LanguageFromEnv() string {
	for _, key := range []string{"LC_ALL", "LC_NUMERIC", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return ""
}

// Credits formats an amount with locale digit grouping, e.g. 12,500.
func (p *Printer) Credits(amount int) string {
	return p.p.Sprintf("%d", amount)
}

// Route renders one route block.
func (p *Printer) Route(r routes.Route) string {
	return fmt.Sprintf("Path: %s\nCost: %s Credits\n", r.String(), p.Credits(r.Cost))
}

// Routes writes every route separated by blank lines, or the no-routes
// message.
func (p *Printer) Routes(w io.Writer, rs []routes.Route) error {
	if len(rs) == 0 {
		_, err := fmt.Fprintln(w, NoRoutesMessage)
		return err
	}
	for _, r := range rs {
		if _, err := fmt.Fprintf(w, "%s\n", p.Route(r)); err != nil {
			return err
		}
	}
	return nil
}
