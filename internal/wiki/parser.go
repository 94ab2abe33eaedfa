package wiki

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// ParsePage parses raw page bytes into a queryable document tree.
func ParsePage(data []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return doc, nil
}
