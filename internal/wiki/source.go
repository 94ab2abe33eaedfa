// Package wiki obtains the train travel page, either from the on-disk cache
// or by downloading it, and parses it into a document tree.
package wiki

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/ctxlog"
)

// Fetcher downloads the raw page.
type Fetcher interface {
	URL() string
	Fetch(ctx context.Context) ([]byte, error)
}

type Source struct {
	fetcher     Fetcher
	cache       *PageCache
	forceUpdate bool
	now         func() time.Time
}

// NewSource serves the page from cache when possible. With forceUpdate set
// it always downloads first.
func NewSource(fetcher Fetcher, cache *PageCache, forceUpdate bool) *Source {
	return &Source{
		fetcher:     fetcher,
		cache:       cache,
		forceUpdate: forceUpdate,
		now:         time.Now,
	}
}

// Page returns the raw page bytes.
func (s *Source) Page(ctx context.Context) ([]byte, error) {
	log := ctxlog.FromContext(ctx)

	if !s.forceUpdate {
		data, err := s.cache.Load()
		if err == nil {
			log.Debug("Using cached wiki page.", "path", s.cache.Path(), "bytes", len(data))
			return data, nil
		}
		if !errors.Is(err, ErrNotCached) {
			log.Warn("Ignoring unusable page cache.", "path", s.cache.Path(), "error", err)
		}
	}

	data, err := s.fetcher.Fetch(ctx)
	if err != nil {
		if s.forceUpdate && s.cache.Exists() {
			log.Warn("Update failed, falling back to cached page.", "error", err)
			return s.cache.Load()
		}
		return nil, err
	}

	if err := s.cache.Store(data, s.fetcher.URL(), s.now()); err != nil {
		return nil, fmt.Errorf("store page cache: %w", err)
	}
	log.Debug("Stored wiki page in cache.", "path", s.cache.Path())
	return data, nil
}

// Document returns the parsed page.
func (s *Source) Document(ctx context.Context) (*goquery.Document, error) {
	data, err := s.Page(ctx)
	if err != nil {
		return nil, err
	}
	return ParsePage(data)
}
