package wiki

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/config"
	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/ctxlog"
)

// maxPageSize is the largest page Fetch accepts.
const maxPageSize = 16 << 20

type PageFetcher struct {
	url        string
	userAgent  string
	httpClient *http.Client
	maxSize    int64
}

func NewPageFetcher(cfg config.SourceConfig) *PageFetcher {
	return &PageFetcher{
		url:        cfg.URL,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxSize:    maxPageSize,
	}
}

// URL is the page this fetcher downloads.
func (f *PageFetcher) URL() string {
	return f.url
}

// Fetch downloads the raw page.
func (f *PageFetcher) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html")

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status code %d", f.url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.url, err)
	}
	if int64(len(data)) > f.maxSize {
		return nil, fmt.Errorf("fetch %s: page exceeds %d bytes", f.url, f.maxSize)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("fetch %s: empty response body", f.url)
	}

	ctxlog.FromContext(ctx).Info("Fetched wiki page.", "url", f.url, "bytes", len(data), "elapsed", time.Since(start))
	return data, nil
}
