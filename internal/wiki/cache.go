package wiki

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// metaSuffix names the sidecar file that describes a cached page.
const metaSuffix = ".meta"

// ErrNotCached is returned by Load when no page has been stored yet.
var ErrNotCached = errors.New("wiki: page not cached")

// Meta describes a cached page.
type Meta struct {
	URL       string
	FetchedAt time.Time
	SHA256    string
	Size      int
}

// PageCache keeps the raw wiki page on disk so later runs can skip the
// download. The page and its Meta sidecar are replaced together.
type PageCache struct {
	path string
}

func NewPageCache(path string) *PageCache {
	return &PageCache{path: path}
}

func (c *PageCache) Path() string {
	return c.path
}

func (c *PageCache) Exists() bool {
	info, err := os.Stat(c.path)
	return err == nil && !info.IsDir()
}

// Load returns the cached page. If a sidecar is present the page must match
// its checksum.
func (c *PageCache) Load() ([]byte, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotCached
	}
	if err != nil {
		return nil, fmt.Errorf("read cache %s: %w", c.path, err)
	}

	meta, err := c.Meta()
	switch {
	case errors.Is(err, os.ErrNotExist):
		return data, nil
	case err != nil:
		return nil, err
	}
	if sum := checksum(data); sum != meta.SHA256 {
		return nil, fmt.Errorf("cache %s is corrupt: checksum %s, expected %s", c.path, sum, meta.SHA256)
	}
	return data, nil
}

// Store writes data and its sidecar, each through a temporary file.
func (c *PageCache) Store(data []byte, url string, fetchedAt time.Time) error {
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}

	meta := Meta{
		URL:       url,
		FetchedAt: fetchedAt.UTC(),
		SHA256:    checksum(data),
		Size:      len(data),
	}
	encoded, err := encodeMeta(meta)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(c.path, data); err != nil {
		return err
	}
	return writeFileAtomic(c.path+metaSuffix, encoded)
}

// Meta reads the sidecar. It returns an error wrapping os.ErrNotExist if
// there is none.
func (c *PageCache) Meta() (Meta, error) {
	raw, err := os.ReadFile(c.path + metaSuffix)
	if err != nil {
		return Meta{}, fmt.Errorf("read cache metadata: %w", err)
	}
	return decodeMeta(raw)
}

func encodeMeta(m Meta) ([]byte, error) {
	s, err := structpb.NewStruct(map[string]any{
		"url":        m.URL,
		"fetched_at": m.FetchedAt.Format(time.RFC3339Nano),
		"sha256":     m.SHA256,
		"size":       m.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("encode cache metadata: %w", err)
	}
	return proto.Marshal(s)
}

func decodeMeta(raw []byte) (Meta, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(raw, &s); err != nil {
		return Meta{}, fmt.Errorf("decode cache metadata: %w", err)
	}
	fields := s.GetFields()

	fetchedAt, err := time.Parse(time.RFC3339Nano, fields["fetched_at"].GetStringValue())
	if err != nil {
		return Meta{}, fmt.Errorf("decode cache metadata: fetched_at: %w", err)
	}
	return Meta{
		URL:       fields["url"].GetStringValue(),
		FetchedAt: fetchedAt,
		SHA256:    fields["sha256"].GetStringValue(),
		Size:      int(fields["size"].GetNumberValue()),
	}, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
