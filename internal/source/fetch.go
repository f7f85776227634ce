package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	appLog "vacationcal/internal/log"
)

// Fetcher retrieves ICS feed bodies. Local paths are read directly; http(s)
// URLs go through a conditional-GET disk cache (ETag / Last-Modified) so a
// flaky calendar server degrades to the last known good body instead of an
// empty overlay.
type Fetcher struct {
	client   *http.Client
	cacheDir string
}

// feedMeta is the cache metadata stored next to each cached body.
type feedMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewFetcher creates a Fetcher caching under cacheDir.
func NewFetcher(cacheDir string) *Fetcher {
	if cacheDir == "" {
		cacheDir = "./var/feed-cache"
	}
	return &Fetcher{
		client:   &http.Client{Timeout: 15 * time.Second},
		cacheDir: cacheDir,
	}
}

// Fetch returns the body for url, from the network or the cache.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, errors.New("source: feed URL is empty")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return os.ReadFile(url)
	}

	dir := filepath.Join(f.cacheDir, cacheKey(url))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	meta := loadMeta(dir)
	cached, _ := os.ReadFile(filepath.Join(dir, "body.ics"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if len(cached) > 0 {
			appLog.Error("feed fetch failed, using cached body", err, "url", url)
			return cached, nil
		}
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		f.saveCache(dir, feedMeta{
			URL:          url,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			UpdatedAt:    time.Now().UTC(),
		}, body)
		return body, nil

	case resp.StatusCode == http.StatusNotModified && len(cached) > 0:
		appLog.Debug("feed not modified, using cache", "url", url)
		return cached, nil

	case len(cached) > 0:
		appLog.Error("feed returned non-OK, using cached body", errors.New(resp.Status), "url", url)
		return cached, nil

	default:
		return nil, errors.New(resp.Status)
	}
}

func (f *Fetcher) saveCache(dir string, meta feedMeta, body []byte) {
	// Body first so meta never points at a missing body.
	if err := os.WriteFile(filepath.Join(dir, "body.ics"), body, 0o600); err != nil {
		appLog.Error("feed cache write failed", err, "dir", dir)
		return
	}
	data, err := json.Marshal(&meta)
	if err != nil {
		return
	}
	if err := os.WriteFile(filepath.Join(dir, "meta.json"), data, 0o600); err != nil {
		appLog.Error("feed cache meta write failed", err, "dir", dir)
	}
}

func loadMeta(dir string) feedMeta {
	var meta feedMeta
	data, err := os.ReadFile(filepath.Join(dir, "meta.json"))
	if err != nil {
		return feedMeta{}
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return feedMeta{}
	}
	return meta
}

func cacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:8])
}
