// Package remote keeps a local copy of an upstream metamodel document in sync.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aretw0/concerto/internal/compiler"
)

// DefaultURL is the published Concerto metamodel.
const DefaultURL = "https://raw.githubusercontent.com/accordproject/concerto-metamodel/main/lib/metamodel.json"

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "concerto-metamodel-fetcher"
	maxBodyBytes   = 16 << 20
)

// Fetcher implements ports.MetamodelSource over HTTP GET.
type Fetcher struct {
	url    string
	client *http.Client
}

type Option func(*Fetcher)

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// New creates a Fetcher for url; an empty url means DefaultURL.
func New(url string, opts ...Option) *Fetcher {
	if url == "" {
		url = DefaultURL
	}
	f := &Fetcher{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// URL returns the upstream location.
func (f *Fetcher) URL() string { return f.url }

// Load downloads the document and checks that it is well-formed JSON.
func (f *Fetcher) Load(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to fetch %s: HTTP %s", f.url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if _, err := compiler.NewParser().Parse(data); err != nil {
		return nil, fmt.Errorf("remote metamodel is not valid JSON: %w", err)
	}
	return data, nil
}
