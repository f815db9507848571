package locate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// Fetcher retrieves the full text behind a URL
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, rawURL string) (string, error)

// Fetch calls f
func (f FetcherFunc) Fetch(ctx context.Context, rawURL string) (string, error) {
	return f(ctx, rawURL)
}

// HTTPFetcher fetches text with a GET request
type HTTPFetcher struct {
	Client *http.Client
}

// Fetch issues a GET and returns the body. Non-2xx responses are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("failed to fetch %s: %s", rawURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", rawURL, err)
	}
	return string(body), nil
}

// FileFetcher reads file:// URLs and plain paths from disk
type FileFetcher struct{}

// Fetch reads the file
func (FileFetcher) Fetch(_ context.Context, rawURL string) (string, error) {
	path := rawURL
	if strings.HasPrefix(rawURL, "file://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", fmt.Errorf("invalid file URL %s: %w", rawURL, err)
		}
		path = u.Path
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}

// SchemeFetcher routes http and https URLs to HTTP and everything else to File
type SchemeFetcher struct {
	HTTP Fetcher
	File Fetcher
}

// NewDefaultFetcher returns a fetcher for http(s), file:// and local paths
func NewDefaultFetcher() *SchemeFetcher {
	return &SchemeFetcher{
		HTTP: &HTTPFetcher{},
		File: FileFetcher{},
	}
}

// Fetch dispatches on the URL scheme
func (f *SchemeFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return f.HTTP.Fetch(ctx, rawURL)
	}
	return f.File.Fetch(ctx, rawURL)
}
