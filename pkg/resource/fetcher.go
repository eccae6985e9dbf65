package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var ErrFetch = errors.New("fetch failed")

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher reads http(s) URLs over the network and everything else
// from disk. Relative URIs resolve against base, which is a URL or a
// directory.
type DefaultFetcher struct {
	base   string
	client *http.Client
}

// NewFetcher creates a DefaultFetcher with the given base.
func NewFetcher(base string) *DefaultFetcher {
	return &DefaultFetcher{base: base, client: httpClient}
}

// WithClient returns a copy of f that uses client for network requests.
func (f *DefaultFetcher) WithClient(client *http.Client) *DefaultFetcher {
	return &DefaultFetcher{base: f.base, client: client}
}

func (f *DefaultFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	resolved := f.resolve(uri)
	if IsNetworkURL(resolved) {
		return fetchURL(ctx, f.client, resolved)
	}
	path := strings.TrimPrefix(resolved, "file://")
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return body, contentTypeByExt(path), nil
}

func (f *DefaultFetcher) resolve(uri string) string {
	switch {
	case IsNetworkURL(uri), filepath.IsAbs(uri), strings.HasPrefix(uri, "file://"):
		return uri
	case IsNetworkURL(f.base):
		return ResolveURL(f.base, uri)
	case f.base != "":
		return filepath.Join(f.base, filepath.FromSlash(uri))
	}
	return uri
}

// FetchCSS fetches a stylesheet URI and returns its text content.
// Returns an error if the content type does not look like CSS or text.
func (f *DefaultFetcher) FetchCSS(ctx context.Context, uri string) (string, error) {
	body, contentType, err := f.Fetch(ctx, uri)
	if err != nil {
		return "", err
	}
	ct := strings.ToLower(contentType)
	if ct != "" && !strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "css") {
		return "", fmt.Errorf("unexpected content type for CSS: %s", contentType)
	}
	return string(body), nil
}

func contentTypeByExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".css":
		return "text/css"
	case ".html", ".htm":
		return "text/html"
	}
	return ""
}
