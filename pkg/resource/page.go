package resource

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"cramp/pkg/html"
	"cramp/pkg/images"
	"cramp/pkg/layout"
	"cramp/pkg/text"
)

// Page is a loaded and parsed HTML document with what is needed to lay it
// out: linked stylesheets are already inlined and images resolve against the
// page's directory.
type Page struct {
	Source string
	Doc    *html.Document
	Images *images.Loader
}

// Load reads src, a file path, an http(s) URL or "-" for stdin, and parses
// it. Linked stylesheets are fetched relative to src; failures to fetch them
// are logged and skipped.
func Load(ctx context.Context, src string, logger *slog.Logger) (*Page, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var (
		body    []byte
		base    string
		imgBase string
		err     error
	)
	switch {
	case src == "-":
		body, err = io.ReadAll(os.Stdin)
		imgBase, _ = os.Getwd()
		base = imgBase
	case IsNetworkURL(src):
		body, _, err = fetchURL(ctx, httpClient, src)
		base = src
	default:
		body, err = os.ReadFile(src)
		imgBase = filepath.Dir(src)
		base = imgBase
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src, err)
	}

	fetcher := NewFetcher(base)
	doc, err := html.ParseWithFetcher(string(body), func(uri string) (string, error) {
		css, err := fetcher.FetchCSS(ctx, uri)
		if err != nil {
			logger.Warn("stylesheet skipped", "href", uri, "error", err)
		}
		return css, err
	})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src, err)
	}
	logger.Debug("page loaded", "source", src, "bytes", len(body), "stylesheets", len(doc.Stylesheets))
	return &Page{Source: src, Doc: doc, Images: images.NewLoader(imgBase)}, nil
}

// FromString wraps already available markup. Images resolve against dir.
func FromString(markup, dir string) (*Page, error) {
	doc, err := html.Parse(markup)
	if err != nil {
		return nil, err
	}
	return &Page{Source: "<string>", Doc: doc, Images: images.NewLoader(dir)}, nil
}

// Engine builds a layout engine for the page.
func (p *Page) Engine(viewportWidth float64, measurer text.Measurer, logger *slog.Logger) *layout.Engine {
	opts := []layout.Option{layout.WithImages(p.Images)}
	if logger != nil {
		opts = append(opts, layout.WithLogger(logger))
	}
	return layout.NewEngine(p.Doc, viewportWidth, measurer, opts...)
}
