// Package session ties a loaded page to the configured measurer, layout
// engine and renderer. The cramp CLI and the crampview preview both work
// through it.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"strings"

	"cramp/pkg/clamp"
	"cramp/pkg/config"
	"cramp/pkg/css"
	"cramp/pkg/html"
	"cramp/pkg/js"
	"cramp/pkg/layout"
	"cramp/pkg/render"
	"cramp/pkg/resource"
	"cramp/pkg/text"
)

var (
	ErrNotFound = errors.New("no element matches")
	ErrNotBlock = errors.New("element has no block box")
)

type Session struct {
	Config *config.Config
	Logger *slog.Logger
	Page   *resource.Page
	Engine *layout.Engine

	measurer text.Measurer
	fonts    render.FaceSource
}

// NewMeasurer returns the measurer named by cfg.Layout.Measurer and, for
// real fonts, the face source the renderer draws with.
func NewMeasurer(cfg *config.Config, logger *slog.Logger) (text.Measurer, render.FaceSource) {
	if cfg.Layout.Measurer == config.MeasurerFixed {
		return text.FixedMeasurer{}, nil
	}
	var fonts text.FontConfig
	if cfg.Layout.FontDir != "" {
		fonts = text.FontConfigFromDir(cfg.Layout.FontDir)
	}
	m := text.NewFontMeasurer(fonts, logger)
	return m, m
}

// Open loads src (path, URL or "-") within the configured fetch timeout.
func Open(ctx context.Context, cfg *config.Config, src string, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if d := cfg.FetchTimeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	page, err := resource.Load(ctx, src, logger)
	if err != nil {
		return nil, err
	}
	return New(cfg, page, logger), nil
}

// New wraps an already loaded page.
func New(cfg *config.Config, page *resource.Page, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	measurer, fonts := NewMeasurer(cfg, logger)
	return &Session{
		Config:   cfg,
		Logger:   logger,
		Page:     page,
		Engine:   page.Engine(float64(cfg.Layout.ViewportWidth), measurer, logger),
		measurer: measurer,
		fonts:    fonts,
	}
}

// Select returns the elements matching selector in document order.
func (s *Session) Select(selector string) ([]*html.Node, error) {
	nodes, err := css.QuerySelectorAll(s.Page.Doc.Root, selector)
	if err != nil {
		return nil, fmt.Errorf("selector %q: %w", selector, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w %q", ErrNotFound, selector)
	}
	return nodes, nil
}

// Measurement is what the clamp sees of an element.
type Measurement struct {
	Element      string  `json:"element" yaml:"element"`
	LineHeight   float64 `json:"line_height" yaml:"line_height"`
	ClientHeight float64 `json:"client_height" yaml:"client_height"`
	FontSize     float64 `json:"font_size" yaml:"font_size"`
	MaxLines     int     `json:"max_lines" yaml:"max_lines"`
	LineBoxes    int     `json:"line_boxes" yaml:"line_boxes"`
}

// Measure reports el's geometry. Inline and hidden elements have no box
// and give ErrNotBlock.
func (s *Session) Measure(el *html.Node) (Measurement, error) {
	box, err := s.block(el)
	if err != nil {
		return Measurement{}, err
	}
	return Measurement{
		Element:      Describe(el),
		LineHeight:   s.Engine.LineHeight(el),
		ClientHeight: s.Engine.ClientHeight(el),
		FontSize:     s.Engine.FontSize(el),
		MaxLines:     clamp.MaxLines(el, s.Engine, 0),
		LineBoxes:    box.LineCount(),
	}, nil
}

// Clamp runs the clamp on el with the layout engine as geometry.
func (s *Session) Clamp(el *html.Node, opts clamp.Options) (clamp.Result, error) {
	if _, err := s.block(el); err != nil {
		return clamp.Result{}, err
	}
	if opts.Logger == nil {
		opts.Logger = s.Logger
	}
	return clamp.Clamp(el, s.Engine, opts)
}

func (s *Session) block(el *html.Node) (*layout.Box, error) {
	box := s.Engine.Layout(el)
	if box == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotBlock, Describe(el))
	}
	return box, nil
}

// RunScripts executes the page's scripts with $cramp bound to the engine.
func (s *Session) RunScripts(ctx context.Context) error {
	return s.Script().Execute(ctx, s.Page.Doc)
}

// Script returns a JS engine measuring through this session.
func (s *Session) Script() *js.Engine {
	return js.New(
		js.WithGeometry(s.Engine),
		js.WithLogger(s.Logger),
		js.WithTimeout(s.Config.ScriptTimeout()),
	)
}

// Snapshot renders el's border box as it currently is.
func (s *Session) Snapshot(el *html.Node) (image.Image, error) {
	r, err := s.paint(el)
	if err != nil {
		return nil, err
	}
	return r.Image(), nil
}

// SaveSnapshot renders el like Snapshot and writes the result to path as PNG.
func (s *Session) SaveSnapshot(el *html.Node, path string) (image.Image, error) {
	r, err := s.paint(el)
	if err != nil {
		return nil, err
	}
	if err := r.SavePNG(path); err != nil {
		return nil, err
	}
	return r.Image(), nil
}

func (s *Session) paint(el *html.Node) (*render.Renderer, error) {
	box, err := s.block(el)
	if err != nil {
		return nil, err
	}
	w := int(math.Ceil(box.Width + box.Padding.Horizontal() + box.Border.Horizontal()))
	h := int(math.Ceil(box.BorderBoxHeight()))
	r := render.NewRenderer(max(w, 1), max(h, 1))
	r.SetLogger(s.Logger)
	r.SetImages(s.Page.Images)
	if s.fonts != nil {
		r.SetFonts(s.fonts)
	}
	r.Render(box)
	return r, nil
}

// Describe names an element the way log lines and reports show it.
func Describe(el *html.Node) string {
	out := el.TagName
	if id, ok := el.GetAttribute("id"); ok && id != "" {
		out += "#" + id
	}
	if cls, ok := el.GetAttribute("class"); ok && cls != "" {
		for _, c := range strings.Fields(cls) {
			out += "." + c
		}
	}
	return out
}
