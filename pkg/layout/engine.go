package layout

import (
	"log/slog"

	"cramp/pkg/css"
	"cramp/pkg/html"
	"cramp/pkg/text"
)

// ImageSizer reports intrinsic image sizes for <img> elements without
// width/height attributes. *images.Loader satisfies it.
type ImageSizer interface {
	Size(src string) (width, height int, err error)
}

// Engine lays out a parsed document. It keeps no layout state between
// calls: every query recomputes styles and boxes, so callers may mutate the
// DOM freely in between.
type Engine struct {
	doc           *html.Document
	viewportWidth float64
	measurer      text.Measurer
	images        ImageSizer
	stylesheets   []*css.Stylesheet
	logger        *slog.Logger
}

type Option func(*Engine)

// WithImages sets the source of intrinsic image sizes.
func WithImages(sizer ImageSizer) Option {
	return func(e *Engine) { e.images = sizer }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithStylesheets adds author sheets after the ones found in the document.
func WithStylesheets(sheets ...*css.Stylesheet) Option {
	return func(e *Engine) { e.stylesheets = append(e.stylesheets, sheets...) }
}

func NewEngine(doc *html.Document, viewportWidth float64, measurer text.Measurer, opts ...Option) *Engine {
	if measurer == nil {
		measurer = text.FixedMeasurer{}
	}
	e := &Engine{
		doc:           doc,
		viewportWidth: viewportWidth,
		measurer:      measurer,
		stylesheets:   css.ParseDocumentStylesheets(doc),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Document() *html.Document { return e.doc }

func (e *Engine) Measurer() text.Measurer { return e.measurer }

// StyleOf computes the style of n through its ancestor chain.
func (e *Engine) StyleOf(n *html.Node) *css.Style {
	return css.ComputeChain(n, e.stylesheets)
}

// LineHeight returns the used line-height of el in whole pixels.
func (e *Engine) LineHeight(el *html.Node) float64 {
	return e.StyleOf(el).GetLineHeight()
}

// FontSize returns the computed font-size of el in pixels.
func (e *Engine) FontSize(el *html.Node) float64 {
	return e.StyleOf(el).GetFontSize()
}

// ClientHeight mirrors DOM clientHeight: the padding-box height rounded to
// an integer, 0 for inline and display:none elements.
func (e *Engine) ClientHeight(el *html.Node) float64 {
	if el == nil || el.Type != html.ElementNode {
		return 0
	}
	box := e.Layout(el)
	if box == nil {
		return 0
	}
	return roundPx(box.ClientHeight())
}

// Layout lays out el as a block inside the width its ancestors leave it.
// It returns nil for text nodes, inline elements and hidden elements.
func (e *Engine) Layout(el *html.Node) *Box {
	if el == nil || el.Type != html.ElementNode {
		return nil
	}
	if el.TagName == html.DocumentTag {
		return e.layoutRoot(el)
	}

	width := e.viewportWidth
	var parent *css.Style
	for _, ancestor := range el.Ancestors() {
		style := css.ComputeStyle(ancestor, e.stylesheets, parent)
		display := style.GetDisplay()
		if display == css.DisplayNone {
			return nil
		}
		if display.IsBlockLevel() || display == css.DisplayInlineBlock {
			width = contentWidth(style, width)
		}
		parent = style
	}

	style := css.ComputeStyle(el, e.stylesheets, parent)
	display := style.GetDisplay()
	if !display.IsBlockLevel() && display != css.DisplayInlineBlock {
		return nil
	}
	box := e.layoutBlock(el, style, 0, 0, width)
	if display == css.DisplayInlineBlock {
		shrinkToFit(box, width)
	}
	return box
}

// LayoutDocument lays out the whole document at the viewport width.
func (e *Engine) LayoutDocument() *Box {
	return e.layoutRoot(e.doc.Root)
}

func (e *Engine) layoutRoot(root *html.Node) *Box {
	style := css.NewStyle()
	style.Set("display", "block")
	style.Set("font-size", "16px")
	box := &Box{Node: root, Style: style, Width: e.viewportWidth}
	e.layoutContents(box, root)
	return box
}
