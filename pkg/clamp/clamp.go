// Package clamp truncates an element's content until it fits a number of
// rendered lines, ending it with a marker such as an ellipsis.
package clamp

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"cramp/pkg/html"
)

// Options controls a single Clamp call.
type Options struct {
	// Lines is the raw budget, see ParseValue. Empty means DefaultLines.
	Lines string
	// Marker replaces the removed content. Empty means DefaultMarker.
	Marker string
	// OmitMarker truncates without adding any marker.
	OmitMarker bool
	Logger     *slog.Logger
}

func (o Options) marker() string {
	switch {
	case o.OmitMarker:
		return ""
	case o.Marker == "":
		return DefaultMarker
	}
	return o.Marker
}

// Result describes what Clamp did to an element.
type Result struct {
	Original  string // inner HTML before clamping
	Clamped   string // inner HTML after clamping, empty when nothing was cut
	Truncated bool
	Lines     int // resolved budget
	Checks    int // fit checks performed
}

type clamper struct {
	el     *html.Node
	geom   Geometry
	marker string
	lines  int
	checks int
	logger *slog.Logger
}

func (c *clamper) fits() bool {
	c.checks++
	return Fits(c.el, c.geom, c.lines)
}

// Clamp truncates el's children in place until el fits within the line
// budget in opts, measuring with geom after every change. Each failed check
// removes exactly one word or rune, never the marker's length on top.
func Clamp(el *html.Node, geom Geometry, opts Options) (Result, error) {
	if el == nil || el.Type != html.ElementNode {
		return Result{}, ErrNotElement
	}
	v, err := ParseValue(opts.Lines)
	if err != nil {
		return Result{}, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &clamper{
		el:     el,
		geom:   geom,
		marker: opts.marker(),
		logger: logger.With("element", describe(el)),
	}
	res := Result{Original: el.Serialize()}
	c.lines = Resolve(el, geom, v)
	res.Lines = c.lines

	if c.fits() {
		res.Checks = c.checks
		c.logger.Debug("content already fits", "lines", c.lines)
		return res, nil
	}

	fitted := c.truncate()
	res.Truncated = true
	res.Clamped = el.Serialize()
	res.Checks = c.checks
	c.logger.Info("clamped", "lines", c.lines, "checks", c.checks, "fitted", fitted)
	return res, nil
}

// truncate walks the children from the last one down. Text loses a word at
// a time, then a rune at a time once no space is left; elements go whole.
// Every child it passes over is removed, so the one it works on is always
// the last. It reports whether the content ended up fitting.
func (c *clamper) truncate() bool {
	for i := len(c.el.Children) - 1; i >= 0; i-- {
		node := c.el.Children[i]

		if node.Type == html.TextNode {
			c.logger.Debug("trimming text node", "index", i, "runes", utf8.RuneCountInString(node.Text))
			text := node.Text
			for text != "" {
				if idx := strings.LastIndex(text, " "); idx >= 0 {
					text = text[:idx]
				} else {
					_, size := utf8.DecodeLastRuneInString(text)
					text = text[:len(text)-size]
				}
				node.Text = text + c.marker
				if c.fits() {
					return true
				}
			}
			c.el.RemoveChild(node)
			continue
		}

		c.logger.Debug("removing element", "index", i, "tag", node.TagName)
		c.el.RemoveChild(node)
		if c.marker == "" {
			if c.fits() {
				return true
			}
			continue
		}
		marker := html.NewText(c.marker)
		c.el.AddChild(marker)
		if c.fits() {
			return true
		}
		c.el.RemoveChild(marker)
	}
	return false
}

// Restore puts back the inner HTML recorded in Result.Original.
func Restore(el *html.Node, original string) error {
	if el == nil || el.Type != html.ElementNode {
		return ErrNotElement
	}
	nodes, err := html.ParseFragment(original)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	el.ReplaceChildren(nodes...)
	return nil
}

func describe(el *html.Node) string {
	var sb strings.Builder
	sb.WriteString(el.TagName)
	if id, ok := el.GetAttribute("id"); ok {
		sb.WriteString("#" + id)
	}
	return sb.String()
}
