package layout

import (
	"strings"

	"cramp/pkg/css"
	"cramp/pkg/html"
	"cramp/pkg/text"
)

// inlineCollector flattens an inline formatting context into measured runs.
// frags[i] carries what run i needs for placement and painting.
type inlineCollector struct {
	e     *Engine
	width float64
	runs  []text.Run
	frags []Fragment
}

func (c *inlineCollector) add(run text.Run, frag Fragment) {
	if n := len(c.runs); n > 0 && run.Kind == text.Word && c.runs[n-1].Kind == text.Word {
		run.Glue = true
	}
	run.Ref = len(c.frags)
	frag.Kind = run.Kind
	c.runs = append(c.runs, run)
	c.frags = append(c.frags, frag)
}

func (c *inlineCollector) endsWithSpace() bool {
	return len(c.runs) == 0 || c.runs[len(c.runs)-1].Kind == text.Space
}

func faceOf(style *css.Style) text.Face {
	return text.Face{
		Size:   style.GetFontSize(),
		Bold:   style.GetFontWeight() == css.FontWeightBold,
		Italic: style.IsItalic(),
		Mono:   style.IsMonospace(),
	}
}

func (c *inlineCollector) text(node *html.Node, style *css.Style) {
	face := faceOf(style)
	lh := style.GetLineHeight()
	frag := Fragment{Node: node, Style: style, Face: face}
	m := c.e.measurer

	switch ws := style.GetWhiteSpace(); ws {
	case css.WhiteSpacePre, css.WhiteSpacePreWrap:
		for i, seg := range strings.Split(node.Text, "\n") {
			if i > 0 {
				c.add(text.Run{Kind: text.Break, Height: lh}, frag)
			}
			if seg == "" {
				continue
			}
			if ws == css.WhiteSpacePre {
				c.add(text.Run{Kind: text.Word, Text: seg, Width: m.Measure(seg, face), Height: lh}, frag)
				continue
			}
			for _, r := range text.SplitWords(seg, m, face) {
				r.Height = lh
				c.add(r, frag)
			}
		}
	default:
		s := html.CollapseWhitespace(node.Text)
		if c.endsWithSpace() {
			s = strings.TrimLeft(s, " ")
		}
		for _, r := range text.SplitWords(s, m, face) {
			r.Height = lh
			if ws == css.WhiteSpaceNowrap && len(c.runs) > 0 {
				// no break opportunities: every piece sticks to the previous one
				r.Kind = text.Word
			}
			c.add(r, frag)
		}
	}
}

func (c *inlineCollector) element(node *html.Node, style *css.Style) {
	display := style.GetDisplay()
	if display == css.DisplayNone {
		return
	}
	lh := style.GetLineHeight()
	switch {
	case node.TagName == "br":
		c.add(text.Run{Kind: text.Break, Height: lh}, Fragment{Node: node, Style: style})
		return
	case node.TagName == "img":
		w, h := c.e.imageSize(node, style, c.width)
		src, _ := node.GetAttribute("src")
		c.add(text.Run{Kind: text.Atomic, Width: w, Height: h}, Fragment{Node: node, Style: style, Image: src})
		return
	case display == css.DisplayInlineBlock:
		b := c.e.layoutBlock(node, style, 0, 0, c.width)
		shrinkToFit(b, c.width)
		w := b.Width + b.Padding.Horizontal() + b.Border.Horizontal() + b.Margin.Horizontal()
		h := b.BorderBoxHeight() + b.Margin.Vertical()
		c.add(text.Run{Kind: text.Atomic, Width: w, Height: h}, Fragment{Node: node, Style: style, Block: b})
		return
	case display.IsBlockLevel():
		// a block inside an inline gets a line to itself
		b := c.e.layoutBlock(node, style, 0, 0, c.width)
		h := b.BorderBoxHeight() + b.Margin.Vertical()
		c.add(text.Run{Kind: text.Atomic, Width: c.width, Height: h}, Fragment{Node: node, Style: style, Block: b})
		return
	}
	for _, child := range node.Children {
		c.node(child, style)
	}
}

func (c *inlineCollector) node(n *html.Node, parent *css.Style) {
	if n.Type == html.TextNode {
		c.text(n, parent)
		return
	}
	c.element(n, css.ComputeStyle(n, c.e.stylesheets, parent))
}

// layoutInline flows items into line boxes starting at (x, y). Every line is
// at least as tall as the container's line-height.
func (e *Engine) layoutInline(items []flowItem, container *css.Style, x, y, width float64) []*LineBox {
	c := &inlineCollector{e: e, width: width}
	for _, item := range items {
		if item.style == nil {
			c.text(item.node, container)
		} else {
			c.element(item.node, item.style)
		}
	}

	strut := container.GetLineHeight()
	align := container.GetTextAlign()
	lines := text.FillLines(c.runs, width, width)
	boxes := make([]*LineBox, 0, len(lines))
	for _, line := range lines {
		lb := &LineBox{Y: y, Height: strut, Width: line.Width}
		for _, r := range line.Runs {
			lb.Height = max(lb.Height, r.Height)
		}

		offset := 0.0
		switch align {
		case css.TextAlignCenter:
			offset = (width - line.Width) / 2
		case css.TextAlignRight:
			offset = width - line.Width
		}
		fx := x + max(offset, 0)
		for _, r := range line.Runs {
			f := c.frags[r.Ref]
			f.Text = r.Text
			f.X = fx
			f.Width = r.Width
			f.Height = r.Height
			if f.Block != nil {
				// sit on the bottom of the line, which is where the baseline
				// ends up for content without descenders
				moveBox(f.Block, fx, y+lb.Height-r.Height)
			}
			lb.Fragments = append(lb.Fragments, f)
			fx += r.Width
		}
		boxes = append(boxes, lb)
		y += lb.Height
	}
	return boxes
}

// imageSize resolves the used size of an <img>: attributes, then CSS, then
// the intrinsic size, keeping the aspect ratio when only one side is given.
func (e *Engine) imageSize(node *html.Node, style *css.Style, avail float64) (float64, float64) {
	w, hasW := attrPx(node, "width")
	h, hasH := attrPx(node, "height")
	if v, ok := style.GetSize("width", avail); ok {
		w, hasW = v, true
	}
	if v, ok := style.GetSize("height", 0); ok {
		h, hasH = v, true
	}
	if hasW && hasH {
		return w, h
	}

	var iw, ih float64
	if src, ok := node.GetAttribute("src"); ok && e.images != nil {
		if sw, sh, err := e.images.Size(src); err == nil {
			iw, ih = float64(sw), float64(sh)
		} else {
			e.logger.Debug("image size unavailable", "error", err)
		}
	}
	switch {
	case hasW && iw > 0:
		return w, w * ih / iw
	case hasH && ih > 0:
		return h * iw / ih, h
	case hasW:
		return w, 0
	case hasH:
		return 0, h
	}
	return iw, ih
}

func attrPx(node *html.Node, name string) (float64, bool) {
	v, ok := node.GetAttribute(name)
	if !ok {
		return 0, false
	}
	n, ok := css.ParseInt(v)
	return float64(n), ok
}
