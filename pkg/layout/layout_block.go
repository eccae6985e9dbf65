package layout

import (
	"math"

	"cramp/pkg/css"
	"cramp/pkg/html"
)

// layoutBlock lays out a block-level element whose margin box starts at
// (x, y) inside a containing block availWidth wide.
func (e *Engine) layoutBlock(node *html.Node, style *css.Style, x, y, availWidth float64) *Box {
	box := &Box{
		Node:    node,
		Style:   style,
		Margin:  style.GetMargin(),
		Padding: style.GetPadding(),
		Border:  style.GetBorderWidth(),
	}
	box.X = x + box.Margin.Left
	box.Y = y + box.Margin.Top
	box.Width = contentWidth(style, availWidth)

	e.layoutContents(box, node)

	frame := 0.0
	if isBorderBox(style) {
		frame = box.Padding.Vertical() + box.Border.Vertical()
	}
	if h, ok := style.GetSize("height", 0); ok {
		box.Height = h - frame
	}
	if h, ok := style.GetSize("max-height", 0); ok && box.Height > h-frame {
		box.Height = h - frame
	}
	if h, ok := style.GetSize("min-height", 0); ok && box.Height < h-frame {
		box.Height = h - frame
	}
	box.Height = max(box.Height, 0)
	return box
}

type flowItem struct {
	node  *html.Node
	style *css.Style // nil for text nodes
	block bool
}

// layoutContents places node's children inside box, which must already have
// its position, edges and width set. It sets box.Height to the content height.
func (e *Engine) layoutContents(box *Box, node *html.Node) {
	items := make([]flowItem, 0, len(node.Children))
	hasBlock := false
	for _, child := range node.Children {
		if child.Type == html.TextNode {
			items = append(items, flowItem{node: child})
			continue
		}
		cs := css.ComputeStyle(child, e.stylesheets, box.Style)
		display := cs.GetDisplay()
		if display == css.DisplayNone {
			continue
		}
		item := flowItem{node: child, style: cs, block: display.IsBlockLevel()}
		hasBlock = hasBlock || item.block
		items = append(items, item)
	}

	x, top := box.ContentX(), box.ContentY()
	if !hasBlock {
		box.LineBoxes = e.layoutInline(items, box.Style, x, top, box.Width)
		box.Height = linesHeight(box.LineBoxes)
		return
	}

	cursor := top
	prevMargin := 0.0
	first := true
	collapseTop := opensTop(box) && node.TagName != html.DocumentTag
	var pending []flowItem

	flushInline := func() {
		if len(pending) == 0 {
			return
		}
		lines := e.layoutInline(pending, box.Style, x, cursor+prevMargin, box.Width)
		pending = nil
		if len(lines) == 0 {
			return
		}
		cursor += prevMargin
		prevMargin = 0
		anon := &Box{Style: box.Style, X: x, Y: cursor, Width: box.Width, LineBoxes: lines}
		anon.Height = linesHeight(lines)
		box.Children = append(box.Children, anon)
		cursor += anon.Height
		first = false
	}

	for _, item := range items {
		if !item.block {
			pending = append(pending, item)
			continue
		}
		flushInline()
		m := item.style.GetMargin()
		gap := collapseMargins(prevMargin, m.Top)
		if first && collapseTop {
			gap = 0
		}
		child := e.layoutBlock(item.node, item.style, x, cursor+gap-m.Top, box.Width)
		box.Children = append(box.Children, child)
		cursor = child.Y + child.BorderBoxHeight()
		prevMargin = child.Margin.Bottom
		first = false
	}
	flushInline()

	if !opensBottom(box) || node.TagName == html.DocumentTag {
		cursor += prevMargin
	}
	box.Height = cursor - top
}

func linesHeight(lines []*LineBox) float64 {
	h := 0.0
	for _, l := range lines {
		h += l.Height
	}
	return h
}

func isBorderBox(style *css.Style) bool {
	v, _ := style.Get("box-sizing")
	return v == "border-box"
}

// contentWidth resolves the content width of a block in a containing block
// avail pixels wide.
func contentWidth(style *css.Style, avail float64) float64 {
	m := style.GetMargin()
	frame := style.GetPadding().Horizontal() + style.GetBorderWidth().Horizontal()
	borderBox := isBorderBox(style)

	w, ok := style.GetSize("width", avail)
	if ok {
		if borderBox {
			w -= frame
		}
	} else {
		w = avail - m.Horizontal() - frame
	}
	if mw, ok := style.GetSize("max-width", avail); ok {
		if borderBox {
			mw -= frame
		}
		w = min(w, mw)
	}
	return max(w, 0)
}

// shrinkToFit narrows an auto-width inline-block to its widest line.
func shrinkToFit(box *Box, avail float64) {
	if _, ok := box.Style.GetSize("width", avail); ok {
		return
	}
	box.Width = min(box.Width, maxContentWidth(box))
}

func maxContentWidth(box *Box) float64 {
	w := 0.0
	for _, l := range box.LineBoxes {
		w = max(w, l.Width)
	}
	for _, c := range box.Children {
		if c.Node == nil {
			w = max(w, maxContentWidth(c))
			continue
		}
		w = max(w, c.Width+c.Padding.Horizontal()+c.Border.Horizontal()+c.Margin.Horizontal())
	}
	return w
}

// moveBox shifts a laid-out box and everything in it.
func moveBox(box *Box, dx, dy float64) {
	box.X += dx
	box.Y += dy
	for _, l := range box.LineBoxes {
		l.Y += dy
		for i := range l.Fragments {
			l.Fragments[i].X += dx
			if l.Fragments[i].Block != nil {
				moveBox(l.Fragments[i].Block, dx, dy)
			}
		}
	}
	for _, c := range box.Children {
		moveBox(c, dx, dy)
	}
}

func roundPx(v float64) float64 {
	return math.Round(v)
}
