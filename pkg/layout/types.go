package layout

import (
	"cramp/pkg/css"
	"cramp/pkg/html"
	"cramp/pkg/text"
)

// Box is the laid-out block box of an element. Anonymous boxes wrapping
// inline runs inside mixed content have a nil Node.
type Box struct {
	Node    *html.Node
	Style   *css.Style
	X       float64 // border-box origin
	Y       float64
	Width   float64 // Content width
	Height  float64 // Content height
	Margin  css.BoxEdge
	Padding css.BoxEdge
	Border  css.BoxEdge

	Children []*Box

	// Line boxes for block containers with inline content
	LineBoxes []*LineBox
}

// ContentX is the left edge of the content box.
func (b *Box) ContentX() float64 { return b.X + b.Border.Left + b.Padding.Left }

// ContentY is the top edge of the content box.
func (b *Box) ContentY() float64 { return b.Y + b.Border.Top + b.Padding.Top }

// ClientHeight is the padding-box height, as DOM clientHeight reports it.
func (b *Box) ClientHeight() float64 { return b.Height + b.Padding.Vertical() }

// BorderBoxHeight includes borders.
func (b *Box) BorderBoxHeight() float64 { return b.ClientHeight() + b.Border.Vertical() }

// LineCount counts line boxes in this box and its in-flow descendants.
func (b *Box) LineCount() int {
	n := len(b.LineBoxes)
	for _, c := range b.Children {
		n += c.LineCount()
	}
	return n
}

// LineBox is one line of inline content. Y is absolute, X offsets of the
// fragments are absolute too.
type LineBox struct {
	Y         float64
	Height    float64
	Width     float64
	Fragments []Fragment
}

// Fragment is a placed piece of a line: a word, a space, an image or an
// inline-block.
type Fragment struct {
	Kind   text.RunKind
	Node   *html.Node // text node, <img>, <br> or inline-block element
	Style  *css.Style
	Text   string
	Face   text.Face
	X      float64
	Width  float64
	Height float64
	Image  string // src for <img>
	Block  *Box   // laid-out inline-block
}
