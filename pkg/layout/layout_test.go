package layout

import (
	"testing"

	"cramp/pkg/html"
	"cramp/pkg/text"
)

// Every glyph is a 1em square, so a 10px word of n letters is n*10 wide.
func newTestEngine(t *testing.T, src string) (*Engine, *html.Document) {
	t.Helper()
	doc, err := html.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return NewEngine(doc, 800, text.FixedMeasurer{}), doc
}

func byID(t *testing.T, doc *html.Document, id string) *html.Node {
	t.Helper()
	n := html.GetElementByID(doc.Root, id)
	if n == nil {
		t.Fatalf("no element #%s", id)
	}
	return n
}

func TestLayout_ExplicitSize(t *testing.T) {
	e, doc := newTestEngine(t, `<div id="a" style="width: 200px; height: 100px; padding: 5px"></div>`)
	box := e.Layout(byID(t, doc, "a"))
	if box.Width != 200 || box.Height != 100 {
		t.Errorf("expected 200x100, got %fx%f", box.Width, box.Height)
	}
	if got := e.ClientHeight(byID(t, doc, "a")); got != 110 {
		t.Errorf("expected clientHeight 110, got %v", got)
	}
}

func TestLayout_VerticalStacking(t *testing.T) {
	e, doc := newTestEngine(t, `<div id="outer" style="padding: 1px">
		<div style="height: 50px"></div>
		<div style="height: 50px; margin-top: 10px; margin-bottom: 20px"></div>
		<div style="height: 50px; margin-top: 15px"></div>
	</div>`)
	box := e.Layout(byID(t, doc, "outer"))
	if len(box.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(box.Children))
	}
	ys := []float64{box.Children[0].Y, box.Children[1].Y, box.Children[2].Y}
	// 20 and 15 collapse to 20
	if ys[0] != 1 || ys[1] != 61 || ys[2] != 131 {
		t.Errorf("boxes not stacking correctly: %v", ys)
	}
	if box.Height != 180 {
		t.Errorf("expected content height 180, got %v", box.Height)
	}
}

func TestLayout_ChildMarginsCollapseThroughOpenEdges(t *testing.T) {
	e, doc := newTestEngine(t, `<div id="c" style="font-size: 10px; line-height: 10px"><p>aa</p></div>`)
	// p has 1em margins, which escape the div
	if got := e.ClientHeight(byID(t, doc, "c")); got != 10 {
		t.Errorf("expected 10, got %v", got)
	}

	e, doc = newTestEngine(t, `<div id="c" style="font-size: 10px; line-height: 10px; padding: 1px 0"><p>aa</p></div>`)
	if got := e.ClientHeight(byID(t, doc, "c")); got != 32 {
		t.Errorf("expected 10 + margins 20 + padding 2, got %v", got)
	}
}

func TestLayout_TextWrapping(t *testing.T) {
	e, doc := newTestEngine(t, `<div id="c" style="width: 100px; font-size: 10px; line-height: 12px">aaa bbb ccc ddd eee fff ggg</div>`)
	el := byID(t, doc, "c")
	box := e.Layout(el)
	if len(box.LineBoxes) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(box.LineBoxes))
	}
	first := box.LineBoxes[0]
	if first.Width != 70 || first.Fragments[0].Text != "aaa" || first.Fragments[2].Text != "bbb" {
		t.Errorf("unexpected first line %+v", first)
	}
	if box.LineBoxes[3].Y != 36 {
		t.Errorf("expected last line at 36, got %v", box.LineBoxes[3].Y)
	}
	if got := e.ClientHeight(el); got != 48 {
		t.Errorf("expected clientHeight 48, got %v", got)
	}
	if got := e.LineHeight(el); got != 12 {
		t.Errorf("expected line height 12, got %v", got)
	}
}

func TestLayout_InlineElementsJoinWords(t *testing.T) {
	e, doc := newTestEngine(t, `<div id="c" style="width: 50px; font-size: 10px; line-height: 10px">aa<b>bbb</b> c</div>`)
	box := e.Layout(byID(t, doc, "c"))
	// "aabbb" cannot split, so "c" wraps
	if len(box.LineBoxes) != 2 || box.LineBoxes[0].Width != 50 {
		t.Fatalf("unexpected lines %+v", box.LineBoxes)
	}
	if f := box.LineBoxes[0].Fragments[1]; f.Node.Parent.TagName != "b" || f.X != 20 {
		t.Errorf("bold fragment misplaced: %+v", f)
	}
}

func TestLayout_TallInlineRaisesLine(t *testing.T) {
	e, doc := newTestEngine(t, `<div id="c" style="font-size: 10px; line-height: 10px">a <span style="font-size: 20px; line-height: 30px">b</span><br><br>c</div>`)
	box := e.Layout(byID(t, doc, "c"))
	if len(box.LineBoxes) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(box.LineBoxes))
	}
	heights := []float64{box.LineBoxes[0].Height, box.LineBoxes[1].Height, box.LineBoxes[2].Height}
	if heights[0] != 30 || heights[1] != 10 || heights[2] != 10 {
		t.Errorf("unexpected line heights %v", heights)
	}
}

func TestLayout_MaxHeightAndNone(t *testing.T) {
	e, doc := newTestEngine(t, `<div id="c" style="font-size: 10px; line-height: 10px; max-height: 25px; width: 30px">aa bb cc dd</div><div id="h" style="display: none">x</div><span id="s">x</span>`)
	if got := e.ClientHeight(byID(t, doc, "c")); got != 25 {
		t.Errorf("expected max-height cap 25, got %v", got)
	}
	if got := e.ClientHeight(byID(t, doc, "h")); got != 0 {
		t.Errorf("hidden element should be 0, got %v", got)
	}
	if got := e.ClientHeight(byID(t, doc, "s")); got != 0 {
		t.Errorf("inline element should be 0, got %v", got)
	}
}

func TestLayout_WidthFromAncestors(t *testing.T) {
	e, doc := newTestEngine(t, `<div style="width: 100px; padding: 0 10px"><div style="border: 5px solid; margin: 0 5px"><p id="p" style="margin: 0; font-size: 10px; line-height: 10px">aaa bbb ccc</p></div></div>`)
	box := e.Layout(byID(t, doc, "p"))
	// 100 - 2*5 margin - 2*5 border = 80
	if box.Width != 80 {
		t.Errorf("expected width 80, got %v", box.Width)
	}
	if len(box.LineBoxes) != 2 {
		t.Errorf("expected 2 lines, got %d", len(box.LineBoxes))
	}
}

func TestLayout_PreservesNewlines(t *testing.T) {
	e, doc := newTestEngine(t, "<pre id=\"p\" style=\"margin: 0; font-size: 10px; line-height: 10px\">a b\n\nc</pre>")
	box := e.Layout(byID(t, doc, "p"))
	if len(box.LineBoxes) != 3 {
		t.Errorf("expected 3 lines, got %d", len(box.LineBoxes))
	}
}

func TestLayout_TextAlignCenter(t *testing.T) {
	e, doc := newTestEngine(t, `<div id="c" style="width: 100px; text-align: center; font-size: 10px">abcd</div>`)
	box := e.Layout(byID(t, doc, "c"))
	if x := box.LineBoxes[0].Fragments[0].X; x != 30 {
		t.Errorf("expected x 30, got %v", x)
	}
}

func TestLayout_InlineBlockShrinks(t *testing.T) {
	e, doc := newTestEngine(t, `<div id="c" style="width: 200px; font-size: 10px; line-height: 10px">x <span style="display: inline-block; padding: 5px">ab</span></div>`)
	box := e.Layout(byID(t, doc, "c"))
	frags := box.LineBoxes[0].Fragments
	ib := frags[len(frags)-1]
	if ib.Block == nil || ib.Width != 30 || ib.Height != 20 {
		t.Fatalf("unexpected inline-block fragment %+v", ib)
	}
	if ib.Block.X != 20 {
		t.Errorf("inline-block should start after 'x ', got %v", ib.Block.X)
	}
	if box.LineBoxes[0].Height != 20 {
		t.Errorf("line should grow to the inline-block, got %v", box.LineBoxes[0].Height)
	}
}

type fakeImages map[string][2]int

func (f fakeImages) Size(src string) (int, int, error) {
	s := f[src]
	return s[0], s[1], nil
}

func TestLayout_Images(t *testing.T) {
	doc, err := html.Parse(`<div id="c" style="font-size: 10px; line-height: 10px"><img src="a.png"><img src="a.png" width="20"><img src="b.png" width="5" height="7"></div>`)
	if err != nil {
		t.Fatal(err)
	}
	e := NewEngine(doc, 800, text.FixedMeasurer{}, WithImages(fakeImages{"a.png": {40, 30}}))
	box := e.Layout(html.GetElementByID(doc.Root, "c"))
	frags := box.LineBoxes[0].Fragments
	if len(frags) != 3 {
		t.Fatalf("expected 3 fragments, got %d", len(frags))
	}
	if frags[0].Width != 40 || frags[0].Height != 30 {
		t.Errorf("intrinsic size wrong: %+v", frags[0])
	}
	if frags[1].Width != 20 || frags[1].Height != 15 {
		t.Errorf("aspect ratio not kept: %+v", frags[1])
	}
	if frags[2].Width != 5 || frags[2].Height != 7 || frags[2].Image != "b.png" {
		t.Errorf("attributes ignored: %+v", frags[2])
	}
	if box.Height != 30 {
		t.Errorf("expected height 30, got %v", box.Height)
	}
}

func TestLayout_SeesMutations(t *testing.T) {
	e, doc := newTestEngine(t, `<div id="c" style="width: 30px; font-size: 10px; line-height: 10px">aa bb cc</div>`)
	el := byID(t, doc, "c")
	if got := e.ClientHeight(el); got != 30 {
		t.Fatalf("expected 30, got %v", got)
	}
	el.Children[0].Text = "aa"
	if got := e.ClientHeight(el); got != 10 {
		t.Errorf("expected 10 after mutation, got %v", got)
	}
}

func TestFontSize(t *testing.T) {
	e, doc := newTestEngine(t, `<div style="font-size: 20px"><p id="p" style="font-size: 1.5em">x</p></div>`)
	if got := e.FontSize(byID(t, doc, "p")); got != 30 {
		t.Errorf("expected 30, got %v", got)
	}
}

func TestCollapseMargins(t *testing.T) {
	tests := []struct{ a, b, want float64 }{
		{10, 20, 20},
		{-10, -20, -20},
		{20, -5, 15},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := collapseMargins(tt.a, tt.b); got != tt.want {
			t.Errorf("collapseMargins(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
