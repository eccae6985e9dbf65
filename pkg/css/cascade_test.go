package css

import (
	"testing"

	"cramp/pkg/html"
)

func findFirst(t *testing.T, doc *html.Document, sel string) *html.Node {
	t.Helper()
	n, err := QuerySelector(doc.Root, sel)
	if err != nil || n == nil {
		t.Fatalf("query %q: %v", sel, err)
	}
	return n
}

func TestComputeStyle_SpecificityAndOrder(t *testing.T) {
	sheet, _ := ParseStylesheet(`
		.hl { color: blue; }
		div { color: red; }
		div { color: green; }
	`)
	plain := html.NewElement("div", nil)
	if got, _ := ComputeStyle(plain, []*Stylesheet{sheet}, nil).Get("color"); got != "green" {
		t.Errorf("later rule should win ties, got %q", got)
	}
	classed := html.NewElement("div", map[string]string{"class": "hl"})
	if got, _ := ComputeStyle(classed, []*Stylesheet{sheet}, nil).Get("color"); got != "blue" {
		t.Errorf("class should beat element, got %q", got)
	}
	inline := html.NewElement("div", map[string]string{"class": "hl", "style": "color: black"})
	if got, _ := ComputeStyle(inline, []*Stylesheet{sheet}, nil).Get("color"); got != "black" {
		t.Errorf("inline should win, got %q", got)
	}
}

func TestComputeChain_Inheritance(t *testing.T) {
	doc, err := html.Parse(`<style>.box { font-size: 20px; line-height: 1.5 } .big { font-size: 2em }</style>
		<div class="box"><p><span class="big">x</span></p></div>`)
	if err != nil {
		t.Fatal(err)
	}
	sheets := ParseDocumentStylesheets(doc)

	span := findFirst(t, doc, ".big")
	style := ComputeChain(span, sheets)
	if fs := style.GetFontSize(); fs != 40 {
		t.Errorf("font-size = %v, want 40", fs)
	}
	// unitless line-height is inherited as a number and scales with font-size
	if lh := style.GetLineHeight(); lh != 60 {
		t.Errorf("line-height = %v, want 60", lh)
	}

	text := span.Children[0]
	if ComputeChain(text, sheets).GetFontSize() != 40 {
		t.Error("text node should take its parent's style")
	}
}

func TestComputeChain_EmLineHeightComputesOnDeclaringElement(t *testing.T) {
	doc, err := html.Parse(`<div style="font-size: 10px; line-height: 2em"><b style="font-size: 30px">x</b></div>`)
	if err != nil {
		t.Fatal(err)
	}
	b := findFirst(t, doc, "b")
	if lh := ComputeChain(b, nil).GetLineHeight(); lh != 20 {
		t.Errorf("line-height = %v, want 20 (computed on the div)", lh)
	}
}

func TestComputeStyle_UserAgentDefaults(t *testing.T) {
	doc, err := html.Parse(`<h1>t</h1><p>a <strong>b</strong> <em>c</em></p><script>x()</script>`)
	if err != nil {
		t.Fatal(err)
	}
	h1 := ComputeChain(findFirst(t, doc, "h1"), nil)
	if h1.GetFontSize() != 32 || h1.GetFontWeight() != FontWeightBold || h1.GetDisplay() != DisplayBlock {
		t.Errorf("h1 style = %+v", h1.Properties)
	}
	if m := h1.GetMargin(); m.Top != 32*0.67 {
		t.Errorf("h1 margin-top = %v", m.Top)
	}
	if ComputeChain(findFirst(t, doc, "strong"), nil).GetFontWeight() != FontWeightBold {
		t.Error("strong should be bold")
	}
	em := ComputeChain(findFirst(t, doc, "em"), nil)
	if !em.IsItalic() || em.GetDisplay() != DisplayInline {
		t.Error("em should be inline italic")
	}
}

func TestComputeStyle_Inherit(t *testing.T) {
	parent := ParseInlineStyle("color: red; padding-top: 4px")
	child := html.NewElement("span", map[string]string{"style": "padding-top: inherit"})
	got := ComputeStyle(child, nil, parent)
	if v, _ := got.Get("padding-top"); v != "4px" {
		t.Errorf("padding-top = %q", v)
	}
	if v, _ := got.Get("color"); v != "red" {
		t.Errorf("color should inherit, got %q", v)
	}
}
