package html

import (
	"errors"
	"testing"
)

func TestParser_NestedElements(t *testing.T) {
	doc, err := Parse(`<div><p>Hello</p></div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Root.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(doc.Root.Children))
	}
	div := doc.Root.Children[0]
	if div.TagName != "div" || len(div.Children) != 1 || div.Children[0].TagName != "p" {
		t.Fatalf("unexpected tree: %s", doc.Root.Serialize())
	}
	if div.Children[0].Parent != div {
		t.Error("p.Parent should be div")
	}
}

func TestParser_StyleAndScriptCaptured(t *testing.T) {
	doc, err := Parse(`<style>p { color: red }</style><p>x</p><script>var a = 1 < 2;</script>`)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Stylesheets) != 1 || doc.Stylesheets[0] != "p { color: red }" {
		t.Errorf("stylesheets = %q", doc.Stylesheets)
	}
	if len(doc.Scripts) != 1 || doc.Scripts[0] != "var a = 1 < 2;" {
		t.Errorf("scripts = %q", doc.Scripts)
	}
	if got := doc.Root.Serialize(); got != "<p>x</p>" {
		t.Errorf("style/script should not enter the tree, got %q", got)
	}
}

func TestParser_AutoCloseP(t *testing.T) {
	doc, err := Parse(`<p>one<p>two<div>three</div>`)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Root.Serialize(); got != "<p>one</p><p>two</p><div>three</div>" {
		t.Errorf("got %q", got)
	}
}

func TestParser_ListItems(t *testing.T) {
	doc, err := Parse("<ul>\n <li>a\n <li>b\n</ul>")
	if err != nil {
		t.Fatal(err)
	}
	ul := doc.Root.Children[0]
	if len(ul.Children) != 2 {
		t.Fatalf("expected 2 li, got %s", ul.Serialize())
	}
}

func TestParser_WhitespaceBetweenInlines(t *testing.T) {
	doc, err := Parse(`<p><b>bold</b> <i>italic</i></p>`)
	if err != nil {
		t.Fatal(err)
	}
	p := doc.Root.Children[0]
	if len(p.Children) != 3 || p.Children[1].Text != " " {
		t.Errorf("space between inline elements should survive, got %q", p.Serialize())
	}
}

func TestParser_MergesAdjacentText(t *testing.T) {
	doc, err := Parse(`<p>a < b</p>`)
	if err != nil {
		t.Fatal(err)
	}
	p := doc.Root.Children[0]
	if len(p.Children) != 1 || p.Children[0].Text != "a < b" {
		t.Errorf("expected one text node, got %d: %q", len(p.Children), p.Serialize())
	}
}

func TestParser_PreKeepsWhitespace(t *testing.T) {
	doc, err := Parse("<pre>a\n  b</pre><p>c\n  d</p>")
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Root.Children[0].TextContent(); got != "a\n  b" {
		t.Errorf("pre text = %q", got)
	}
	if got := doc.Root.Children[1].TextContent(); got != "c d" {
		t.Errorf("p text = %q", got)
	}
}

func TestParseWithFetcher(t *testing.T) {
	fetch := func(href string) (string, error) {
		if href == "site.css" {
			return ".x { color: blue }", nil
		}
		return "", errors.New("not found")
	}
	doc, err := ParseWithFetcher(`<link rel="stylesheet" href="site.css"><link rel="stylesheet" href="gone.css"><link rel="stylesheet" href="data:text/css,p%20%7B%7D">`, fetch)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Stylesheets) != 2 {
		t.Fatalf("expected 2 stylesheets, got %q", doc.Stylesheets)
	}
	if doc.Stylesheets[1] != "p {}" {
		t.Errorf("data URI sheet = %q", doc.Stylesheets[1])
	}
}

func TestParseFragmentRoundTrip(t *testing.T) {
	src := `Lorem <b>ipsum</b> <i>dolor</i> sit&nbsp;amet &amp; more`
	nodes, err := ParseFragment(src)
	if err != nil {
		t.Fatal(err)
	}
	holder := NewElement("div", nil)
	holder.ReplaceChildren(nodes...)
	if got := holder.Serialize(); got != src {
		t.Errorf("round trip = %q, want %q", got, src)
	}
	for _, n := range nodes {
		if n.Parent != holder {
			t.Error("fragment nodes should be adopted by holder")
		}
	}
}

func TestParser_UnterminatedTag(t *testing.T) {
	if _, err := Parse(`<div class="a"`); err == nil {
		t.Error("expected error for EOF inside a tag")
	}
}
