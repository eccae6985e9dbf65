package css

import (
	"sort"
	"strconv"

	"cramp/pkg/html"
)

// inheritedProperties are copied from the parent's computed style before the
// node's own declarations apply.
var inheritedProperties = []string{
	"font-size", "line-height", "font-weight", "font-style", "font-family",
	"white-space", "color", "text-align", "visibility",
}

// applyUserAgentStyles applies default browser styles based on element type
func applyUserAgentStyles(node *html.Node, style *Style) {
	if node.Type != html.ElementNode {
		return
	}
	switch node.TagName {
	case "head", "script", "style", "title", "meta", "link", "template", "noscript":
		style.Set("display", "none")
		return
	case "html", "div", "section", "article", "header", "footer", "nav", "main",
		"aside", "figure", "figcaption", "form", "fieldset", "address", "details",
		"summary", "dl", "dt", "hgroup", "table", "tr", "caption":
		style.Set("display", "block")
	case "body":
		style.Set("display", "block")
		expandBoxProperty(style, "margin", "", "8px")
	case "p":
		style.Set("display", "block")
		expandBoxProperty(style, "margin", "", "1em 0")
	case "blockquote":
		style.Set("display", "block")
		expandBoxProperty(style, "margin", "", "1em 40px")
	case "dd":
		style.Set("display", "block")
		style.Set("margin-left", "40px")
	case "ul", "ol":
		style.Set("display", "block")
		expandBoxProperty(style, "margin", "", "1em 0")
		style.Set("padding-left", "40px")
	case "li":
		style.Set("display", "list-item")
	case "pre":
		style.Set("display", "block")
		style.Set("white-space", "pre")
		style.Set("font-family", "monospace")
		expandBoxProperty(style, "margin", "", "1em 0")
	case "hr":
		style.Set("display", "block")
		expandBoxProperty(style, "margin", "", "0.5em 0")
		expandBorderProperty(style, "1px solid gray")
	case "h1", "h2", "h3", "h4", "h5", "h6":
		style.Set("display", "block")
		style.Set("font-weight", "bold")
		size, margin := headingMetrics(node.TagName)
		style.Set("font-size", size)
		expandBoxProperty(style, "margin", "", margin+" 0")
	case "b", "strong":
		style.Set("font-weight", "bold")
	case "i", "em", "cite", "var", "dfn":
		style.Set("font-style", "italic")
	case "code", "kbd", "samp", "tt":
		style.Set("font-family", "monospace")
	case "small":
		style.Set("font-size", "smaller")
	case "big":
		style.Set("font-size", "larger")
	case "a":
		style.Set("color", "#0645ad")
		style.Set("text-decoration", "underline")
	case "td", "th":
		style.Set("display", "inline-block")
	}
}

func headingMetrics(tag string) (size, margin string) {
	switch tag {
	case "h1":
		return "2em", "0.67em"
	case "h2":
		return "1.5em", "0.83em"
	case "h3":
		return "1.17em", "1em"
	case "h4":
		return "1em", "1.33em"
	case "h5":
		return "0.83em", "1.67em"
	}
	return "0.67em", "2.33em"
}

// ComputeStyle computes the final style for a node by applying the cascade
// on top of the values inherited from parent. parent may be nil for the
// outermost element. The returned style has an absolute font-size and, for
// length line-heights, an absolute line-height.
func ComputeStyle(node *html.Node, stylesheets []*Stylesheet, parent *Style) *Style {
	finalStyle := NewStyle()
	parentFontSize := DefaultFontSize
	if parent != nil {
		parentFontSize = parent.GetFontSize()
		for _, prop := range inheritedProperties {
			if val, ok := parent.Get(prop); ok {
				finalStyle.Set(prop, val)
			}
		}
	}

	declared := NewStyle()
	applyUserAgentStyles(node, declared)

	allRules := make([]Rule, 0)
	for _, stylesheet := range stylesheets {
		allRules = append(allRules, FindMatchingRules(node, stylesheet)...)
	}
	sort.SliceStable(allRules, func(i, j int) bool {
		if allRules[i].Selector.Specificity != allRules[j].Selector.Specificity {
			return allRules[i].Selector.Specificity < allRules[j].Selector.Specificity
		}
		return allRules[i].Order < allRules[j].Order
	})
	for _, rule := range allRules {
		for property, value := range rule.Declarations {
			declared.Set(property, value)
		}
	}

	// Inline styles win over every rule
	if styleAttr, ok := node.GetAttribute("style"); ok {
		for property, value := range ParseInlineStyle(styleAttr).Properties {
			declared.Set(property, value)
		}
	}

	for property, value := range declared.Properties {
		if value == "inherit" {
			if parent != nil {
				if pv, ok := parent.Get(property); ok {
					finalStyle.Set(property, pv)
				}
			}
			continue
		}
		finalStyle.Set(property, value)
	}

	fontSize := parentFontSize
	if raw, ok := declared.Get("font-size"); ok && raw != "inherit" {
		if fs, ok := ParseFontSize(raw, parentFontSize); ok {
			fontSize = fs
		}
	}
	finalStyle.Set("font-size", formatPx(fontSize))

	// Lengths compute against this element's font size; numbers and normal
	// are inherited as-is and resolved by each descendant.
	if raw, ok := declared.Get("line-height"); ok && raw != "normal" && raw != "inherit" && !IsUnitless(raw) {
		if px, ok := ParseLength(raw, fontSize, fontSize); ok {
			finalStyle.Set("line-height", formatPx(px))
		}
	}

	return finalStyle
}

// ComputeChain computes the style of node by cascading through all of its
// ancestors first. Text nodes get their parent's style.
func ComputeChain(node *html.Node, stylesheets []*Stylesheet) *Style {
	if node.Type == html.TextNode {
		if node.Parent == nil || node.Parent.TagName == html.DocumentTag {
			return ComputeStyle(html.NewElement("span", nil), stylesheets, nil)
		}
		node = node.Parent
	}
	var parent *Style
	for _, ancestor := range node.Ancestors() {
		parent = ComputeStyle(ancestor, stylesheets, parent)
	}
	return ComputeStyle(node, stylesheets, parent)
}

// ParseDocumentStylesheets parses every stylesheet collected by the parser.
func ParseDocumentStylesheets(doc *html.Document) []*Stylesheet {
	stylesheets := make([]*Stylesheet, 0, len(doc.Stylesheets))
	for _, cssText := range doc.Stylesheets {
		if stylesheet, err := ParseStylesheet(cssText); err == nil {
			stylesheets = append(stylesheets, stylesheet)
		}
	}
	return stylesheets
}

func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
