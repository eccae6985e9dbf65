package html

import (
	"fmt"
	"net/url"
	"strings"
)

// CSSFetcher resolves the href of a <link rel="stylesheet"> to CSS text.
type CSSFetcher func(href string) (string, error)

type Parser struct {
	tokenizer  *Tokenizer
	doc        *Document
	stack      []*Node
	cssFetcher CSSFetcher
	fragment   bool // keep whitespace directly under the root
}

func NewParser(html string) *Parser {
	return &Parser{
		tokenizer: NewTokenizer(html),
		doc:       NewDocument(),
	}
}

func (p *Parser) Parse() (*Document, error) {
	p.stack = []*Node{p.doc.Root}

	for {
		token, err := p.tokenizer.NextToken()
		if err != nil {
			return nil, fmt.Errorf("tokenizer error: %w", err)
		}
		if token.Type == TokenEOF {
			break
		}

		switch token.Type {
		case TokenStartTag:
			p.startTag(token)
		case TokenText:
			p.text(token.Text)
		case TokenEndTag:
			p.closeTag(token.TagName)
		}
	}

	return p.doc, nil
}

func (p *Parser) startTag(token Token) {
	switch token.TagName {
	case "style":
		css := p.tokenizer.ReadRawUntil("style")
		if !token.SelfClosing {
			p.doc.Stylesheets = append(p.doc.Stylesheets, css)
		}
		return
	case "script":
		src := p.tokenizer.ReadRawUntil("script")
		if strings.TrimSpace(src) != "" {
			p.doc.Scripts = append(p.doc.Scripts, src)
		}
		return
	}

	if isBlockElement(token.TagName) {
		p.autoCloseP()
	}
	if token.TagName == "li" {
		p.autoCloseSibling("li")
	}

	node := NewElement(token.TagName, token.Attributes)
	p.currentParent().AddChild(node)

	if token.TagName == "link" {
		p.loadLinkStylesheet(node)
	}

	if !IsVoidElement(token.TagName) && !token.SelfClosing {
		p.stack = append(p.stack, node)
		p.updatePreserve()
	}
}

// text appends to the current parent, merging with a preceding text node.
// Whitespace-only text is dropped where it can never render.
func (p *Parser) text(s string) {
	if s == "" {
		return
	}
	parent := p.currentParent()
	keep := p.tokenizer.PreserveSpace || (p.fragment && parent == p.doc.Root)
	if strings.TrimSpace(s) == "" && !keep {
		if dropsWhitespace(parent.TagName) || len(parent.Children) == 0 {
			return
		}
	}
	if last := parent.LastChild(); last != nil && last.Type == TextNode {
		if strings.HasSuffix(last.Text, " ") && strings.HasPrefix(s, " ") && !p.tokenizer.PreserveSpace {
			s = s[1:]
		}
		last.Text += s
		return
	}
	parent.AppendText(s)
}

func (p *Parser) currentParent() *Node {
	return p.stack[len(p.stack)-1]
}

// closeTag pops the stack until the matching tag is found and closed.
// Unmatched end tags are ignored.
func (p *Parser) closeTag(tagName string) {
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.stack[i].TagName == tagName {
			p.stack = p.stack[:i]
			p.updatePreserve()
			return
		}
	}
}

// autoCloseP closes an open <p> element if one is on the stack
func (p *Parser) autoCloseP() {
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.stack[i].TagName == "p" {
			p.stack = p.stack[:i]
			return
		}
		if isBlockElement(p.stack[i].TagName) {
			return
		}
	}
}

func (p *Parser) autoCloseSibling(tag string) {
	for i := len(p.stack) - 1; i >= 1; i-- {
		switch p.stack[i].TagName {
		case tag:
			p.stack = p.stack[:i]
			return
		case "ul", "ol":
			return
		}
	}
}

func (p *Parser) updatePreserve() {
	p.tokenizer.PreserveSpace = false
	for _, n := range p.stack {
		if n.TagName == "pre" || n.TagName == "textarea" {
			p.tokenizer.PreserveSpace = true
			return
		}
	}
}

func isBlockElement(tagName string) bool {
	switch tagName {
	case "address", "article", "aside", "blockquote", "details", "dialog",
		"dd", "div", "dl", "dt", "fieldset", "figcaption", "figure",
		"footer", "form", "h1", "h2", "h3", "h4", "h5", "h6",
		"header", "hgroup", "hr", "li", "main", "nav", "ol",
		"p", "pre", "section", "table", "ul":
		return true
	}
	return false
}

func dropsWhitespace(tagName string) bool {
	switch tagName {
	case DocumentTag, "html", "head", "table", "thead", "tbody", "tfoot", "tr", "ul", "ol", "dl", "select":
		return true
	}
	return false
}

// loadLinkStylesheet inlines data: URIs and otherwise asks the fetcher.
func (p *Parser) loadLinkStylesheet(node *Node) {
	rel, _ := node.GetAttribute("rel")
	href, ok := node.GetAttribute("href")
	if !ok || !strings.Contains(strings.ToLower(rel), "stylesheet") {
		return
	}
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "data:text/css,") {
		encoded := href[len("data:text/css,"):]
		decoded, err := url.PathUnescape(encoded)
		if err != nil {
			decoded = encoded
		}
		p.doc.Stylesheets = append(p.doc.Stylesheets, decoded)
		return
	}
	if p.cssFetcher == nil {
		return
	}
	if css, err := p.cssFetcher(href); err == nil && css != "" {
		p.doc.Stylesheets = append(p.doc.Stylesheets, css)
	}
}

func Parse(html string) (*Document, error) {
	return NewParser(html).Parse()
}

// ParseWithFetcher parses html, loading linked stylesheets through fetch.
func ParseWithFetcher(html string, fetch CSSFetcher) (*Document, error) {
	p := NewParser(html)
	p.cssFetcher = fetch
	return p.Parse()
}

// ParseFragment parses html as the content of an element and returns the
// detached top-level nodes.
func ParseFragment(html string) ([]*Node, error) {
	p := NewParser(html)
	p.fragment = true
	doc, err := p.Parse()
	if err != nil {
		return nil, err
	}
	nodes := append([]*Node(nil), doc.Root.Children...)
	for _, n := range nodes {
		n.Parent = nil
	}
	doc.Root.Children = nil
	return nodes, nil
}
