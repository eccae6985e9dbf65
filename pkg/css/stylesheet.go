package css

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSelector is returned for selectors outside the supported
// subset or with broken syntax.
var ErrInvalidSelector = errors.New("invalid selector")

// Combinator joins two compound selectors.
type Combinator int

const (
	DescendantCombinator Combinator = iota // "a b"
	ChildCombinator                        // "a > b"
)

// SelectorPart is one compound selector such as p.note#intro.
type SelectorPart struct {
	Element string // "" or "*" matches any element
	ID      string
	Classes []string
}

// Selector is a complex selector: Parts joined by Combinators, rightmost
// part last.
type Selector struct {
	Raw         string
	Parts       []SelectorPart
	Combinators []Combinator // len(Parts)-1 entries
	Specificity int
}

// Rule represents a CSS rule (selector + declarations)
type Rule struct {
	Selector     Selector
	Declarations map[string]string
	Order        int // source order, breaks specificity ties
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Rules []Rule
}

// ParseStylesheet parses CSS text into rules. Malformed rules and at-rules
// are skipped rather than failing the whole sheet.
func ParseStylesheet(css string) (*Stylesheet, error) {
	stylesheet := &Stylesheet{Rules: make([]Rule, 0)}
	css = stripComments(css)

	order := 0
	for _, block := range splitRules(css) {
		selectorText, body, ok := strings.Cut(block, "{")
		if !ok {
			continue
		}
		selectorText = strings.TrimSpace(selectorText)
		if strings.HasPrefix(selectorText, "@") {
			continue
		}
		body = strings.TrimSuffix(strings.TrimSpace(body), "}")
		declarations := parseDeclarations(body)
		for _, raw := range SplitSelectorGroup(selectorText) {
			sel, err := ParseSelector(raw)
			if err != nil {
				continue
			}
			stylesheet.Rules = append(stylesheet.Rules, Rule{
				Selector:     sel,
				Declarations: declarations,
				Order:        order,
			})
			order++
		}
	}
	return stylesheet, nil
}

func stripComments(css string) string {
	var sb strings.Builder
	for {
		start := strings.Index(css, "/*")
		if start < 0 {
			sb.WriteString(css)
			return sb.String()
		}
		sb.WriteString(css[:start])
		end := strings.Index(css[start+2:], "*/")
		if end < 0 {
			return sb.String()
		}
		css = css[start+2+end+2:]
	}
}

// splitRules splits CSS into top-level "selector { ... }" blocks, keeping
// nested at-rule bodies intact.
func splitRules(css string) []string {
	rules := make([]string, 0)
	depth := 0
	start := 0
	for i, ch := range css {
		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				if block := strings.TrimSpace(css[start : i+1]); block != "" {
					rules = append(rules, block)
				}
				start = i + 1
			}
			if depth < 0 {
				depth = 0
				start = i + 1
			}
		case ';':
			// statement at-rules like @import end at ';' outside blocks
			if depth == 0 {
				start = i + 1
			}
		}
	}
	return rules
}

// SplitSelectorGroup splits "h1, h2 > p" into its comma-separated members.
func SplitSelectorGroup(group string) []string {
	var out []string
	for _, s := range strings.Split(group, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ParseSelector parses a complex selector made of type, #id and .class
// compounds joined by descendant or child combinators.
func ParseSelector(raw string) (Selector, error) {
	raw = strings.TrimSpace(raw)
	sel := Selector{Raw: raw}
	if raw == "" {
		return sel, fmt.Errorf("%w: empty selector", ErrInvalidSelector)
	}

	tokens := strings.Fields(strings.ReplaceAll(raw, ">", " > "))
	pending := DescendantCombinator
	for _, tok := range tokens {
		if tok == ">" {
			if len(sel.Parts) == 0 {
				return sel, fmt.Errorf("%w: %q starts with a combinator", ErrInvalidSelector, raw)
			}
			pending = ChildCombinator
			continue
		}
		part, err := parseCompound(tok)
		if err != nil {
			return sel, fmt.Errorf("selector %q: %w", raw, err)
		}
		if len(sel.Parts) > 0 {
			sel.Combinators = append(sel.Combinators, pending)
		}
		sel.Parts = append(sel.Parts, part)
		pending = DescendantCombinator

		if part.ID != "" {
			sel.Specificity += 100
		}
		sel.Specificity += 10 * len(part.Classes)
		if part.Element != "" && part.Element != "*" {
			sel.Specificity++
		}
	}
	if len(sel.Parts) == 0 || pending == ChildCombinator || len(sel.Combinators) != len(sel.Parts)-1 {
		return sel, fmt.Errorf("%w: %q is incomplete", ErrInvalidSelector, raw)
	}
	return sel, nil
}

func parseCompound(tok string) (SelectorPart, error) {
	var part SelectorPart
	i := 0
	readName := func() string {
		start := i
		for i < len(tok) && tok[i] != '.' && tok[i] != '#' {
			i++
		}
		return tok[start:i]
	}
	if tok[0] != '.' && tok[0] != '#' {
		part.Element = strings.ToLower(readName())
	}
	for i < len(tok) {
		marker := tok[i]
		i++
		name := readName()
		if name == "" {
			return part, fmt.Errorf("%w: empty name after %q", ErrInvalidSelector, marker)
		}
		if strings.ContainsAny(name, ":[]") {
			return part, fmt.Errorf("%w: unsupported syntax in %q", ErrInvalidSelector, tok)
		}
		if marker == '#' {
			part.ID = name
		} else {
			part.Classes = append(part.Classes, name)
		}
	}
	if strings.ContainsAny(part.Element, ":[]") {
		return part, fmt.Errorf("%w: unsupported syntax in %q", ErrInvalidSelector, tok)
	}
	return part, nil
}

func parseDeclarations(declStr string) map[string]string {
	style := NewStyle()
	for _, part := range strings.Split(declStr, ";") {
		property, value, ok := splitDeclaration(part)
		if !ok {
			continue
		}
		expandShorthand(style, property, value)
	}
	return style.Properties
}
