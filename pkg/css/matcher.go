package css

import (
	"cramp/pkg/html"
)

// MatchesSelector returns true if the node matches the complex selector
func MatchesSelector(node *html.Node, selector Selector) bool {
	if node.Type != html.ElementNode || len(selector.Parts) == 0 {
		return false
	}
	return matchesFrom(node, selector, len(selector.Parts)-1)
}

// matchesFrom matches part partIndex against node and then walks leftwards
// through the combinators.
func matchesFrom(node *html.Node, selector Selector, partIndex int) bool {
	if !matchesPart(node, selector.Parts[partIndex]) {
		return false
	}
	if partIndex == 0 {
		return true
	}
	switch selector.Combinators[partIndex-1] {
	case ChildCombinator:
		parent := node.Parent
		return parent != nil && parent.TagName != html.DocumentTag && matchesFrom(parent, selector, partIndex-1)
	default:
		for ancestor := node.Parent; ancestor != nil && ancestor.TagName != html.DocumentTag; ancestor = ancestor.Parent {
			if matchesFrom(ancestor, selector, partIndex-1) {
				return true
			}
		}
		return false
	}
}

func matchesPart(node *html.Node, part SelectorPart) bool {
	if part.Element != "" && part.Element != "*" && node.TagName != part.Element {
		return false
	}
	if part.ID != "" {
		if id, ok := node.GetAttribute("id"); !ok || id != part.ID {
			return false
		}
	}
	for _, cls := range part.Classes {
		if !node.HasClass(cls) {
			return false
		}
	}
	return true
}

// FindMatchingRules returns all rules that match the given node
func FindMatchingRules(node *html.Node, stylesheet *Stylesheet) []Rule {
	matches := make([]Rule, 0)
	for _, rule := range stylesheet.Rules {
		if MatchesSelector(node, rule.Selector) {
			matches = append(matches, rule)
		}
	}
	return matches
}

// QuerySelectorAll returns descendants of root (excluding root) matching any
// selector in the comma-separated group, in document order.
func QuerySelectorAll(root *html.Node, group string) ([]*html.Node, error) {
	selectors, err := ParseSelectorGroup(group)
	if err != nil {
		return nil, err
	}
	var results []*html.Node
	html.Walk(root, func(n *html.Node) bool {
		if n == root {
			return false
		}
		for _, sel := range selectors {
			if MatchesSelector(n, sel) {
				results = append(results, n)
				break
			}
		}
		return false
	})
	return results, nil
}

// QuerySelector returns the first match under root, or nil.
func QuerySelector(root *html.Node, group string) (*html.Node, error) {
	selectors, err := ParseSelectorGroup(group)
	if err != nil {
		return nil, err
	}
	var found *html.Node
	html.Walk(root, func(n *html.Node) bool {
		if n == root {
			return false
		}
		for _, sel := range selectors {
			if MatchesSelector(n, sel) {
				found = n
				return true
			}
		}
		return false
	})
	return found, nil
}

// ParseSelectorGroup parses a comma-separated selector group.
func ParseSelectorGroup(group string) ([]Selector, error) {
	raw := SplitSelectorGroup(group)
	if len(raw) == 0 {
		_, err := ParseSelector("")
		return nil, err
	}
	selectors := make([]Selector, 0, len(raw))
	for _, r := range raw {
		sel, err := ParseSelector(r)
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, sel)
	}
	return selectors, nil
}
