package js

import "cramp/pkg/html"

func elementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for _, c := range n.Children {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func sibling(n *html.Node, offset int) *html.Node {
	if n.Parent == nil {
		return nil
	}
	i := n.IndexInParent() + offset
	if i < 0 || i >= len(n.Parent.Children) {
		return nil
	}
	return n.Parent.Children[i]
}

func withoutNode(nodes []*html.Node, skip *html.Node) []*html.Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n != skip {
			out = append(out, n)
		}
	}
	return out
}
