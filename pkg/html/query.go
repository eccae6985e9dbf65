package html

// GetElementByID returns the first element under root whose id matches.
func GetElementByID(root *Node, id string) *Node {
	var found *Node
	Walk(root, func(n *Node) bool {
		if n.Type == ElementNode {
			if val, ok := n.Attributes["id"]; ok && val == id {
				found = n
				return true
			}
		}
		return false
	})
	return found
}

// GetElementsByTagName collects elements with the given tag in document order.
func GetElementsByTagName(root *Node, tag string) []*Node {
	var result []*Node
	Walk(root, func(n *Node) bool {
		if n.Type == ElementNode && n.TagName == tag {
			result = append(result, n)
		}
		return false
	})
	return result
}

// GetElementsByClassName collects elements carrying cls in document order.
func GetElementsByClassName(root *Node, cls string) []*Node {
	var result []*Node
	Walk(root, func(n *Node) bool {
		if n.Type == ElementNode && n.HasClass(cls) {
			result = append(result, n)
		}
		return false
	})
	return result
}

// Body returns the <body> element, or the document root when there is none.
func (d *Document) Body() *Node {
	if body := GetElementsByTagName(d.Root, "body"); len(body) > 0 {
		return body[0]
	}
	return d.Root
}
