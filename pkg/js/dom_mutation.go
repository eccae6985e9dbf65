package js

import (
	"github.com/dop251/goja"

	"cramp/pkg/html"
)

// detach removes n from its current parent, if any, so it can be inserted
// elsewhere.
func detach(n *html.Node) *html.Node {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	return n
}

// nodeOrText converts an append()-style argument: proxies are moved,
// anything else becomes a new text node.
func (a *nodeAccessor) nodeOrText(v goja.Value) *html.Node {
	if n := a.ctx.unwrap(v); n != nil {
		return detach(n)
	}
	return html.NewText(v.String())
}

func (a *nodeAccessor) appendChild(call goja.FunctionCall) goja.Value {
	child := a.ctx.mustNode("appendChild", call.Argument(0))
	if child == a.node || child.Contains(a.node) {
		panic(a.ctx.vm.NewTypeError("appendChild: the new child is an ancestor of the parent"))
	}
	a.node.AddChild(detach(child))
	return a.ctx.proxy(child)
}

func (a *nodeAccessor) removeChild(call goja.FunctionCall) goja.Value {
	child := a.ctx.mustNode("removeChild", call.Argument(0))
	if a.node.RemoveChild(child) == nil {
		panic(a.ctx.vm.NewTypeError("removeChild: the node to be removed is not a child of this node"))
	}
	return a.ctx.proxy(child)
}

func (a *nodeAccessor) insertBefore(call goja.FunctionCall) goja.Value {
	child := a.ctx.mustNode("insertBefore", call.Argument(0))
	ref := a.ctx.unwrap(call.Argument(1))
	if ref != nil && ref.Parent != a.node {
		panic(a.ctx.vm.NewTypeError("insertBefore: the reference node is not a child of this node"))
	}
	if ref == child {
		return a.ctx.proxy(child)
	}
	a.node.InsertBefore(detach(child), ref)
	return a.ctx.proxy(child)
}

func (a *nodeAccessor) append(call goja.FunctionCall) goja.Value {
	for _, arg := range call.Arguments {
		a.node.AddChild(a.nodeOrText(arg))
	}
	return goja.Undefined()
}

func (a *nodeAccessor) replaceChildren(call goja.FunctionCall) goja.Value {
	nodes := make([]*html.Node, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		nodes = append(nodes, a.nodeOrText(arg))
	}
	a.node.ReplaceChildren(nodes...)
	return goja.Undefined()
}

// setInnerHTML parses markup as a fragment and replaces the children.
// Markup that fails to parse leaves the node empty.
func (a *nodeAccessor) setInnerHTML(markup string) {
	if a.node.Type != html.ElementNode {
		return
	}
	nodes, err := html.ParseFragment(markup)
	if err != nil {
		a.ctx.logger.Warn("innerHTML parse failed", "error", err)
		nodes = nil
	}
	a.node.ReplaceChildren(nodes...)
}
