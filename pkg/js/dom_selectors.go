package js

import (
	"github.com/dop251/goja"

	"cramp/pkg/css"
	"cramp/pkg/html"
)

// throwSyntaxError raises a JS SyntaxError, as the DOM does for a bad
// selector.
func (ctx *domContext) throwSyntaxError(method string, err error) {
	msg := ctx.vm.ToValue(method + ": " + err.Error())
	if ctor, ok := goja.AssertConstructor(ctx.vm.Get("SyntaxError")); ok {
		if obj, cerr := ctor(nil, msg); cerr == nil {
			panic(obj)
		}
	}
	panic(ctx.vm.NewTypeError(msg.String()))
}

func (ctx *domContext) querySelectorFn(root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		found, err := css.QuerySelector(root, call.Argument(0).String())
		if err != nil {
			ctx.throwSyntaxError("querySelector", err)
		}
		return ctx.proxyOrNull(found)
	}
}

func (ctx *domContext) querySelectorAllFn(root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		found, err := css.QuerySelectorAll(root, call.Argument(0).String())
		if err != nil {
			ctx.throwSyntaxError("querySelectorAll", err)
		}
		return ctx.array(found)
	}
}

// matchesAny reports whether n matches a selector of the group.
func matchesAny(n *html.Node, selectors []css.Selector) bool {
	for _, sel := range selectors {
		if css.MatchesSelector(n, sel) {
			return true
		}
	}
	return false
}

func (ctx *domContext) parseGroup(method, group string) []css.Selector {
	selectors, err := css.ParseSelectorGroup(group)
	if err != nil {
		ctx.throwSyntaxError(method, err)
	}
	return selectors
}

func (ctx *domContext) matchesFn(node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		selectors := ctx.parseGroup("matches", call.Argument(0).String())
		return ctx.vm.ToValue(node.Type == html.ElementNode && matchesAny(node, selectors))
	}
}

func (ctx *domContext) closestFn(node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		selectors := ctx.parseGroup("closest", call.Argument(0).String())
		for cur := node; cur != nil; cur = cur.Parent {
			if cur.Type == html.ElementNode && cur.TagName != html.DocumentTag && matchesAny(cur, selectors) {
				return ctx.proxy(cur)
			}
		}
		return goja.Null()
	}
}
