package js

import (
	"log/slog"
	"strings"

	"github.com/dop251/goja"

	"cramp/pkg/clamp"
	"cramp/pkg/css"
	"cramp/pkg/html"
)

// DOM node type constants as scripts see them.
const (
	elementNodeType = 1
	textNodeType    = 3
)

// StyleSource is implemented by geometries that expose computed styles,
// such as *layout.Engine. window.getComputedStyle needs it.
type StyleSource interface {
	StyleOf(n *html.Node) *css.Style
}

// domContext holds shared state for DOM bindings of one document. Proxies
// are cached per node so scripts can compare them with ===.
type domContext struct {
	vm      *goja.Runtime
	doc     *html.Document
	geom    clamp.Geometry
	logger  *slog.Logger
	proxies map[*html.Node]*goja.Object
	nodes   map[*goja.Object]*html.Node
}

// registerDocument sets the globals document, window, Node, Text and $cramp.
func registerDocument(vm *goja.Runtime, doc *html.Document, geom clamp.Geometry, logger *slog.Logger) *domContext {
	ctx := &domContext{
		vm:      vm,
		doc:     doc,
		geom:    geom,
		logger:  logger,
		proxies: make(map[*html.Node]*goja.Object),
		nodes:   make(map[*goja.Object]*html.Node),
	}

	docObj := vm.NewObject()
	docObj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		return ctx.proxyOrNull(html.GetElementByID(doc.Root, call.Argument(0).String()))
	})
	docObj.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		return ctx.array(html.GetElementsByTagName(doc.Root, strings.ToLower(call.Argument(0).String())))
	})
	docObj.Set("getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		return ctx.array(html.GetElementsByClassName(doc.Root, call.Argument(0).String()))
	})
	docObj.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(vm.NewTypeError("createElement: 1 argument required"))
		}
		return ctx.proxy(html.NewElement(call.Arguments[0].String(), nil))
	})
	docObj.Set("createTextNode", func(call goja.FunctionCall) goja.Value {
		return ctx.proxy(html.NewText(stringArg(call.Arguments, 0)))
	})
	docObj.Set("querySelector", ctx.querySelectorFn(doc.Root))
	docObj.Set("querySelectorAll", ctx.querySelectorAllFn(doc.Root))
	ctx.defineGetter(docObj, "body", func() goja.Value {
		if body := doc.Body(); body != doc.Root {
			return ctx.proxy(body)
		}
		return goja.Null()
	})
	ctx.defineGetter(docObj, "documentElement", func() goja.Value {
		for _, child := range doc.Root.Children {
			if child.Type == html.ElementNode {
				return ctx.proxy(child)
			}
		}
		return goja.Null()
	})
	vm.Set("document", docObj)

	nodeObj := vm.NewObject()
	nodeObj.Set("ELEMENT_NODE", elementNodeType)
	nodeObj.Set("TEXT_NODE", textNodeType)
	vm.Set("Node", nodeObj)

	vm.Set("Text", func(call goja.ConstructorCall) *goja.Object {
		return ctx.proxy(html.NewText(stringArg(call.Arguments, 0)))
	})

	window := vm.GlobalObject()
	window.Set("window", window)
	window.Set("getComputedStyle", ctx.getComputedStyle)
	registerCramp(ctx)
	return ctx
}

func stringArg(args []goja.Value, i int) string {
	if i >= len(args) || goja.IsUndefined(args[i]) || goja.IsNull(args[i]) {
		return ""
	}
	return args[i].String()
}

func (ctx *domContext) defineGetter(obj *goja.Object, name string, get func() goja.Value) {
	getter := ctx.vm.ToValue(func(goja.FunctionCall) goja.Value { return get() })
	if err := obj.DefineAccessorProperty(name, getter, nil, goja.FLAG_TRUE, goja.FLAG_TRUE); err != nil {
		ctx.logger.Warn("define getter", "name", name, "error", err)
	}
}

// proxy creates (or retrieves from cache) the JS object wrapping node.
func (ctx *domContext) proxy(node *html.Node) *goja.Object {
	if obj, ok := ctx.proxies[node]; ok {
		return obj
	}
	obj := ctx.vm.NewDynamicObject(&nodeAccessor{ctx: ctx, node: node})
	ctx.proxies[node] = obj
	ctx.nodes[obj] = node
	return obj
}

func (ctx *domContext) proxyOrNull(node *html.Node) goja.Value {
	if node == nil {
		return goja.Null()
	}
	return ctx.proxy(node)
}

// unwrap returns the node behind a proxy, or nil for any other value.
func (ctx *domContext) unwrap(val goja.Value) *html.Node {
	obj, ok := val.(*goja.Object)
	if !ok {
		return nil
	}
	return ctx.nodes[obj]
}

// mustNode is unwrap for method arguments that have to be nodes.
func (ctx *domContext) mustNode(method string, val goja.Value) *html.Node {
	n := ctx.unwrap(val)
	if n == nil {
		panic(ctx.vm.NewTypeError("%s: parameter is not a Node", method))
	}
	return n
}

// array creates a JS array of node proxies.
func (ctx *domContext) array(nodes []*html.Node) goja.Value {
	values := make([]any, len(nodes))
	for i, n := range nodes {
		values[i] = ctx.proxy(n)
	}
	return ctx.vm.NewArray(values...)
}

func (ctx *domContext) getComputedStyle(call goja.FunctionCall) goja.Value {
	node := ctx.mustNode("getComputedStyle", call.Argument(0))
	var style *css.Style
	if src, ok := ctx.geom.(StyleSource); ok {
		style = src.StyleOf(node)
	}
	obj := ctx.vm.NewObject()
	obj.Set("getPropertyValue", func(call goja.FunctionCall) goja.Value {
		if style == nil {
			return ctx.vm.ToValue("")
		}
		v, _ := style.Get(strings.ToLower(call.Argument(0).String()))
		return ctx.vm.ToValue(v)
	})
	return obj
}

// nodeAccessor implements goja.DynamicObject for element and text proxies.
type nodeAccessor struct {
	ctx  *domContext
	node *html.Node
}

var nodeKeys = []string{
	"nodeType", "nodeName", "nodeValue", "data", "tagName", "id", "className",
	"textContent", "innerHTML", "outerHTML", "style", "clientHeight",
	"getAttribute", "setAttribute", "hasAttribute", "removeAttribute",
	"children", "childNodes", "childElementCount", "parentNode", "parentElement",
	"firstChild", "lastChild", "nextSibling", "previousSibling",
	"appendChild", "removeChild", "insertBefore", "remove", "append", "replaceChildren",
	"cloneNode", "contains", "hasChildNodes",
	"querySelector", "querySelectorAll", "matches", "closest",
	"getElementsByTagName", "getElementsByClassName",
}

func (a *nodeAccessor) Get(key string) goja.Value {
	vm := a.ctx.vm
	n := a.node
	isText := n.Type == html.TextNode

	switch key {
	case "nodeType":
		if isText {
			return vm.ToValue(textNodeType)
		}
		return vm.ToValue(elementNodeType)
	case "nodeName", "tagName":
		if isText {
			if key == "tagName" {
				return goja.Undefined()
			}
			return vm.ToValue("#text")
		}
		return vm.ToValue(strings.ToUpper(n.TagName))
	case "nodeValue", "data":
		if isText {
			return vm.ToValue(n.Text)
		}
		return goja.Null()
	case "id", "className":
		name := key
		if key == "className" {
			name = "class"
		}
		v, _ := n.GetAttribute(name)
		return vm.ToValue(v)
	case "textContent":
		return vm.ToValue(n.TextContent())
	case "innerHTML":
		return vm.ToValue(n.Serialize())
	case "outerHTML":
		return vm.ToValue(n.SerializeOuter())
	case "style":
		return vm.NewDynamicObject(&styleAccessor{vm: vm, node: n})
	case "clientHeight":
		if a.ctx.geom == nil || isText {
			return vm.ToValue(0)
		}
		return vm.ToValue(a.ctx.geom.ClientHeight(n))

	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			v, ok := n.GetAttribute(call.Argument(0).String())
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(v)
		})
	case "setAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			n.SetAttribute(call.Argument(0).String(), call.Argument(1).String())
			return goja.Undefined()
		})
	case "hasAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			_, ok := n.GetAttribute(call.Argument(0).String())
			return vm.ToValue(ok)
		})
	case "removeAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			delete(n.Attributes, call.Argument(0).String())
			return goja.Undefined()
		})

	case "children":
		return a.ctx.array(elementChildren(n))
	case "childNodes":
		return a.ctx.array(n.Children)
	case "childElementCount":
		return vm.ToValue(len(elementChildren(n)))
	case "parentNode", "parentElement":
		if n.Parent == nil || n.Parent.TagName == html.DocumentTag {
			return goja.Null()
		}
		return a.ctx.proxy(n.Parent)
	case "firstChild":
		return a.ctx.proxyOrNull(n.FirstChild())
	case "lastChild":
		return a.ctx.proxyOrNull(n.LastChild())
	case "nextSibling":
		return a.ctx.proxyOrNull(sibling(n, 1))
	case "previousSibling":
		return a.ctx.proxyOrNull(sibling(n, -1))

	case "appendChild":
		return vm.ToValue(a.appendChild)
	case "removeChild":
		return vm.ToValue(a.removeChild)
	case "insertBefore":
		return vm.ToValue(a.insertBefore)
	case "remove":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			if n.Parent != nil {
				n.Parent.RemoveChild(n)
			}
			return goja.Undefined()
		})
	case "append":
		return vm.ToValue(a.append)
	case "replaceChildren":
		return vm.ToValue(a.replaceChildren)
	case "cloneNode":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return a.ctx.proxy(n.CloneNode(call.Argument(0).ToBoolean()))
		})
	case "contains":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			other := a.ctx.unwrap(call.Argument(0))
			return vm.ToValue(other != nil && n.Contains(other))
		})
	case "hasChildNodes":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			return vm.ToValue(len(n.Children) > 0)
		})

	case "querySelector":
		return vm.ToValue(a.ctx.querySelectorFn(n))
	case "querySelectorAll":
		return vm.ToValue(a.ctx.querySelectorAllFn(n))
	case "matches":
		return vm.ToValue(a.ctx.matchesFn(n))
	case "closest":
		return vm.ToValue(a.ctx.closestFn(n))
	case "getElementsByTagName":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			found := html.GetElementsByTagName(n, strings.ToLower(call.Argument(0).String()))
			return a.ctx.array(withoutNode(found, n))
		})
	case "getElementsByClassName":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			found := html.GetElementsByClassName(n, call.Argument(0).String())
			return a.ctx.array(withoutNode(found, n))
		})
	}
	return goja.Undefined()
}

func (a *nodeAccessor) Set(key string, val goja.Value) bool {
	n := a.node
	switch key {
	case "nodeValue", "data":
		if n.Type == html.TextNode {
			n.Text = val.String()
		}
		return true
	case "textContent":
		if n.Type == html.TextNode {
			n.Text = val.String()
			return true
		}
		n.ReplaceChildren()
		n.AppendText(val.String())
		return true
	case "innerHTML":
		a.setInnerHTML(val.String())
		return true
	case "id":
		n.SetAttribute("id", val.String())
		return true
	case "className":
		n.SetAttribute("class", val.String())
		return true
	}
	return false
}

func (a *nodeAccessor) Has(key string) bool {
	for _, k := range nodeKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (a *nodeAccessor) Delete(string) bool { return false }

func (a *nodeAccessor) Keys() []string { return nodeKeys }

// styleAccessor maps camelCase property access onto the inline style
// attribute, keeping declaration order.
type styleAccessor struct {
	vm   *goja.Runtime
	node *html.Node
}

type declaration struct{ prop, value string }

func (s *styleAccessor) decls() []declaration {
	attr, _ := s.node.GetAttribute("style")
	var out []declaration
	for _, part := range strings.Split(attr, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		out = append(out, declaration{strings.TrimSpace(strings.ToLower(prop)), strings.TrimSpace(value)})
	}
	return out
}

func (s *styleAccessor) write(decls []declaration) {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.prop+": "+d.value)
	}
	if len(parts) == 0 {
		delete(s.node.Attributes, "style")
		return
	}
	s.node.SetAttribute("style", strings.Join(parts, "; "))
}

func (s *styleAccessor) Get(key string) goja.Value {
	prop := camelToKebab(key)
	for _, d := range s.decls() {
		if d.prop == prop {
			return s.vm.ToValue(d.value)
		}
	}
	return s.vm.ToValue("")
}

func (s *styleAccessor) Set(key string, val goja.Value) bool {
	prop, value := camelToKebab(key), val.String()
	decls := s.decls()
	for i := range decls {
		if decls[i].prop == prop {
			decls[i].value = value
			s.write(decls)
			return true
		}
	}
	s.write(append(decls, declaration{prop, value}))
	return true
}

func (s *styleAccessor) Has(key string) bool { return true }

func (s *styleAccessor) Delete(key string) bool {
	prop := camelToKebab(key)
	decls := s.decls()
	kept := decls[:0]
	for _, d := range decls {
		if d.prop != prop {
			kept = append(kept, d)
		}
	}
	s.write(kept)
	return true
}

func (s *styleAccessor) Keys() []string {
	var keys []string
	for _, d := range s.decls() {
		keys = append(keys, d.prop)
	}
	return keys
}

// camelToKebab converts a JS camelCase property name to CSS kebab-case.
func camelToKebab(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			sb.WriteByte('-')
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
