package js

import (
	"errors"
	"strconv"

	"github.com/dop251/goja"

	"cramp/pkg/clamp"
)

// registerCramp installs $cramp(element, options) on the global object.
//
// options.cramp is a line count, "auto", or a px/em height; a falsy value
// means the default. options.truncationChar replaces the ellipsis. The
// result is {original, cramped} where cramped is null when nothing was cut.
func registerCramp(ctx *domContext) {
	ctx.vm.Set("$cramp", func(call goja.FunctionCall) goja.Value {
		el := ctx.mustNode("$cramp", call.Argument(0))
		if ctx.geom == nil {
			panic(ctx.vm.NewGoError(ErrNoGeometry))
		}
		opts := crampOptions(ctx.vm, call.Argument(1))
		opts.Logger = ctx.logger

		res, err := clamp.Clamp(el, ctx.geom, opts)
		if err != nil {
			if errors.Is(err, clamp.ErrInvalidValue) || errors.Is(err, clamp.ErrNotElement) {
				panic(ctx.vm.NewTypeError("$cramp: " + err.Error()))
			}
			panic(ctx.vm.NewGoError(err))
		}

		out := ctx.vm.NewObject()
		out.Set("original", res.Original)
		if res.Truncated {
			out.Set("cramped", res.Clamped)
		} else {
			out.Set("cramped", goja.Null())
		}
		return out
	})
}

func crampOptions(vm *goja.Runtime, arg goja.Value) clamp.Options {
	var opts clamp.Options
	if goja.IsUndefined(arg) || goja.IsNull(arg) {
		return opts
	}
	obj := arg.ToObject(vm)
	if v := obj.Get("cramp"); v != nil && v.ToBoolean() {
		switch n := v.Export().(type) {
		case int64:
			opts.Lines = strconv.FormatInt(n, 10)
		case float64:
			// parseInt semantics for numeric budgets
			opts.Lines = strconv.Itoa(int(n))
		default:
			opts.Lines = v.String()
		}
	}
	if v := obj.Get("truncationChar"); v != nil && v.ToBoolean() {
		opts.Marker = v.String()
	}
	if v := obj.Get("omitMarker"); v != nil {
		opts.OmitMarker = v.ToBoolean()
	}
	return opts
}
