package js

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dop251/goja"
)

// registerConsole routes console.log/info/debug/warn/error to logger.
func registerConsole(vm *goja.Runtime, logger *slog.Logger) {
	logger = logger.With("source", "console")
	level := func(l slog.Level) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			logger.Log(context.Background(), l, formatArgs(call.Arguments))
			return goja.Undefined()
		}
	}
	console := vm.NewObject()
	console.Set("log", level(slog.LevelInfo))
	console.Set("info", level(slog.LevelInfo))
	console.Set("debug", level(slog.LevelDebug))
	console.Set("warn", level(slog.LevelWarn))
	console.Set("error", level(slog.LevelError))
	vm.Set("console", console)
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}
