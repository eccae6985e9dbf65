// Package js runs page scripts with goja against a cramp document. Scripts
// see a small DOM (document, element proxies, window.getComputedStyle) and
// the global $cramp function.
package js

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dop251/goja"

	"cramp/pkg/clamp"
	"cramp/pkg/html"
)

var (
	ErrInterrupted = errors.New("script interrupted")
	ErrNoGeometry  = errors.New("no geometry available")
)

// Engine executes JavaScript against an HTML document's DOM.
type Engine struct {
	vm      *goja.Runtime
	logger  *slog.Logger
	geom    clamp.Geometry
	timeout time.Duration
	dom     *domContext
}

type Option func(*Engine)

// WithGeometry sets the measurements behind clientHeight, getComputedStyle
// and $cramp.
func WithGeometry(geom clamp.Geometry) Option {
	return func(e *Engine) { e.geom = geom }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithTimeout bounds each script's run time. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// New creates a new JS engine with a fresh goja runtime.
func New(opts ...Option) *Engine {
	e := &Engine{vm: goja.New(), logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	registerConsole(e.vm, e.logger)
	return e
}

// Bind exposes doc to scripts. Execute and Run call it when a different
// document is passed.
func (e *Engine) Bind(doc *html.Document) {
	if e.dom != nil && e.dom.doc == doc {
		return
	}
	e.dom = registerDocument(e.vm, doc, e.geom, e.logger)
}

// Execute runs the document's scripts in order and stops at the first
// failing one.
func (e *Engine) Execute(ctx context.Context, doc *html.Document) error {
	e.Bind(doc)
	for i, script := range doc.Scripts {
		if _, err := e.run(ctx, fmt.Sprintf("script-%d.js", i), script); err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
	}
	return nil
}

// Run evaluates src against doc and returns the completion value exported
// to Go (nil for undefined).
func (e *Engine) Run(ctx context.Context, doc *html.Document, src string) (any, error) {
	e.Bind(doc)
	v, err := e.run(ctx, "eval.js", src)
	if err != nil {
		return nil, err
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}
	if n := e.dom.unwrap(v); n != nil {
		return n, nil
	}
	return v.Export(), nil
}

func (e *Engine) run(ctx context.Context, name, src string) (goja.Value, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	e.vm.ClearInterrupt()
	stop := context.AfterFunc(ctx, func() { e.vm.Interrupt(ctx.Err()) })
	defer stop()

	v, err := e.vm.RunScript(name, src)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return nil, fmt.Errorf("%w: %v", ErrInterrupted, interrupted.Value())
		}
		return nil, err
	}
	return v, nil
}
