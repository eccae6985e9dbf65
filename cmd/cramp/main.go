// Package main provides the cramp CLI: clamp, measure and script HTML pages
// with the built-in layout engine.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"cramp/pkg/clamp"
	"cramp/pkg/config"
	"cramp/pkg/css"
	"cramp/pkg/js"
	"cramp/pkg/session"
)

// Output format constants.
const (
	outputJSON = "json"
	outputYAML = "yaml"
	outputText = "text"
)

// Exit codes:
//   - exitValidation: bad flags, selector, clamp value or configuration
//   - exitNotFound: the selector matched nothing
//   - exitIO: the page could not be loaded or a file could not be written
//   - exitScript: a page script failed or timed out
const (
	exitValidation = 1
	exitNotFound   = 2
	exitIO         = 3
	exitScript     = 4
)

// ExitError is an error that carries a specific exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// classify attaches the exit code matching err's cause.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var exitError *ExitError
	if errors.As(err, &exitError) {
		return err
	}
	code := exitIO
	switch {
	case errors.Is(err, session.ErrNotFound):
		code = exitNotFound
	case errors.Is(err, clamp.ErrInvalidValue),
		errors.Is(err, clamp.ErrNotElement),
		errors.Is(err, session.ErrNotBlock),
		errors.Is(err, css.ErrInvalidSelector),
		errors.Is(err, config.ErrInvalidConfig):
		code = exitValidation
	case errors.Is(err, js.ErrInterrupted), errors.Is(err, errScript):
		code = exitScript
	}
	return &ExitError{Code: code, Err: err}
}

var errScript = errors.New("script failed")

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		var exitError *ExitError
		code := exitValidation
		if errors.As(err, &exitError) {
			code = exitError.Code
		}
		fmt.Fprintln(os.Stderr, "cramp:", err)
		os.Exit(code)
	}
}

// app holds the global flags and the state loaded from them.
type app struct {
	configPath    string
	logLevel      string
	viewportWidth int
	fontDir       string
	measurer      string

	stdout io.Writer
	stderr io.Writer

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "cramp",
		Short: "Clamp HTML content to a number of rendered lines",
		Long: `cramp lays out an HTML page with its built-in engine and truncates
the content of selected elements until it fits a line budget, ending it
with a marker such as an ellipsis.

Budgets are a line count, "auto" (whatever fits the element's current
height) or a px/em height that is converted to whole lines.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return classify(a.initConfig())
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: .cramp.yaml, then ~/.config/cramp/config.yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.IntVar(&a.viewportWidth, "viewport-width", 0, "viewport width in pixels")
	flags.StringVar(&a.fontDir, "font-dir", "", "directory with regular/bold/italic/mono .ttf files")
	flags.StringVar(&a.measurer, "measurer", "", "text measurer: font or fixed (1em per character)")

	root.AddCommand(a.newClampCmd())
	root.AddCommand(a.newMeasureCmd())
	root.AddCommand(a.newRunCmd())
	root.AddCommand(a.newConfigCmd())
	return root
}

// initConfig loads the configuration with proper precedence and builds
// the logger. Called early via PersistentPreRunE on the root command.
func (a *app) initConfig() error {
	cfg, err := config.Load(config.LoadOptions{ExplicitPath: a.configPath})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyCLIOverrides(config.CLIOverrides{
		ViewportWidth: a.viewportWidth,
		Measurer:      a.measurer,
		LogLevel:      a.logLevel,
	})
	if a.fontDir != "" {
		cfg.Layout.FontDir = a.fontDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := cfg.NewLogger(a.stderr)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}
