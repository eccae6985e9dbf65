package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/spf13/cobra"

	"cramp/pkg/config"
	"cramp/pkg/html"
	"cramp/pkg/imgdiff"
	"cramp/pkg/session"
)

type clampFlags struct {
	selector   string
	lines      string
	marker     string
	omitMarker bool
	first      bool
	output     string
	pngDir     string
	document   bool
}

// clampReport is one element's outcome as printed by clamp.
type clampReport struct {
	Element      string  `json:"element" yaml:"element"`
	Lines        int     `json:"lines" yaml:"lines"`
	Truncated    bool    `json:"truncated" yaml:"truncated"`
	Checks       int     `json:"checks" yaml:"checks"`
	HeightBefore float64 `json:"height_before" yaml:"height_before"`
	HeightAfter  float64 `json:"height_after" yaml:"height_after"`
	Original     string  `json:"original" yaml:"original"`
	Clamped      *string `json:"clamped" yaml:"clamped"`
}

func (a *app) newClampCmd() *cobra.Command {
	var f clampFlags
	cmd := &cobra.Command{
		Use:   "clamp <file|url|->",
		Short: "Clamp the elements matching a selector",
		Long: `Load a page, lay it out, and clamp every element matching --selector
to the line budget. Prints a report per element, or the clamped document
with --document.

Examples:
  cramp clamp article.html -s '.summary' -l 3
  cramp clamp https://example.com -s 'p' -l 40px -o json
  cramp clamp page.html -s '#teaser' --png out/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(f.output); err != nil {
				return err
			}
			if cmd.Flags().Changed("lines") || cmd.Flags().Changed("marker") {
				a.cfg.ApplyCLIOverrides(config.CLIOverrides{Lines: f.lines, Marker: f.marker})
			}
			if cmd.Flags().Changed("omit-marker") {
				a.cfg.Clamp.OmitMarker = f.omitMarker
			}
			return classify(a.runClamp(cmd, args[0], f))
		},
	}
	cmd.Flags().StringVarP(&f.selector, "selector", "s", "", "CSS selector of the elements to clamp (required)")
	cmd.Flags().StringVarP(&f.lines, "lines", "l", "", "line budget: count, auto, or px/em height (default from config)")
	cmd.Flags().StringVar(&f.marker, "marker", "", "text appended at the cut (default …)")
	cmd.Flags().BoolVar(&f.omitMarker, "omit-marker", false, "truncate without a marker")
	cmd.Flags().BoolVar(&f.first, "first", false, "clamp only the first match")
	cmd.Flags().StringVarP(&f.output, "output", "o", outputText, "report format (text, json, yaml)")
	cmd.Flags().StringVar(&f.pngDir, "png", "", "write before/after PNG snapshots of each element to this directory")
	cmd.Flags().BoolVar(&f.document, "document", false, "print the clamped document instead of a report")
	_ = cmd.MarkFlagRequired("selector")
	return cmd
}

func (a *app) runClamp(cmd *cobra.Command, src string, f clampFlags) error {
	s, err := session.Open(cmd.Context(), a.cfg, src, a.logger)
	if err != nil {
		return err
	}
	nodes, err := s.Select(f.selector)
	if err != nil {
		return err
	}
	if f.first {
		nodes = nodes[:1]
	}

	opts := a.cfg.ClampOptions(a.logger)
	reports := make([]clampReport, 0, len(nodes))
	for i, el := range nodes {
		var before image.Image
		if f.pngDir != "" {
			if before, err = a.snapshot(s, el, f.pngDir, i, "before"); err != nil {
				return err
			}
		}
		heightBefore := s.Engine.ClientHeight(el)
		res, err := s.Clamp(el, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", session.Describe(el), err)
		}
		report := clampReport{
			Element:      session.Describe(el),
			Lines:        res.Lines,
			Truncated:    res.Truncated,
			Checks:       res.Checks,
			HeightBefore: heightBefore,
			HeightAfter:  s.Engine.ClientHeight(el),
			Original:     res.Original,
		}
		if res.Truncated {
			report.Clamped = &res.Clamped
		}
		reports = append(reports, report)
		if f.pngDir != "" {
			after, err := a.snapshot(s, el, f.pngDir, i, "after")
			if err != nil {
				return err
			}
			if err := a.writeDiff(before, after, f.pngDir, i, el); err != nil {
				return err
			}
		}
	}

	out := cmd.OutOrStdout()
	if f.document {
		_, err := fmt.Fprintln(out, s.Page.Doc.Root.Serialize())
		return err
	}
	if f.output != outputText {
		return writeStructured(out, f.output, reports)
	}
	for _, r := range reports {
		if !r.Truncated {
			fmt.Fprintf(out, "%s: fits in %d lines (%d checks)\n", r.Element, r.Lines, r.Checks)
			continue
		}
		fmt.Fprintf(out, "%s: clamped to %d lines (%d checks, %gpx -> %gpx)\n",
			r.Element, r.Lines, r.Checks, r.HeightBefore, r.HeightAfter)
		fmt.Fprintf(out, "  %s\n", strings.TrimSpace(*r.Clamped))
	}
	return nil
}

func snapshotPath(dir string, index int, el *html.Node, stage string) string {
	return filepath.Join(dir, fmt.Sprintf("%d-%s-%s.png", index, fileSafe(session.Describe(el)), stage))
}

// snapshot renders el and writes <dir>/<index>-<element>-<stage>.png.
func (a *app) snapshot(s *session.Session, el *html.Node, dir string, index int, stage string) (image.Image, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := snapshotPath(dir, index, el, stage)
	img, err := s.SaveSnapshot(el, path)
	if err != nil {
		return nil, err
	}
	a.logger.Info("snapshot written", "path", path)
	return img, nil
}

// writeDiff highlights what clamping changed: red where pixels differ, blue
// for the rows the element no longer covers.
func (a *app) writeDiff(before, after image.Image, dir string, index int, el *html.Node) error {
	res, diff := imgdiff.Compare(after, before, imgdiff.Options{})
	path := snapshotPath(dir, index, el, "diff")
	if err := gg.SavePNG(path, diff); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	a.logger.Info("diff written", "path", path, "changed", res.Changed.String(), "pixels", res.DifferentPixels)
	return nil
}

func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
