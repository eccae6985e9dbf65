// Command crampview shows an element before and after clamping, with a
// slider for the line budget.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"cramp/pkg/config"
	"cramp/pkg/session"
)

func main() {
	configPath := flag.String("config", "", "config file")
	selector := flag.String("s", "", "CSS selector of the element to preview")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: crampview [flags] <file|url>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 || *selector == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(config.LoadOptions{ExplicitPath: *configPath})
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "crampview:", err)
		os.Exit(1)
	}
	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "crampview:", err)
		os.Exit(1)
	}

	src := flag.Arg(0)
	s, err := session.Open(context.Background(), cfg, src, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "crampview:", err)
		os.Exit(1)
	}
	p, err := newPreviewer(s, *selector)
	if err != nil {
		fmt.Fprintln(os.Stderr, "crampview:", err)
		os.Exit(1)
	}

	initial := 2
	if v, err := strconv.Atoi(cfg.Clamp.Lines); err == nil && v > 0 {
		initial = v
	}

	a := app.New()
	w := a.NewWindow("crampview: " + src)
	w.Resize(fyne.NewSize(900, 600))

	before := canvas.NewImageFromImage(nil)
	before.FillMode = canvas.ImageFillOriginal
	after := canvas.NewImageFromImage(nil)
	after.FillMode = canvas.ImageFillOriginal
	status := widget.NewLabel("")
	linesLabel := widget.NewLabel("")

	update := func(lines int) {
		linesLabel.SetText(fmt.Sprintf("lines: %d", lines))
		go func() {
			f, err := p.frame(lines)
			fyne.Do(func() {
				if err != nil {
					status.SetText("Error: " + err.Error())
					return
				}
				before.Image = f.Before
				before.Refresh()
				after.Image = f.After
				after.Refresh()
				status.SetText(f.status(session.Describe(p.el)))
			})
		}()
	}

	slider := widget.NewSlider(0, 12)
	slider.Step = 1
	slider.SetValue(float64(initial))
	slider.OnChangeEnded = func(v float64) { update(int(v)) }

	panes := container.NewGridWithColumns(2,
		container.NewBorder(widget.NewLabel("before"), nil, nil, nil, container.NewScroll(before)),
		container.NewBorder(widget.NewLabel("after"), nil, nil, nil, container.NewScroll(after)),
	)
	controls := container.NewBorder(nil, nil, linesLabel, nil, slider)
	w.SetContent(container.NewBorder(controls, status, nil, nil, panes))

	update(initial)
	w.ShowAndRun()
}
