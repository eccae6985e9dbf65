package main

import (
	"fmt"
	"image"
	"sync"

	"cramp/pkg/clamp"
	"cramp/pkg/html"
	"cramp/pkg/session"
)

// previewer clamps one element repeatedly at different budgets. Every
// frame starts from the element's original content. Frames may be requested
// from several goroutines; mu serializes them since each one rewrites el.
type previewer struct {
	mu       sync.Mutex
	session  *session.Session
	el       *html.Node
	original string
	marker   string
}

func newPreviewer(s *session.Session, selector string) (*previewer, error) {
	nodes, err := s.Select(selector)
	if err != nil {
		return nil, err
	}
	el := nodes[0]
	return &previewer{
		session:  s,
		el:       el,
		original: el.Serialize(),
		marker:   s.Config.Clamp.Marker,
	}, nil
}

type frame struct {
	Before image.Image
	After  image.Image
	Result clamp.Result
}

func (p *previewer) frame(lines int) (frame, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := clamp.Restore(p.el, p.original); err != nil {
		return frame{}, err
	}
	before, err := p.session.Snapshot(p.el)
	if err != nil {
		return frame{}, err
	}
	res, err := p.session.Clamp(p.el, clamp.Options{
		Lines:      fmt.Sprint(lines),
		Marker:     p.marker,
		OmitMarker: p.session.Config.Clamp.OmitMarker,
	})
	if err != nil {
		return frame{}, err
	}
	after, err := p.session.Snapshot(p.el)
	if err != nil {
		return frame{}, err
	}
	return frame{Before: before, After: after, Result: res}, nil
}

func (f frame) status(el string) string {
	if !f.Result.Truncated {
		return fmt.Sprintf("%s fits in %d lines", el, f.Result.Lines)
	}
	return fmt.Sprintf("%s clamped to %d lines after %d checks", el, f.Result.Lines, f.Result.Checks)
}
