package text

import "strings"

// RunKind classifies a piece of inline content.
type RunKind int

const (
	Word   RunKind = iota // unbreakable text
	Space                 // a break opportunity; hangs at the end of a line
	Break                 // forced line break (<br> or a preserved newline)
	Atomic                // replaced or inline-block content
)

// Run is one measured piece of inline content. Glue marks a Word or Atomic
// that has no break opportunity before it, e.g. "foo<b>bar</b>".
type Run struct {
	Kind   RunKind
	Text   string
	Width  float64
	Height float64
	Glue   bool
	Ref    int // caller defined
}

// Line is a filled line. Width excludes trailing spaces.
type Line struct {
	Runs  []Run
	Width float64
}

// epsilon absorbs float error when a line fits exactly.
const epsilon = 0.01

// FillLines greedily packs runs into lines. The first line may have a
// different width from the rest (text following a float or an inline
// start). Spaces at the start of a line are dropped; a word wider than the
// line overflows on a line of its own.
func FillLines(runs []Run, firstMax, restMax float64) []Line {
	var lines []Line
	var cur Line
	var pending []Run
	pendingWidth := 0.0
	maxWidth := firstMax

	flush := func() {
		lines = append(lines, cur)
		cur = Line{}
		pending, pendingWidth = nil, 0
		maxWidth = restMax
	}

	for i := 0; i < len(runs); {
		r := runs[i]
		switch r.Kind {
		case Break:
			cur.Runs = append(cur.Runs, r)
			flush()
			i++
			continue
		case Space:
			if len(cur.Runs) > 0 {
				pending = append(pending, r)
				pendingWidth += r.Width
			}
			i++
			continue
		}

		j := i + 1
		width := r.Width
		for j < len(runs) && runs[j].Glue && (runs[j].Kind == Word || runs[j].Kind == Atomic) {
			width += runs[j].Width
			j++
		}
		if len(cur.Runs) > 0 && cur.Width+pendingWidth+width > maxWidth+epsilon {
			flush()
		}
		if len(cur.Runs) > 0 {
			cur.Runs = append(cur.Runs, pending...)
			cur.Width += pendingWidth
		}
		pending, pendingWidth = nil, 0
		cur.Runs = append(cur.Runs, runs[i:j]...)
		cur.Width += width
		i = j
	}
	if len(cur.Runs) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

// SplitWords turns collapsed text into alternating Word and Space runs.
func SplitWords(s string, m Measurer, face Face) []Run {
	var runs []Run
	spaceWidth := m.Measure(" ", face)
	for len(s) > 0 {
		if s[0] == ' ' {
			runs = append(runs, Run{Kind: Space, Text: " ", Width: spaceWidth})
			s = s[1:]
			continue
		}
		end := strings.IndexByte(s, ' ')
		if end < 0 {
			end = len(s)
		}
		word := s[:end]
		runs = append(runs, Run{Kind: Word, Text: word, Width: m.Measure(word, face)})
		s = s[end:]
	}
	return runs
}
