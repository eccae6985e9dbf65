package text

import "unicode/utf8"

// Face selects a font variant at a pixel size.
type Face struct {
	Size   float64
	Bold   bool
	Italic bool
	Mono   bool
}

// Measurer reports the advance width of a string set in face.
type Measurer interface {
	Measure(s string, face Face) float64
}

// FixedMeasurer gives every rune the same advance of Ratio * size, like the
// Ahem test font where all glyphs are 1em squares. Ratio 0 means 1.
type FixedMeasurer struct {
	Ratio float64
}

func (m FixedMeasurer) Measure(s string, face Face) float64 {
	ratio := m.Ratio
	if ratio == 0 {
		ratio = 1
	}
	return float64(utf8.RuneCountInString(s)) * ratio * face.Size
}
