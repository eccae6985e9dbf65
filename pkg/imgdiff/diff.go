// Package imgdiff compares rendered snapshots pixel by pixel.
package imgdiff

import (
	"image"
	"image/color"
)

type Options struct {
	// Tolerance is the largest per-channel difference (0-255) still counted
	// as equal.
	Tolerance int
	// FuzzyRadius lets a pixel match any pixel of the other image within
	// this many pixels. 0 means exact positions.
	FuzzyRadius int
}

type Result struct {
	Match           bool
	DifferentPixels int
	TotalPixels     int
	MaxDifference   int
	// Changed bounds every differing pixel; empty when Match is true.
	Changed image.Rectangle
}

// DifferentPercent is the share of differing pixels, 0-100.
func (r Result) DifferentPercent() float64 {
	if r.TotalPixels == 0 {
		return 0
	}
	return float64(r.DifferentPixels) / float64(r.TotalPixels) * 100
}

var (
	diffColor    = color.RGBA{255, 0, 0, 255}
	missingColor = color.RGBA{0, 0, 255, 255}
)

// Compare compares a and b over the union of their bounds. Pixels present
// in only one image always differ. The returned image shows matching pixels
// as grayscale, differing ones red, and ones missing from a image blue.
func Compare(a, b image.Image, opts Options) (Result, *image.RGBA) {
	ab, bb := a.Bounds(), b.Bounds()
	union := ab.Union(bb)
	out := image.NewRGBA(union)
	res := Result{Match: true, TotalPixels: union.Dx() * union.Dy()}

	for y := union.Min.Y; y < union.Max.Y; y++ {
		for x := union.Min.X; x < union.Max.X; x++ {
			p := image.Pt(x, y)
			inA, inB := p.In(ab), p.In(bb)
			if !inA || !inB {
				res.mark(p)
				if inB {
					out.Set(x, y, missingColor)
				} else {
					out.Set(x, y, diffColor)
				}
				continue
			}
			d := channelDiff(a.At(x, y), b.At(x, y))
			res.MaxDifference = max(res.MaxDifference, d)
			if d > opts.Tolerance && !(opts.FuzzyRadius > 0 && fuzzyMatch(a, b, p, opts)) {
				res.mark(p)
				out.Set(x, y, diffColor)
				continue
			}
			out.Set(x, y, color.GrayModel.Convert(a.At(x, y)))
		}
	}
	return res, out
}

func (r *Result) mark(p image.Point) {
	r.Match = false
	r.DifferentPixels++
	px := image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))}
	if r.Changed.Empty() {
		r.Changed = px
		return
	}
	r.Changed = r.Changed.Union(px)
}

// fuzzyMatch reports whether a's pixel at p matches any pixel of b within
// the radius.
func fuzzyMatch(a, b image.Image, p image.Point, opts Options) bool {
	bounds := b.Bounds()
	c := a.At(p.X, p.Y)
	for dy := -opts.FuzzyRadius; dy <= opts.FuzzyRadius; dy++ {
		for dx := -opts.FuzzyRadius; dx <= opts.FuzzyRadius; dx++ {
			q := p.Add(image.Pt(dx, dy))
			if q.In(bounds) && channelDiff(c, b.At(q.X, q.Y)) <= opts.Tolerance {
				return true
			}
		}
	}
	return false
}

// channelDiff is the largest 8-bit channel difference between two colors.
func channelDiff(c1, c2 color.Color) int {
	r1, g1, b1, a1 := c1.RGBA()
	r2, g2, b2, a2 := c2.RGBA()
	return max(
		absDiff(r1, r2),
		absDiff(g1, g2),
		absDiff(b1, b2),
		absDiff(a1, a2),
	)
}

func absDiff(x, y uint32) int {
	d := int(x>>8) - int(y>>8)
	if d < 0 {
		return -d
	}
	return d
}
