package clamp

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"cramp/pkg/css"
	"cramp/pkg/html"
)

var (
	// ErrInvalidValue is returned for a line budget ParseValue cannot read.
	ErrInvalidValue = errors.New("invalid clamp value")
	// ErrNotElement is returned when the clamp target is nil or not an element.
	ErrNotElement = errors.New("clamp target is not an element")
)

// DefaultLines is the line budget used when no value is given.
const DefaultLines = 2

// DefaultMarker is appended at the truncation point.
const DefaultMarker = "…"

// Geometry is the rendering engine's view of an element. Both methods must
// measure the tree as it is at call time; Clamp mutates it between calls.
type Geometry interface {
	LineHeight(el *html.Node) float64
	ClientHeight(el *html.Node) float64
}

// FontSizer is implemented by geometries that can resolve em lengths.
type FontSizer interface {
	FontSize(el *html.Node) float64
}

// Unit says how a Value's N is read.
type Unit int

const (
	UnitLines Unit = iota
	UnitAuto
	UnitPx
	UnitEm
)

// Value is a parsed line budget.
type Value struct {
	Unit Unit
	N    int // lines for UnitLines, the length's integer prefix for px/em
}

func (v Value) String() string {
	switch v.Unit {
	case UnitAuto:
		return "auto"
	case UnitPx:
		return strconv.Itoa(v.N) + "px"
	case UnitEm:
		return strconv.Itoa(v.N) + "em"
	}
	return strconv.Itoa(v.N)
}

// ParseValue parses a line budget: a line count, "auto", or a length
// containing px or em whose integer prefix is read the way parseInt reads
// it ("40.9px" is 40px). An empty string is DefaultLines.
func ParseValue(raw string) (Value, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return Value{Unit: UnitLines, N: DefaultLines}, nil
	case strings.EqualFold(raw, "auto"):
		return Value{Unit: UnitAuto}, nil
	case strings.Contains(raw, "px") || strings.Contains(raw, "em"):
		n, ok := css.ParseInt(raw)
		if !ok || n < 0 {
			return Value{}, fmt.Errorf("%w: %q", ErrInvalidValue, raw)
		}
		unit := UnitEm
		if strings.Contains(raw, "px") {
			unit = UnitPx
		}
		return Value{Unit: unit, N: n}, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return Value{}, fmt.Errorf("%w: %q", ErrInvalidValue, raw)
	}
	return Value{Unit: UnitLines, N: n}, nil
}

// MaxLines is the number of whole lines that fit in height pixels, or in the
// element's client height when height is 0.
func MaxLines(el *html.Node, geom Geometry, height float64) int {
	lineHeight := geom.LineHeight(el)
	if lineHeight <= 0 {
		return 0
	}
	if height == 0 {
		height = geom.ClientHeight(el)
	}
	return max(int(math.Floor(height/lineHeight)), 0)
}

// Fits reports whether the element's content is within lines lines.
func Fits(el *html.Node, geom Geometry, lines int) bool {
	return geom.LineHeight(el)*float64(lines) >= geom.ClientHeight(el)
}

// Resolve turns v into a line count for el. em lengths use the element's
// font size when geom is a FontSizer and are taken as pixels otherwise.
func Resolve(el *html.Node, geom Geometry, v Value) int {
	switch v.Unit {
	case UnitAuto:
		return MaxLines(el, geom, 0)
	case UnitPx:
		return MaxLines(el, geom, float64(v.N))
	case UnitEm:
		height := float64(v.N)
		if fs, ok := geom.(FontSizer); ok {
			height *= fs.FontSize(el)
		}
		return MaxLines(el, geom, height)
	}
	return v.N
}
