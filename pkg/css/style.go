package css

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Style is a bag of declared or computed property values. After the cascade
// runs, font-size always holds an absolute pixel value so em lengths on the
// same style can be resolved locally.
type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

// GetLength resolves a length property in pixels; percentBase is used for %.
func (s *Style) GetLength(property string, percentBase float64) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	return ParseLength(val, s.GetFontSize(), percentBase)
}

func (s *Style) getLengthOrZero(property string) float64 {
	val, _ := s.GetLength(property, 0)
	return val
}

func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	for _, decl := range strings.Split(styleAttr, ";") {
		property, value, ok := splitDeclaration(decl)
		if !ok {
			continue
		}
		expandShorthand(style, property, value)
	}
	return style
}

func splitDeclaration(decl string) (string, string, bool) {
	decl = strings.TrimSpace(decl)
	property, value, found := strings.Cut(decl, ":")
	if !found {
		return "", "", false
	}
	property = strings.ToLower(strings.TrimSpace(property))
	value = strings.TrimSpace(value)
	value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
	if property == "" || value == "" {
		return "", "", false
	}
	return property, value, true
}

// expandShorthand expands shorthand CSS properties into individual properties
func expandShorthand(style *Style, property, value string) {
	switch property {
	case "margin", "padding":
		expandBoxProperty(style, property, "", value)
	case "border-width":
		expandBoxProperty(style, "border", "-width", value)
	case "border":
		expandBorderProperty(style, value)
	case "font":
		expandFontProperty(style, value)
	default:
		style.Set(property, value)
	}
}

// expandBoxProperty expands the 1 to 4 value forms of margin/padding style
// shorthands into prefix-top/right/bottom/left+suffix.
func expandBoxProperty(style *Style, prefix, suffix, value string) {
	parts := strings.Fields(value)
	var top, right, bottom, left string
	switch len(parts) {
	case 1:
		top, right, bottom, left = parts[0], parts[0], parts[0], parts[0]
	case 2:
		top, right, bottom, left = parts[0], parts[1], parts[0], parts[1]
	case 3:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[1]
	case 4:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[3]
	default:
		return
	}
	style.Set(prefix+"-top"+suffix, top)
	style.Set(prefix+"-right"+suffix, right)
	style.Set(prefix+"-bottom"+suffix, bottom)
	style.Set(prefix+"-left"+suffix, left)
}

// expandBorderProperty expands "1px solid black" style border shorthands.
func expandBorderProperty(style *Style, value string) {
	for _, part := range strings.Fields(value) {
		switch {
		case isBorderStyle(part):
			style.Set("border-style", part)
		case part == "thin" || part == "medium" || part == "thick" || startsWithDigit(part):
			width := part
			switch part {
			case "thin":
				width = "1px"
			case "medium":
				width = "3px"
			case "thick":
				width = "5px"
			}
			expandBoxProperty(style, "border", "-width", width)
		default:
			style.Set("border-color", part)
		}
	}
}

func isBorderStyle(s string) bool {
	switch s {
	case "none", "hidden", "solid", "dotted", "dashed", "double", "groove", "ridge", "inset", "outset":
		return true
	}
	return false
}

// expandFontProperty handles "[style] [weight] size[/line-height] family".
func expandFontProperty(style *Style, value string) {
	parts := strings.Fields(value)
	for i, part := range parts {
		switch {
		case part == "italic" || part == "oblique":
			style.Set("font-style", part)
		case part == "bold" || part == "bolder" || part == "lighter" || (len(part) == 3 && strings.HasSuffix(part, "00")):
			style.Set("font-weight", part)
		case startsWithDigit(part) || fontSizeKeywords[strings.Split(part, "/")[0]] > 0:
			size, lh, hasLH := strings.Cut(part, "/")
			style.Set("font-size", size)
			if hasLH {
				style.Set("line-height", lh)
			} else {
				style.Set("line-height", "normal")
			}
			if i+1 < len(parts) {
				style.Set("font-family", strings.Join(parts[i+1:], " "))
			}
			return
		}
	}
}

func startsWithDigit(s string) bool {
	return s != "" && (s[0] >= '0' && s[0] <= '9' || s[0] == '.')
}

// BoxEdge represents the four sides of a box (top, right, bottom, left)
type BoxEdge struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Vertical is Top + Bottom.
func (b BoxEdge) Vertical() float64 { return b.Top + b.Bottom }

// Horizontal is Left + Right.
func (b BoxEdge) Horizontal() float64 { return b.Left + b.Right }

func (s *Style) GetMargin() BoxEdge {
	return BoxEdge{
		Top:    s.getLengthOrZero("margin-top"),
		Right:  s.getLengthOrZero("margin-right"),
		Bottom: s.getLengthOrZero("margin-bottom"),
		Left:   s.getLengthOrZero("margin-left"),
	}
}

func (s *Style) GetPadding() BoxEdge {
	return BoxEdge{
		Top:    s.getLengthOrZero("padding-top"),
		Right:  s.getLengthOrZero("padding-right"),
		Bottom: s.getLengthOrZero("padding-bottom"),
		Left:   s.getLengthOrZero("padding-left"),
	}
}

// GetBorderWidth returns border widths, all zero when border-style is none.
func (s *Style) GetBorderWidth() BoxEdge {
	if bs, ok := s.Get("border-style"); !ok || bs == "none" || bs == "hidden" {
		return BoxEdge{}
	}
	return BoxEdge{
		Top:    s.getLengthOrZero("border-top-width"),
		Right:  s.getLengthOrZero("border-right-width"),
		Bottom: s.getLengthOrZero("border-bottom-width"),
		Left:   s.getLengthOrZero("border-left-width"),
	}
}

// GetFontSize returns the font-size in pixels (default: 16px)
func (s *Style) GetFontSize() float64 {
	if val, ok := s.Get("font-size"); ok {
		if size, ok := ParseLength(val, DefaultFontSize, DefaultFontSize); ok {
			return size
		}
	}
	return DefaultFontSize
}

// GetLineHeight returns the used line-height in whole pixels. normal is
// NormalLineHeightFactor times the integer font size and unitless numbers
// multiply the font size; the result is truncated the way parseInt truncates
// a computed "19.2px".
func (s *Style) GetLineHeight() float64 {
	fontSize := s.GetFontSize()
	lh, ok := s.Get("line-height")
	if !ok || lh == "normal" {
		return math.Trunc(math.Trunc(fontSize) * NormalLineHeightFactor)
	}
	if IsUnitless(lh) {
		if n, err := strconv.ParseFloat(lh, 64); err == nil {
			return math.Trunc(n * fontSize)
		}
	}
	if px, ok := ParseLength(lh, fontSize, fontSize); ok {
		return math.Trunc(px)
	}
	return math.Trunc(math.Trunc(fontSize) * NormalLineHeightFactor)
}

// FontWeight represents the font-weight property value
type FontWeight string

const (
	FontWeightNormal FontWeight = "normal"
	FontWeightBold   FontWeight = "bold"
)

func (s *Style) GetFontWeight() FontWeight {
	if weight, ok := s.Get("font-weight"); ok {
		switch weight {
		case "bold", "bolder", "600", "700", "800", "900":
			return FontWeightBold
		}
	}
	return FontWeightNormal
}

func (s *Style) IsItalic() bool {
	fs, _ := s.Get("font-style")
	return fs == "italic" || fs == "oblique"
}

// IsMonospace reports whether the first family that names a generic or
// well-known face is monospaced.
func (s *Style) IsMonospace() bool {
	family, ok := s.Get("font-family")
	if !ok {
		return false
	}
	for _, f := range strings.Split(family, ",") {
		f = strings.ToLower(strings.Trim(strings.TrimSpace(f), `"'`))
		switch f {
		case "monospace", "courier", "courier new", "menlo", "consolas", "monaco":
			return true
		case "serif", "sans-serif", "system-ui", "arial", "helvetica":
			return false
		}
	}
	return false
}

// DisplayType represents the display property value
type DisplayType string

const (
	DisplayBlock       DisplayType = "block"
	DisplayInline      DisplayType = "inline"
	DisplayInlineBlock DisplayType = "inline-block"
	DisplayListItem    DisplayType = "list-item"
	DisplayNone        DisplayType = "none"
)

// GetDisplay returns the display value. The initial value is inline; the
// user agent defaults in the cascade make block elements block.
func (s *Style) GetDisplay() DisplayType {
	if display, ok := s.Get("display"); ok {
		switch display {
		case "block", "flex", "grid", "table", "flow-root":
			return DisplayBlock
		case "list-item":
			return DisplayListItem
		case "inline-block", "inline-flex", "inline-grid", "inline-table":
			return DisplayInlineBlock
		case "none":
			return DisplayNone
		}
	}
	return DisplayInline
}

// IsBlockLevel reports whether the box takes part in block layout.
func (d DisplayType) IsBlockLevel() bool {
	return d == DisplayBlock || d == DisplayListItem
}

// TextAlign represents the text-align property value
type TextAlign string

const (
	TextAlignLeft   TextAlign = "left"
	TextAlignCenter TextAlign = "center"
	TextAlignRight  TextAlign = "right"
)

func (s *Style) GetTextAlign() TextAlign {
	if align, ok := s.Get("text-align"); ok {
		switch align {
		case "center":
			return TextAlignCenter
		case "right", "end":
			return TextAlignRight
		}
	}
	return TextAlignLeft
}

// WhiteSpace represents the white-space property value
type WhiteSpace string

const (
	WhiteSpaceNormal  WhiteSpace = "normal"
	WhiteSpaceNowrap  WhiteSpace = "nowrap"
	WhiteSpacePre     WhiteSpace = "pre"
	WhiteSpacePreWrap WhiteSpace = "pre-wrap"
)

func (s *Style) GetWhiteSpace() WhiteSpace {
	if ws, ok := s.Get("white-space"); ok {
		switch ws {
		case "nowrap":
			return WhiteSpaceNowrap
		case "pre":
			return WhiteSpacePre
		case "pre-wrap", "pre-line", "break-spaces":
			return WhiteSpacePreWrap
		}
	}
	return WhiteSpaceNormal
}

// GetSize resolves width/height/max-height style properties. auto and none
// report false.
func (s *Style) GetSize(property string, percentBase float64) (float64, bool) {
	val, ok := s.Get(property)
	if !ok || val == "auto" || val == "none" {
		return 0, false
	}
	if strings.HasSuffix(strings.TrimSpace(val), "%") && percentBase <= 0 {
		return 0, false
	}
	return s.GetLength(property, percentBase)
}

type Color struct {
	R, G, B uint8
	A       float64
}

var namedColors = map[string]Color{
	"black":   {0, 0, 0, 1},
	"white":   {255, 255, 255, 1},
	"red":     {255, 0, 0, 1},
	"green":   {0, 128, 0, 1},
	"blue":    {0, 0, 255, 1},
	"yellow":  {255, 255, 0, 1},
	"gray":    {128, 128, 128, 1},
	"grey":    {128, 128, 128, 1},
	"silver":  {192, 192, 192, 1},
	"orange":  {255, 165, 0, 1},
	"purple":  {128, 0, 128, 1},
	"navy":    {0, 0, 128, 1},
	"teal":    {0, 128, 128, 1},
	"maroon":  {128, 0, 0, 1},
	"lime":    {0, 255, 0, 1},
	"aqua":    {0, 255, 255, 1},
	"fuchsia": {255, 0, 255, 1},
	"olive":   {128, 128, 0, 1},
}

// ParseColor understands named colors, #rgb, #rrggbb and transparent.
func ParseColor(colorStr string) (Color, bool) {
	colorStr = strings.ToLower(strings.TrimSpace(colorStr))
	if colorStr == "transparent" {
		return Color{}, true
	}
	if c, ok := namedColors[colorStr]; ok {
		return c, true
	}
	if !strings.HasPrefix(colorStr, "#") {
		return Color{}, false
	}
	hex := colorStr[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, false
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return Color{}, false
	}
	return Color{R: r, G: g, B: b, A: 1}, true
}

func (s *Style) GetColor() Color {
	if colorStr, ok := s.Get("color"); ok {
		if color, ok := ParseColor(colorStr); ok {
			return color
		}
	}
	return Color{0, 0, 0, 1}
}
