package css

import (
	"strconv"
	"strings"
)

// DefaultFontSize is the initial font-size and the rem base, in pixels.
const DefaultFontSize = 16.0

// NormalLineHeightFactor is the multiplier used for line-height: normal.
// Browsers derive it from font metrics; 1.2 sits in the middle of what they
// produce for common text faces.
const NormalLineHeightFactor = 1.2

// ParseLength converts a CSS length to pixels. em resolves against fontSize,
// rem against DefaultFontSize and % against percentBase. A bare number is
// treated as pixels.
func ParseLength(val string, fontSize, percentBase float64) (float64, bool) {
	val = strings.ToLower(strings.TrimSpace(val))
	if val == "" {
		return 0, false
	}
	num, unit := splitNumber(val)
	if num == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	switch unit {
	case "", "px":
		return n, true
	case "em":
		return n * fontSize, true
	case "rem":
		return n * DefaultFontSize, true
	case "pt":
		return n * 96 / 72, true
	case "pc":
		return n * 16, true
	case "in":
		return n * 96, true
	case "cm":
		return n * 96 / 2.54, true
	case "mm":
		return n * 96 / 25.4, true
	case "%":
		return n * percentBase / 100, true
	case "ex", "ch":
		return n * fontSize / 2, true
	}
	return 0, false
}

// ParseFontSize resolves a font-size declaration against the parent's size.
func ParseFontSize(val string, parentSize float64) (float64, bool) {
	val = strings.ToLower(strings.TrimSpace(val))
	if size, ok := fontSizeKeywords[val]; ok {
		return size, true
	}
	switch val {
	case "smaller":
		return parentSize / 1.2, true
	case "larger":
		return parentSize * 1.2, true
	}
	// em and % are relative to the parent's font size for font-size itself
	return ParseLength(val, parentSize, parentSize)
}

var fontSizeKeywords = map[string]float64{
	"xx-small": 9,
	"x-small":  10,
	"small":    13,
	"medium":   16,
	"large":    18,
	"x-large":  24,
	"xx-large": 32,
}

// ParseInt mimics JavaScript's parseInt on computed style strings: optional
// leading whitespace and sign, then digits, with everything after the first
// non-digit ignored. "40.9px" gives 40.
func ParseInt(val string) (int, bool) {
	val = strings.TrimSpace(val)
	i := 0
	if i < len(val) && (val[i] == '-' || val[i] == '+') {
		i++
	}
	start := i
	for i < len(val) && val[i] >= '0' && val[i] <= '9' {
		i++
	}
	if i == start {
		return 0, false
	}
	n, err := strconv.Atoi(val[:i])
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsUnitless reports whether val is a plain number such as "1.5".
func IsUnitless(val string) bool {
	num, unit := splitNumber(strings.TrimSpace(val))
	return num != "" && unit == ""
}

func splitNumber(val string) (num, unit string) {
	i := 0
	if i < len(val) && (val[i] == '-' || val[i] == '+') {
		i++
	}
	digits := 0
	for i < len(val) && ((val[i] >= '0' && val[i] <= '9') || val[i] == '.') {
		i++
		digits++
	}
	if digits == 0 {
		return "", val
	}
	return val[:i], val[i:]
}
