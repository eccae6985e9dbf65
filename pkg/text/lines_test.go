package text

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

var ahem = FixedMeasurer{}

func TestFixedMeasurer(t *testing.T) {
	face := Face{Size: 10}
	if got := ahem.Measure("héllo", face); got != 50 {
		t.Errorf("expected 50 (runes, not bytes), got %v", got)
	}
	if got := (FixedMeasurer{Ratio: 0.5}).Measure("abcd", face); got != 20 {
		t.Errorf("expected 20, got %v", got)
	}
}

// lineTexts joins each line's runs back into a string.
func lineTexts(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		var sb strings.Builder
		for _, r := range line.Runs {
			sb.WriteString(r.Text)
		}
		out = append(out, strings.TrimRight(sb.String(), " "))
	}
	return out
}

func TestFillLines_Wrapping(t *testing.T) {
	face := Face{Size: 10}
	tests := []struct {
		name   string
		text   string
		first  float64
		rest   float64
		expect []string
	}{
		{"fits", "aa bb", 100, 100, []string{"aa bb"}},
		{"wraps", "aa bb cc", 50, 50, []string{"aa bb", "cc"}},
		{"exact fit", "aaaa bbbb", 90, 90, []string{"aaaa bbbb"}},
		{"narrow first line", "aa bb cc", 20, 100, []string{"aa", "bb cc"}},
		{"overlong word", "aaaaaaaa b", 30, 30, []string{"aaaaaaaa", "b"}},
		{"leading space dropped", " aa  bb", 20, 20, []string{"aa", "bb"}},
		{"unbounded", "aa bb cc", math.Inf(1), math.Inf(1), []string{"aa bb cc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lineTexts(FillLines(SplitWords(tt.text, ahem, face), tt.first, tt.rest))
			if !reflect.DeepEqual(got, tt.expect) {
				t.Errorf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestFillLines_GlueAndBreaks(t *testing.T) {
	runs := []Run{
		{Kind: Word, Text: "foo", Width: 30},
		{Kind: Word, Text: "bar", Width: 30, Glue: true},
		{Kind: Space, Text: " ", Width: 10},
		{Kind: Word, Text: "x", Width: 10},
		{Kind: Break},
		{Kind: Break},
		{Kind: Atomic, Width: 40, Height: 40},
	}
	lines := FillLines(runs, 65, 65)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %+v", len(lines), lines)
	}
	// foobar cannot split, so x moves down
	if lines[0].Width != 60 || len(lines[0].Runs) != 2 {
		t.Errorf("line 0 = %+v", lines[0])
	}
	if lines[1].Runs[0].Text != "x" || lines[1].Runs[1].Kind != Break {
		t.Errorf("line 1 = %+v", lines[1])
	}
	if len(lines[2].Runs) != 1 || lines[2].Runs[0].Kind != Break {
		t.Errorf("empty line should hold only the break, got %+v", lines[2])
	}
	if lines[3].Width != 40 {
		t.Errorf("line 3 = %+v", lines[3])
	}
}

func TestFillLines_TrailingSpacesDoNotCount(t *testing.T) {
	runs := SplitWords("aa bb  ", ahem, Face{Size: 10})
	lines := FillLines(runs, 50, 50)
	if len(lines) != 1 || lines[0].Width != 50 {
		t.Errorf("expected one 50px line, got %+v", lines)
	}
	if got := FillLines(nil, math.Inf(1), math.Inf(1)); len(got) != 0 {
		t.Errorf("no runs should give no lines, got %d", len(got))
	}
}
