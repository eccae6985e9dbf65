package css

import "testing"

func TestParseInlineStyle_Shorthands(t *testing.T) {
	style := ParseInlineStyle("margin: 1px 2px 3px; padding: 4px 5px; border: 2px solid red; COLOR: blue !important")
	checks := map[string]string{
		"margin-top": "1px", "margin-right": "2px", "margin-bottom": "3px", "margin-left": "2px",
		"padding-top": "4px", "padding-left": "5px",
		"border-top-width": "2px", "border-style": "solid", "border-color": "red",
		"color": "blue",
	}
	for prop, want := range checks {
		if got, _ := style.Get(prop); got != want {
			t.Errorf("%s = %q, want %q", prop, got, want)
		}
	}
}

func TestParseInlineStyle_Font(t *testing.T) {
	style := ParseInlineStyle("font: italic bold 20px/1.5 Georgia, serif")
	checks := map[string]string{
		"font-style": "italic", "font-weight": "bold", "font-size": "20px",
		"line-height": "1.5", "font-family": "Georgia, serif",
	}
	for prop, want := range checks {
		if got, _ := style.Get(prop); got != want {
			t.Errorf("%s = %q, want %q", prop, got, want)
		}
	}
}

func TestGetLineHeight(t *testing.T) {
	tests := []struct {
		decl string
		want float64
	}{
		{"font-size: 16px", 19},                      // normal: trunc(16*1.2)
		{"font-size: 20px; line-height: normal", 24}, // 20*1.2
		{"font-size: 16px; line-height: 1.5", 24},
		{"font-size: 10px; line-height: 2em", 20},
		{"font-size: 16px; line-height: 20.7px", 20},
		{"font-size: 15px; line-height: 150%", 22},
	}
	for _, tt := range tests {
		if got := ParseInlineStyle(tt.decl).GetLineHeight(); got != tt.want {
			t.Errorf("GetLineHeight(%q) = %v, want %v", tt.decl, got, tt.want)
		}
	}
}

func TestBorderWidthNeedsStyle(t *testing.T) {
	if got := ParseInlineStyle("border-width: 3px").GetBorderWidth(); got.Top != 0 {
		t.Errorf("border without style should be zero, got %+v", got)
	}
	got := ParseInlineStyle("border: 3px solid").GetBorderWidth()
	if got.Vertical() != 6 || got.Horizontal() != 6 {
		t.Errorf("border edges = %+v", got)
	}
}

func TestGetDisplay(t *testing.T) {
	tests := map[string]DisplayType{
		"":                      DisplayInline,
		"display: block":        DisplayBlock,
		"display: flex":         DisplayBlock,
		"display: inline-block": DisplayInlineBlock,
		"display: list-item":    DisplayListItem,
		"display: none":         DisplayNone,
	}
	for decl, want := range tests {
		if got := ParseInlineStyle(decl).GetDisplay(); got != want {
			t.Errorf("GetDisplay(%q) = %v, want %v", decl, got, want)
		}
	}
}

func TestIsMonospace(t *testing.T) {
	if !ParseInlineStyle(`font-family: "Courier New", monospace`).IsMonospace() {
		t.Error("courier should be monospace")
	}
	if ParseInlineStyle("font-family: Arial, monospace").IsMonospace() {
		t.Error("first known family wins")
	}
}

func TestGetSize(t *testing.T) {
	style := ParseInlineStyle("width: 50%; height: auto; max-height: 3em; font-size: 10px")
	if w, ok := style.GetSize("width", 400); !ok || w != 200 {
		t.Errorf("width = %v, %v", w, ok)
	}
	if _, ok := style.GetSize("width", 0); ok {
		t.Error("percent without a base should be unresolved")
	}
	if _, ok := style.GetSize("height", 400); ok {
		t.Error("auto height should be unresolved")
	}
	if h, ok := style.GetSize("max-height", 0); !ok || h != 30 {
		t.Errorf("max-height = %v, %v", h, ok)
	}
}

func TestParseColor(t *testing.T) {
	tests := map[string]Color{
		"red":     {255, 0, 0, 1},
		"#0f0":    {0, 255, 0, 1},
		"#0645AD": {6, 69, 173, 1},
	}
	for in, want := range tests {
		if got, ok := ParseColor(in); !ok || got != want {
			t.Errorf("ParseColor(%q) = %+v, %v", in, got, ok)
		}
	}
	if c, ok := ParseColor("transparent"); !ok || c.A != 0 {
		t.Error("transparent should parse with zero alpha")
	}
	if _, ok := ParseColor("#12"); ok {
		t.Error("short hex should fail")
	}
}
