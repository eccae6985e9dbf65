package js

import (
	"context"
	"testing"
)

func TestCramp(t *testing.T) {
	tests := []struct {
		name        string
		opts        string
		wantCramped any
	}{
		{"two lines", `{cramp: 2}`, "aaa bbb ccc ddd…"},
		{"default budget", `undefined`, "aaa bbb ccc ddd…"},
		{"zero falls back to default", `{cramp: 0}`, "aaa bbb ccc ddd…"},
		{"string count", `{cramp: "1"}`, "aaa bbb…"},
		{"px height", `{cramp: "30px"}`, "aaa bbb ccc ddd eee fff…"},
		{"already fits", `{cramp: 4}`, nil},
		{"custom marker", `{cramp: 2, truncationChar: " »"}`, "aaa bbb ccc ddd »"},
		{"no marker", `{cramp: 1, omitMarker: true}`, "aaa bbb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, e := newEngine(t, clampMarkup)
			got := run(t, e, doc, `
				var r = $cramp(document.getElementById("c"), `+tt.opts+`);
				r`)
			m, ok := got.(map[string]any)
			if !ok {
				t.Fatalf("result is %#v", got)
			}
			if m["original"] != "aaa bbb ccc ddd eee fff ggg" {
				t.Errorf("original = %#v", m["original"])
			}
			if m["cramped"] != tt.wantCramped {
				t.Errorf("cramped = %#v, want %#v", m["cramped"], tt.wantCramped)
			}
		})
	}
}

func TestCrampInvalidValueThrows(t *testing.T) {
	doc, e := newEngine(t, clampMarkup)
	got := run(t, e, doc, `
		var caught = "";
		try { $cramp(document.getElementById("c"), {cramp: "lots"}); } catch (err) { caught = err.name; }
		caught`)
	if got != "TypeError" {
		t.Errorf("caught %#v", got)
	}
}

func TestCrampWithoutGeometry(t *testing.T) {
	doc := parseHTML(t, clampMarkup)
	_, err := New().Run(context.Background(), doc, `$cramp(document.getElementById("c"))`)
	if err == nil {
		t.Fatal("expected an error without geometry")
	}
}
