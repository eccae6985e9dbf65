package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"cramp/pkg/html"
	"cramp/pkg/layout"
	"cramp/pkg/text"
)

func layoutOf(t *testing.T, src, id string) *layout.Box {
	t.Helper()
	doc, err := html.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	e := layout.NewEngine(doc, 200, text.FixedMeasurer{}, layout.WithImages(fakeImages{}))
	return e.Layout(html.GetElementByID(doc.Root, id))
}

func rgba(img image.Image, x, y int) color.RGBA {
	r, g, b, a := img.At(x, y).RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func TestRender_BackgroundBorderAndGlyphBoxes(t *testing.T) {
	box := layoutOf(t, `<div id="c" style="width: 40px; padding: 5px; border: 2px solid blue; background-color: red; font-size: 10px; line-height: 10px; color: black">ab</div>`, "c")
	r := NewRenderer(60, 30)
	r.Render(box)
	img := r.Image()

	if got := rgba(img, 0, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("expected blue border at (0,0), got %v", got)
	}
	if got := rgba(img, 3, 3); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("expected red padding at (3,3), got %v", got)
	}
	// content starts at 2+5; "a" fills 7..17 x 7..17
	if got := rgba(img, 12, 12); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("expected black glyph at (12,12), got %v", got)
	}
	if got := rgba(img, 40, 12); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("expected background after the text at (40,12), got %v", got)
	}
	if got := rgba(img, 58, 28); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("expected white outside the box, got %v", got)
	}
}

type fakeImages struct{}

func (fakeImages) Size(string) (int, int, error) { return 2, 2, nil }

func (fakeImages) Load(string) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.RGBA{0, 255, 0, 255})
		}
	}
	return img, nil
}

func TestRender_ScalesImages(t *testing.T) {
	box := layoutOf(t, `<div id="c" style="font-size: 10px; line-height: 10px"><img src="g.png" width="20" height="20"></div>`, "c")
	r := NewRenderer(30, 30)
	r.SetImages(fakeImages{})
	r.Render(box)
	if got := rgba(r.Image(), 15, 15); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("expected green image pixel at (15,15), got %v", got)
	}
}

func TestRender_WithFontsAndSavePNG(t *testing.T) {
	doc, err := html.Parse(`<div id="c" style="font-size: 16px">Hello</div>`)
	if err != nil {
		t.Fatal(err)
	}
	fonts := text.NewFontMeasurer(text.FontConfig{}, nil)
	e := layout.NewEngine(doc, 100, fonts)
	r := NewRenderer(100, 30)
	r.SetFonts(fonts)
	r.Render(e.Layout(html.GetElementByID(doc.Root, "c")))

	path := filepath.Join(t.TempDir(), "out.png")
	if err := r.SavePNG(path); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 30 {
		t.Errorf("unexpected size %v", b)
	}
	dark := false
	for x := 0; x < 60 && !dark; x++ {
		for y := 0; y < 20; y++ {
			if c := rgba(img, x, y); c.R < 128 {
				dark = true
				break
			}
		}
	}
	if !dark {
		t.Error("expected some text pixels")
	}
}
