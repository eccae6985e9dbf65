package render

import (
	"fmt"
	"image"
	"log/slog"
	"unicode/utf8"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"cramp/pkg/css"
	"cramp/pkg/layout"
	"cramp/pkg/text"
)

// FaceSource supplies drawable faces; *text.FontMeasurer is one. Without a
// FaceSource glyphs are painted as solid 1em boxes, matching
// text.FixedMeasurer's metrics.
type FaceSource interface {
	FontFace(face text.Face) (font.Face, error)
}

// ImageSource decodes <img> sources; *images.Loader is one.
type ImageSource interface {
	Load(src string) (image.Image, error)
}

type Renderer struct {
	context *gg.Context
	fonts   FaceSource
	images  ImageSource
	logger  *slog.Logger
}

func NewRenderer(width, height int) *Renderer {
	return &Renderer{context: gg.NewContext(width, height), logger: slog.Default()}
}

func (r *Renderer) SetFonts(fonts FaceSource) { r.fonts = fonts }

func (r *Renderer) SetImages(images ImageSource) { r.images = images }

func (r *Renderer) SetLogger(logger *slog.Logger) { r.logger = logger }

// Render clears the canvas to white and paints box with everything in it,
// shifted so box's border-box origin lands at (0, 0).
func (r *Renderer) Render(box *layout.Box) {
	r.context.SetRGB(1, 1, 1)
	r.context.Clear()
	r.context.Push()
	defer r.context.Pop()
	r.context.Translate(-box.X, -box.Y)
	r.drawBox(box)
}

func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

func (r *Renderer) SavePNG(path string) error {
	if err := r.context.SavePNG(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func (r *Renderer) setColor(c css.Color) {
	r.context.SetRGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, c.A)
}

func (r *Renderer) drawBox(box *layout.Box) {
	if box.Node != nil {
		r.drawBackground(box)
		r.drawBorder(box)
	}
	for _, line := range box.LineBoxes {
		r.drawLine(line)
	}
	for _, child := range box.Children {
		r.drawBox(child)
	}
}

// drawBackground covers content + padding (but not margin or border)
func (r *Renderer) drawBackground(box *layout.Box) {
	bg, ok := box.Style.Get("background-color")
	if !ok {
		bg, ok = box.Style.Get("background")
	}
	if !ok {
		return
	}
	color, ok := css.ParseColor(bg)
	if !ok || color.A == 0 {
		return
	}
	w := box.Width + box.Padding.Horizontal()
	h := box.ClientHeight()
	if w <= 0 || h <= 0 {
		return
	}
	r.setColor(color)
	r.context.DrawRectangle(box.X+box.Border.Left, box.Y+box.Border.Top, w, h)
	r.context.Fill()
}

// getBorderColor returns border-color, falling back to the element's color
// (border-color defaults to currentColor).
func getBorderColor(style *css.Style) css.Color {
	if colorStr, ok := style.Get("border-color"); ok {
		if color, ok := css.ParseColor(colorStr); ok {
			return color
		}
	}
	return style.GetColor()
}

// drawBorder paints each side as a filled rectangle of the border box.
func (r *Renderer) drawBorder(box *layout.Box) {
	b := box.Border
	if b.Top <= 0 && b.Right <= 0 && b.Bottom <= 0 && b.Left <= 0 {
		return
	}
	r.setColor(getBorderColor(box.Style))
	outerW := box.Width + box.Padding.Horizontal() + b.Horizontal()
	outerH := box.BorderBoxHeight()
	if b.Top > 0 {
		r.context.DrawRectangle(box.X, box.Y, outerW, b.Top)
	}
	if b.Bottom > 0 {
		r.context.DrawRectangle(box.X, box.Y+outerH-b.Bottom, outerW, b.Bottom)
	}
	if b.Left > 0 {
		r.context.DrawRectangle(box.X, box.Y, b.Left, outerH)
	}
	if b.Right > 0 {
		r.context.DrawRectangle(box.X+outerW-b.Right, box.Y, b.Right, outerH)
	}
	r.context.Fill()
}

func (r *Renderer) drawLine(line *layout.LineBox) {
	for _, f := range line.Fragments {
		switch {
		case f.Block != nil:
			r.drawBox(f.Block)
		case f.Image != "":
			r.drawImage(f, line)
		case f.Kind == text.Word:
			r.drawText(f, line)
		}
	}
}

func (r *Renderer) drawText(f layout.Fragment, line *layout.LineBox) {
	if f.Text == "" || f.Style == nil {
		return
	}
	r.setColor(f.Style.GetColor())

	if r.fonts != nil {
		ff, err := r.fonts.FontFace(f.Face)
		if err == nil {
			m := ff.Metrics()
			ascent := float64(m.Ascent) / 64
			descent := float64(m.Descent) / 64
			// centre the glyph box in the line, as half-leading does
			baseline := line.Y + (line.Height-ascent-descent)/2 + ascent
			r.context.SetFontFace(ff)
			r.context.DrawString(f.Text, f.X, baseline)
			return
		}
		r.logger.Debug("font face unavailable, drawing boxes", "error", err)
	}

	n := utf8.RuneCountInString(f.Text)
	if n == 0 {
		return
	}
	advance := f.Width / float64(n)
	size := f.Face.Size
	top := line.Y + (line.Height-size)/2
	for i := 0; i < n; i++ {
		r.context.DrawRectangle(f.X+float64(i)*advance, top, advance, size)
	}
	r.context.Fill()
}

func (r *Renderer) drawImage(f layout.Fragment, line *layout.LineBox) {
	top := line.Y + line.Height - f.Height
	if r.images == nil || f.Width <= 0 || f.Height <= 0 {
		return
	}
	img, err := r.images.Load(f.Image)
	if err != nil {
		r.logger.Debug("image not drawn", "src", f.Image, "error", err)
		return
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return
	}
	r.context.Push()
	defer r.context.Pop()
	r.context.Translate(f.X, top)
	r.context.Scale(f.Width/float64(bounds.Dx()), f.Height/float64(bounds.Dy()))
	r.context.DrawImage(img, 0, 0)
}
