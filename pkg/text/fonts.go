package text

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// FontConfig holds paths to font files used for text measurement and rendering.
// Empty paths fall back to the embedded Go fonts.
type FontConfig struct {
	Regular    string
	Bold       string
	Italic     string
	BoldItalic string
	Monospace  string
	MonoBold   string
}

// FontConfigFromDir looks for regular.ttf, bold.ttf, italic.ttf,
// bolditalic.ttf, mono.ttf and monobold.ttf in dir. Missing files are left
// empty.
func FontConfigFromDir(dir string) FontConfig {
	if dir == "" {
		return FontConfig{}
	}
	pick := func(name string) string {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			return ""
		}
		return path
	}
	return FontConfig{
		Regular:    pick("regular.ttf"),
		Bold:       pick("bold.ttf"),
		Italic:     pick("italic.ttf"),
		BoldItalic: pick("bolditalic.ttf"),
		Monospace:  pick("mono.ttf"),
		MonoBold:   pick("monobold.ttf"),
	}
}

type variant int

const (
	variantRegular variant = iota
	variantBold
	variantItalic
	variantBoldItalic
	variantMono
	variantMonoBold
)

func variantOf(face Face) variant {
	switch {
	case face.Mono && face.Bold:
		return variantMonoBold
	case face.Mono:
		return variantMono
	case face.Bold && face.Italic:
		return variantBoldItalic
	case face.Bold:
		return variantBold
	case face.Italic:
		return variantItalic
	}
	return variantRegular
}

// FontPath returns the configured file for the variant, or "".
func (fc FontConfig) FontPath(face Face) string {
	switch variantOf(face) {
	case variantMonoBold:
		if fc.MonoBold != "" {
			return fc.MonoBold
		}
		return fc.Monospace
	case variantMono:
		return fc.Monospace
	case variantBoldItalic:
		if fc.BoldItalic != "" {
			return fc.BoldItalic
		}
		return fc.Bold
	case variantBold:
		return fc.Bold
	case variantItalic:
		return fc.Italic
	}
	return fc.Regular
}

var embedded = map[variant][]byte{
	variantRegular:    goregular.TTF,
	variantBold:       gobold.TTF,
	variantItalic:     goitalic.TTF,
	variantBoldItalic: gobolditalic.TTF,
	variantMono:       gomono.TTF,
	variantMonoBold:   gomonobold.TTF,
}

type faceKey struct {
	v    variant
	size float64
}

// FontMeasurer measures text with real TrueType faces. Parsed fonts and
// sized faces are cached; it is safe for concurrent use.
type FontMeasurer struct {
	config FontConfig
	logger *slog.Logger

	mu    sync.Mutex
	dc    *gg.Context
	fonts map[variant]*truetype.Font
	faces map[faceKey]font.Face
}

func NewFontMeasurer(config FontConfig, logger *slog.Logger) *FontMeasurer {
	if logger == nil {
		logger = slog.Default()
	}
	return &FontMeasurer{
		config: config,
		logger: logger,
		dc:     gg.NewContext(1, 1),
		fonts:  make(map[variant]*truetype.Font),
		faces:  make(map[faceKey]font.Face),
	}
}

func (m *FontMeasurer) loadFont(v variant, face Face) (*truetype.Font, error) {
	if f, ok := m.fonts[v]; ok {
		return f, nil
	}
	data := embedded[v]
	if path := m.config.FontPath(face); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			m.logger.Warn("font file unreadable, using embedded font", "path", path, "error", err)
		} else {
			data = b
		}
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	m.fonts[v] = f
	return f, nil
}

func (m *FontMeasurer) fontFace(face Face) (font.Face, error) {
	v := variantOf(face)
	key := faceKey{v: v, size: face.Size}
	if ff, ok := m.faces[key]; ok {
		return ff, nil
	}
	f, err := m.loadFont(v, face)
	if err != nil {
		return nil, err
	}
	ff := truetype.NewFace(f, &truetype.Options{Size: face.Size, DPI: 72, Hinting: font.HintingNone})
	m.faces[key] = ff
	return ff, nil
}

// FontFace returns the cached font.Face for face, for callers that draw.
func (m *FontMeasurer) FontFace(face Face) (font.Face, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fontFace(face)
}

func (m *FontMeasurer) Measure(s string, face Face) float64 {
	if s == "" || face.Size <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ff, err := m.fontFace(face)
	if err != nil {
		m.logger.Warn("font unavailable, estimating width", "error", err)
		return FixedMeasurer{Ratio: 0.6}.Measure(s, face)
	}
	m.dc.SetFontFace(ff)
	w, _ := m.dc.MeasureString(s)
	return w
}
