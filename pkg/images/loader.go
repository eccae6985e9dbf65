package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrRemoteImage is returned for http(s) sources; layout never fetches
// images over the network.
var ErrRemoteImage = errors.New("remote images are not loaded")

// Loader decodes images referenced by <img src> and caches them by source.
// Relative paths resolve against BaseDir.
type Loader struct {
	BaseDir string

	mu    sync.RWMutex
	cache map[string]image.Image
}

func NewLoader(baseDir string) *Loader {
	return &Loader{BaseDir: baseDir, cache: make(map[string]image.Image)}
}

// IsDataURI checks if a string is a data URI
func IsDataURI(src string) bool {
	return strings.HasPrefix(src, "data:")
}

// Load returns the decoded image for src.
func (l *Loader) Load(src string) (image.Image, error) {
	l.mu.RLock()
	if img, ok := l.cache[src]; ok {
		l.mu.RUnlock()
		return img, nil
	}
	l.mu.RUnlock()

	var img image.Image
	var err error
	switch {
	case IsDataURI(src):
		img, err = DecodeDataURI(src)
	case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
		err = ErrRemoteImage
	default:
		img, err = l.loadFile(src)
	}
	if err != nil {
		return nil, fmt.Errorf("load image %q: %w", shorten(src), err)
	}

	l.mu.Lock()
	l.cache[src] = img
	l.mu.Unlock()
	return img, nil
}

func (l *Loader) loadFile(src string) (image.Image, error) {
	path := strings.TrimPrefix(src, "file://")
	if u, err := url.PathUnescape(path); err == nil {
		path = u
	}
	if !filepath.IsAbs(path) && l.BaseDir != "" {
		path = filepath.Join(l.BaseDir, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	return img, err
}

// Size returns the intrinsic pixel size of the image at src.
func (l *Loader) Size(src string) (width, height int, err error) {
	img, err := l.Load(src)
	if err != nil {
		return 0, 0, err
	}
	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy(), nil
}

// DecodeDataURI decodes a base64 or percent-encoded image data URI.
func DecodeDataURI(uri string) (image.Image, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !IsDataURI(uri) || !ok {
		return nil, fmt.Errorf("malformed data URI")
	}
	var data []byte
	if strings.HasSuffix(header, ";base64") {
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode base64: %w", err)
		}
		data = b
	} else {
		s, err := url.PathUnescape(payload)
		if err != nil {
			return nil, err
		}
		data = []byte(s)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

func shorten(src string) string {
	if len(src) > 64 {
		return src[:64] + "..."
	}
	return src
}
