// Package avatar prepares profile pictures for upload.
package avatar

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"taskboard/internal/service"
)

const (
	// MaxBytes bounds the size of an avatar file.
	MaxBytes = 5 << 20

	// MaxDimension bounds the width and height an avatar may declare.
	MaxDimension = 8192

	// JPEGQuality is used when re-encoding cropped images.
	JPEGQuality = 90
)

var (
	// ErrUnsupported is returned for files that are not PNG or JPEG images.
	ErrUnsupported = errors.New("avatar must be a PNG or JPEG image")

	// ErrTooLarge is returned for images wider or taller than MaxDimension.
	ErrTooLarge = fmt.Errorf("avatar must be at most %dx%d pixels", MaxDimension, MaxDimension)
)

// Rect is a crop rectangle in image pixels, relative to the top-left corner.
type Rect struct {
	X, Y, W, H int
}

// ParseRect parses "x,y,w,h".
func ParseRect(s string) (Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("invalid crop %q: expected x,y,w,h", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Rect{}, fmt.Errorf("invalid crop %q: expected x,y,w,h", s)
		}
		v[i] = n
	}
	return Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}, nil
}

// Load reads path and prepares it for upload.
func Load(path string, crop *Rect) (service.Upload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return service.Upload{}, err
	}
	if info.Size() > MaxBytes {
		return service.Upload{}, fmt.Errorf("avatar is larger than %d MB", MaxBytes>>20)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return service.Upload{}, err
	}
	return Prepare(filepath.Base(path), data, crop)
}

// Prepare checks the content type and dimensions and, when crop is set,
// crops the image and re-encodes it as JPEG. Without a crop the data is
// returned unchanged.
func Prepare(filename string, data []byte, crop *Rect) (service.Upload, error) {
	switch http.DetectContentType(data) {
	case "image/png", "image/jpeg":
	default:
		return service.Upload{}, ErrUnsupported
	}
	// The header alone is read here; pixel buffers are sized from it.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return service.Upload{}, fmt.Errorf("failed to decode avatar: %w", err)
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return service.Upload{}, ErrTooLarge
	}
	if crop == nil {
		return service.Upload{Filename: filename, Data: data}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return service.Upload{}, fmt.Errorf("failed to decode avatar: %w", err)
	}
	cropped, err := Crop(img, *crop)
	if err != nil {
		return service.Upload{}, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, cropped, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return service.Upload{}, fmt.Errorf("failed to encode avatar: %w", err)
	}
	name := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
	return service.Upload{Filename: name, Data: buf.Bytes()}, nil
}

// Crop copies r out of img. r must lie inside the image.
func Crop(img image.Image, r Rect) (image.Image, error) {
	b := img.Bounds()
	if r.W <= 0 || r.H <= 0 || r.X < 0 || r.Y < 0 || r.X+r.W > b.Dx() || r.Y+r.H > b.Dy() {
		return nil, fmt.Errorf("crop %dx%d+%d+%d outside %dx%d image", r.W, r.H, r.X, r.Y, b.Dx(), b.Dy())
	}

	src := image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H).Add(b.Min)
	dst := image.NewRGBA(image.Rect(0, 0, r.W, r.H))
	draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
	return dst, nil
}
