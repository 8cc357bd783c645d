package receipt

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const (
	PassportWidth   = 180
	PassportHeight  = 220
	PassportQuality = 85
)

// ErrInvalidUpload is returned for anything that is not a decodable JPG/PNG.
var ErrInvalidUpload = errors.New("only JPG/PNG passport image required")

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ValidatePassportFilename checks the declared filename against the extension
// allow-list, ignoring case.
func ValidatePassportFilename(filename string) error {
	if filename == "" {
		return ErrInvalidUpload
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(filename))] {
		return ErrInvalidUpload
	}
	return nil
}

// NormalizePassport decodes r, flattens it onto white, scales it to
// PassportWidth x PassportHeight and re-encodes it as JPEG.
func NormalizePassport(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}

	dst := ResizePassport(src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: PassportQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode passport: %w", err)
	}
	return buf.Bytes(), nil
}

// ResizePassport returns an opaque RGB copy of src at the fixed passport size.
func ResizePassport(src image.Image) *image.RGBA {
	bounds := image.Rect(0, 0, PassportWidth, PassportHeight)
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, bounds, src, src.Bounds(), draw.Over, nil)
	return dst
}
