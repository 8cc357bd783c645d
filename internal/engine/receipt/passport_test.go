package receipt

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("Failed to encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestValidatePassportFilename(t *testing.T) {
	tests := []struct {
		filename string
		wantErr  bool
	}{
		{"photo.jpg", false},
		{"photo.JPG", false},
		{"photo.jpeg", false},
		{"scan.PnG", false},
		{"archive.tar.png", false},
		{"", true},
		{"photo", true},
		{"photo.gif", true},
		{"notes.txt", true},
		{"photo.jpg.exe", true},
		{"photo.pdf", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			err := ValidatePassportFilename(tt.filename)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassportFilename(%q) error = %v, wantErr %v", tt.filename, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidUpload) {
				t.Errorf("Expected ErrInvalidUpload, got %v", err)
			}
		})
	}
}

func TestNormalizePassport_FixedSize(t *testing.T) {
	tests := []struct {
		name string
		data func(t *testing.T) []byte
	}{
		{"Large PNG", func(t *testing.T) []byte { return encodePNG(t, solid(1200, 1600, color.NRGBA{200, 10, 10, 255})) }},
		{"Small JPEG", func(t *testing.T) []byte { return encodeJPEG(t, solid(20, 30, color.NRGBA{10, 200, 10, 255})) }},
		{"Landscape JPEG", func(t *testing.T) []byte { return encodeJPEG(t, solid(640, 120, color.NRGBA{0, 0, 0, 255})) }},
		{"Exact Size PNG", func(t *testing.T) []byte { return encodePNG(t, solid(PassportWidth, PassportHeight, color.White)) }},
		{"Gray PNG", func(t *testing.T) []byte { return encodePNG(t, image.NewGray(image.Rect(0, 0, 33, 77))) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NormalizePassport(bytes.NewReader(tt.data(t)))
			if err != nil {
				t.Fatalf("NormalizePassport() error = %v", err)
			}

			img, format, err := image.Decode(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("Output is not decodable: %v", err)
			}
			if format != "jpeg" {
				t.Errorf("Expected jpeg output, got %s", format)
			}
			if b := img.Bounds(); b.Dx() != PassportWidth || b.Dy() != PassportHeight {
				t.Errorf("Expected %dx%d, got %dx%d", PassportWidth, PassportHeight, b.Dx(), b.Dy())
			}
		})
	}
}

func TestResizePassport_FlattensAlpha(t *testing.T) {
	transparent := solid(50, 50, color.NRGBA{0, 0, 0, 0})

	dst := ResizePassport(transparent)

	r, g, b, a := dst.At(90, 110).RGBA()
	if a != 0xffff {
		t.Errorf("Expected opaque output, got alpha %d", a)
	}
	if r != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("Expected transparent pixels to become white, got %d,%d,%d", r, g, b)
	}
}

func TestNormalizePassport_Undecodable(t *testing.T) {
	_, err := NormalizePassport(bytes.NewReader([]byte("this is not an image")))
	if !errors.Is(err, ErrInvalidUpload) {
		t.Errorf("Expected ErrInvalidUpload, got %v", err)
	}
}
