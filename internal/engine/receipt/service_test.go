package receipt

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bursar/internal/pkg/validation"
)

func newTestService(t *testing.T) (*Service, *ArtifactStore) {
	t.Helper()
	store, err := NewArtifactStore(filepath.Join(t.TempDir(), "scratch"))
	if err != nil {
		t.Fatalf("NewArtifactStore() error = %v", err)
	}
	return NewService(store, &Renderer{}), store
}

func scratchEntries(t *testing.T, store *ArtifactStore) int {
	t.Helper()
	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	return len(entries)
}

func TestService_Generate(t *testing.T) {
	svc, store := newTestService(t)
	req := sampleRequest()
	body := encodePNG(t, solid(300, 400, color.NRGBA{R: 200, A: 255}))

	rc, err := svc.Generate(context.Background(), req, Upload{Filename: "me.PNG", Body: bytes.NewReader(body)})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if rc.Filename != "24_SC_CO_123_receipt.pdf" {
		t.Errorf("Unexpected filename %q", rc.Filename)
	}
	if !bytes.HasPrefix(rc.PDF, []byte("%PDF-")) {
		t.Error("Expected a PDF document")
	}
	if n := scratchEntries(t, store); n != 0 {
		t.Errorf("Expected scratch dir to be empty after render, found %d files", n)
	}
}

func TestService_Generate_InvalidUploadNeverRenders(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		body     []byte
		req      *Request
	}{
		{"text file", "notes.txt", []byte("hello"), sampleRequest()},
		{"no extension", "passport", []byte("hello"), sampleRequest()},
		{"empty filename", "", nil, sampleRequest()},
		{"text file with missing fields", "notes.txt", []byte("hello"), &Request{}},
		{"undecodable image", "photo.jpg", []byte("not a jpeg"), sampleRequest()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t)
			called := false
			svc.render = func(*Request, *Artifacts) ([]byte, error) {
				called = true
				return nil, nil
			}

			_, err := svc.Generate(context.Background(), tt.req, Upload{Filename: tt.filename, Body: bytes.NewReader(tt.body)})
			if !errors.Is(err, ErrInvalidUpload) {
				t.Fatalf("Expected ErrInvalidUpload, got %v", err)
			}
			if called {
				t.Error("Renderer must not be reached for an invalid upload")
			}
			if n := scratchEntries(t, store); n != 0 {
				t.Errorf("Expected no scratch files, found %d", n)
			}
		})
	}
}

func TestService_Generate_MissingFields(t *testing.T) {
	svc, _ := newTestService(t)
	req := sampleRequest()
	req.RRR = "   "
	req.Phone = ""
	body := encodeJPEG(t, solid(50, 50, color.White))

	_, err := svc.Generate(context.Background(), req, Upload{Filename: "me.jpg", Body: bytes.NewReader(body)})

	var fields validation.FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("Expected FieldErrors, got %v", err)
	}
	for _, name := range []string{"rrr", "phone"} {
		if _, ok := fields[name]; !ok {
			t.Errorf("Expected %s to be reported, got %v", name, fields)
		}
	}
}

func TestService_Generate_RenderFailureCleansUp(t *testing.T) {
	svc, store := newTestService(t)
	var seen *Artifacts
	svc.render = func(_ *Request, set *Artifacts) ([]byte, error) {
		seen = set
		if _, err := os.Stat(set.QRPath); err != nil {
			t.Errorf("QR artifact should exist during render: %v", err)
		}
		return nil, errors.New("boom")
	}
	body := encodeJPEG(t, solid(50, 50, color.White))

	_, err := svc.Generate(context.Background(), sampleRequest(), Upload{Filename: "me.jpeg", Body: bytes.NewReader(body)})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Expected render error, got %v", err)
	}
	if seen == nil {
		t.Fatal("Renderer was not called")
	}
	if n := scratchEntries(t, store); n != 0 {
		t.Errorf("Expected scratch dir to be empty after failure, found %d files", n)
	}
}

func TestService_Generate_QRPayloadMatchesRequest(t *testing.T) {
	svc, _ := newTestService(t)
	req := sampleRequest()
	var payload string
	svc.render = func(r *Request, _ *Artifacts) ([]byte, error) {
		payload = r.QRPayload()
		return []byte("%PDF-stub"), nil
	}
	body := encodeJPEG(t, solid(50, 50, color.White))

	if _, err := svc.Generate(context.Background(), req, Upload{Filename: "me.jpg", Body: bytes.NewReader(body)}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if payload != "24/SC/CO/123 - Ada Obi" {
		t.Errorf("Unexpected QR payload %q", payload)
	}
}
