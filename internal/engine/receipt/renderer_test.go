package receipt

import (
	"bytes"
	"image/color"
	"path/filepath"
	"strings"
	"testing"
)

func sampleRequest() *Request {
	return &Request{
		Gender:    "Female",
		Session:   "2024/2025",
		Level:     "100",
		Date:      "2025-03-01",
		RegNo:     "24/SC/CO/123",
		FullName:  "Ada Obi",
		Dept:      "Computer Science/Science",
		Programme: "B.Sc Computer Science",
		ProgType:  "Full Time",
		Phone:     "08012345678",
		RRR:       "1234-5678-9012",
	}
}

func sampleArtifacts(t *testing.T, req *Request) *Artifacts {
	t.Helper()
	store, err := NewArtifactStore(filepath.Join(t.TempDir(), "scratch"))
	if err != nil {
		t.Fatalf("NewArtifactStore() error = %v", err)
	}
	qr, err := GenerateQRCode(req.QRPayload(), 256)
	if err != nil {
		t.Fatalf("GenerateQRCode() error = %v", err)
	}
	passport, err := NormalizePassport(bytes.NewReader(encodePNG(t, solid(60, 80, color.NRGBA{R: 10, G: 20, B: 200, A: 255}))))
	if err != nil {
		t.Fatalf("NormalizePassport() error = %v", err)
	}
	set, err := store.Save(qr, passport)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	t.Cleanup(func() { set.Remove() })
	return set
}

func TestRenderer_Render(t *testing.T) {
	req := sampleRequest()
	set := sampleArtifacts(t, req)

	r := &Renderer{Compress: false}
	out, err := r.Render(req, set)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("Expected PDF header, got %q", out[:8])
	}
	if !bytes.Contains(out, []byte("%%EOF")) {
		t.Error("Expected PDF trailer")
	}

	body := string(out)
	for _, want := range []string{
		TotalText,
		"UNIVERSITY OF UYO",
		"STUDENT'S INFORMATION DETAILS",
		req.RegNo,
		req.FullName,
		req.RRR,
		"Development Levy",
		"20,000",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected rendered PDF to contain %q", want)
		}
	}
	if n := strings.Count(body, "/Subtype /Image"); n != 2 {
		t.Errorf("Expected 2 embedded images without a logo, got %d", n)
	}
}

func TestRenderer_MissingLogoIsSkipped(t *testing.T) {
	req := sampleRequest()
	set := sampleArtifacts(t, req)

	r := NewRenderer(filepath.Join(t.TempDir(), "no-such-logo.jpg"))
	out, err := r.Render(req, set)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatal("Expected a PDF document")
	}
}

func TestRenderer_WithLogo(t *testing.T) {
	req := sampleRequest()
	set := sampleArtifacts(t, req)

	r := &Renderer{LogoPath: set.QRPath}
	out, err := r.Render(req, set)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(out) == 0 {
		t.Fatal("Expected non-empty output")
	}
}

func TestRenderer_MissingImageFails(t *testing.T) {
	req := sampleRequest()
	set := &Artifacts{
		QRPath:       filepath.Join(t.TempDir(), "qr_missing.png"),
		PassportPath: filepath.Join(t.TempDir(), "passport_missing.jpg"),
	}

	if _, err := NewRenderer("").Render(req, set); err == nil {
		t.Fatal("Expected error when an artifact is missing")
	}
}

// pdfString is s as it appears in an uncompressed content stream.
func pdfString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)
	return "(" + r.Replace(s) + ")"
}

func TestRenderer_TotalIsFixed(t *testing.T) {
	long := strings.Repeat("Computer Science and Informatics ", 20)

	tests := []struct {
		name   string
		modify func(req *Request)
	}{
		{"sample", func(req *Request) {}},
		{"accented name", func(req *Request) {
			req.FullName = "Émeka Ùdo Nwáchukwu"
		}},
		{"outside cp1252", func(req *Request) {
			req.FullName = "Ọlá Àdìsà 李华"
			req.Dept = "Яков/Ελληνικά"
		}},
		{"very long values", func(req *Request) {
			req.FullName = long
			req.Dept = long
			req.Programme = long
			req.Phone = strings.Repeat("0", 200)
		}},
		{"amount lookalikes", func(req *Request) {
			req.RRR = "N99,999"
			req.Programme = "B.Sc (Hons) Accounting"
			req.Level = "N0"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := sampleRequest()
			tt.modify(req)
			set := sampleArtifacts(t, req)

			out, err := (&Renderer{Compress: false}).Render(req, set)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			body := string(out)

			if n := strings.Count(body, pdfString(TotalText)); n != 1 {
				t.Errorf("Expected total %s drawn once, got %d", TotalText, n)
			}
			if !strings.Contains(body, pdfString(TotalLabel)) {
				t.Errorf("Expected total label %q", TotalLabel)
			}
			for _, item := range FeeItems {
				for _, want := range []string{item.Number, item.Description, FormatNaira(item.Amount)} {
					if !strings.Contains(body, pdfString(want)) {
						t.Errorf("Expected fee row %s to draw %q", item.Number, want)
					}
				}
			}
		})
	}
}
