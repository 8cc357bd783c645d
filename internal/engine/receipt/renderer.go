package receipt

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"
)

const (
	institutionName    = "UNIVERSITY OF UYO"
	institutionOffice  = "OFFICE OF THE BURSAR"
	institutionAddress = "P.M.B 1017, UYO, AKWA IBOM STATE, NIGERIA"

	studentInfoTitle = "STUDENT'S INFORMATION DETAILS"
	footerNotice     = "Useful Information:\nYou are expected to present this e-Receipt to your Finance Officer " +
		"for confirmation and documentation. This e-receipt is valid ONLY upon confirmation."
	footerSignatory = "Authorised Stamp & Signatory"
	footerFor       = "For University of Uyo"

	font = "Arial"
)

// Renderer draws the single-page fee receipt. Every position is in
// millimetres on an A4 portrait page.
type Renderer struct {
	// LogoPath is drawn in the header when the file exists.
	LogoPath string
	// Compress deflates page content streams.
	Compress bool
}

func NewRenderer(logoPath string) *Renderer {
	return &Renderer{LogoPath: logoPath, Compress: true}
}

// page wraps the drawing surface for one document.
type page struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// Render lays out the receipt for req, embedding the images at set's paths,
// and returns the serialised PDF.
func (r *Renderer) Render(req *Request, set *Artifacts) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.Compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Fee Receipt "+req.RegNo, true)
	pdf.SetAuthor(institutionOffice, false)
	pdf.SetCreator("bursar", false)

	p := &page{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.AddPage()
	p.header(r.logo())
	p.topRightBlock(set.QRPath, set.PassportPath, req)
	p.studentInfo(req)
	p.paymentTable()
	p.footer()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) logo() string {
	if r.LogoPath == "" {
		return ""
	}
	if _, err := os.Stat(r.LogoPath); err != nil {
		return ""
	}
	return r.LogoPath
}

func (p *page) header(logoPath string) {
	pdf := p.pdf
	if logoPath != "" {
		pdf.ImageOptions(logoPath, 15, 10, 25, 0, false, fpdf.ImageOptions{}, 0, "")
	}

	pdf.SetFont(font, "BU", 18)
	pdf.SetX(56)
	pdf.SetTextColor(220, 0, 0)
	pdf.CellFormat(0, 5, institutionOffice, "", 1, "L", false, 0, "")

	pdf.SetFont(font, "B", 30)
	pdf.SetX(40)
	pdf.SetTextColor(69, 160, 113)
	pdf.CellFormat(0, 13, institutionName, "", 1, "L", false, 0, "")

	pdf.SetFont(font, "B", 10)
	pdf.SetX(51)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 4, institutionAddress, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetDrawColor(169, 169, 169)
	pdf.SetLineWidth(0.3)
	y := pdf.GetY()
	pdf.Line(9, y, 153, y)
	pdf.Ln(6)

	// page frame and the right-hand column boxes
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.Rect(7, 5, 195, 100, "D")
	pdf.Line(155, 5, 155, 105)
	pdf.Line(7, 40, 155, 40)
	pdf.Rect(157, 7, 43, 96, "D")
	for _, y := range []float64{43, 73, 81, 87, 94} {
		pdf.Line(157, y, 200, y)
	}
}

func (p *page) topRightBlock(qrPath, passportPath string, req *Request) {
	pdf := p.pdf
	pdf.ImageOptions(qrPath, 158.8, 9, 38, 31, false, fpdf.ImageOptions{}, 0, "")
	pdf.ImageOptions(passportPath, 159, 45, 39.8, 25, false, fpdf.ImageOptions{}, 0, "")

	pdf.SetXY(170, 75)
	rows := [][2]string{
		{"Gender:", req.Gender},
		{"Session:", req.Session},
		{"Level:", req.Level},
		{"Date:", req.Date},
	}
	for _, row := range rows {
		pdf.SetXY(158, pdf.GetY())
		pdf.SetFont(font, "B", 9)
		pdf.CellFormat(22, 6.5, row[0], "", 0, "", false, 0, "")
		pdf.SetFont(font, "", 9)
		pdf.CellFormat(76, 6.5, p.tr(row[1]), "", 1, "", false, 0, "")
	}
}

func (p *page) studentInfo(req *Request) {
	pdf := p.pdf
	pdf.SetXY(10, 39)
	pdf.SetFont(font, "B", 10)
	pdf.CellFormat(0, 8, studentInfoTitle, "", 1, "", false, 0, "")

	rows := [][2]string{
		{"RegNo", req.RegNo},
		{"FullName", req.FullName},
		{"Dept./Faculty", req.Dept},
		{"Programme", req.Programme},
		{"ProgType", req.ProgType},
		{"Phone#", req.Phone},
		{"RRR", req.RRR},
	}
	for _, row := range rows {
		pdf.SetFont(font, "B", 10)
		pdf.CellFormat(50, 8, row[0]+":", "1", 0, "", false, 0, "")
		pdf.SetFont(font, "", 10)
		pdf.CellFormat(93, 8, p.tr(row[1]), "1", 1, "", false, 0, "")
	}
}

func (p *page) paymentTable() {
	pdf := p.pdf
	pdf.Ln(5)
	pdf.SetFont(font, "B", 10)
	pdf.SetFillColor(230, 230, 250)
	pdf.CellFormat(0, 8, PaymentTitle, "1", 1, "", true, 0, "")

	pdf.SetFont(font, "B", 9)
	pdf.CellFormat(10, 8, "#", "1", 0, "", false, 0, "")
	pdf.CellFormat(140, 8, "ITEM", "1", 0, "", false, 0, "")
	pdf.CellFormat(0, 8, "Amount(N)", "1", 1, "", false, 0, "")

	pdf.SetFont(font, "", 9)
	for _, item := range FeeItems {
		pdf.CellFormat(10, 7, item.Number, "1", 0, "", false, 0, "")
		pdf.CellFormat(140, 7, item.Description, "1", 0, "", false, 0, "")
		pdf.CellFormat(0, 7, FormatNaira(item.Amount), "1", 1, "", false, 0, "")
	}

	pdf.SetFont(font, "B", 9)
	pdf.CellFormat(150, 8, TotalLabel, "1", 0, "", false, 0, "")
	pdf.CellFormat(0, 8, TotalText, "1", 1, "", false, 0, "")
}

func (p *page) footer() {
	pdf := p.pdf
	pdf.Ln(5)
	pdf.SetFont(font, "", 8)
	pdf.MultiCell(0, 5, footerNotice, "", "", false)
	pdf.Ln(3)

	pdf.SetFont(font, "I", 8)
	pdf.CellFormat(0, 6, footerSignatory, "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, footerFor, "", 0, "R", false, 0, "")
}
