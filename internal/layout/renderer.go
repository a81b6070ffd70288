package layout

import (
	"io"
	"strings"

	"github.com/phpdave11/gofpdf"
)

// Renderer is the page-based drawing backend. Coordinates are absolute, in page units,
// with y growing downward and text placed on its baseline.
type Renderer interface {
	PageSize() (w, h float64)
	AddPage()
	PageCount() int

	SetFont(style string, size float64)
	SetFontSize(size float64)
	SetFillColor(r, g, b int)
	SetDrawColor(r, g, b int)
	SetTextColor(r, g, b int)

	Rect(x, y, w, h float64, style string)
	Line(x1, y1, x2, y2 float64)
	Text(x, y float64, s string)
	StringWidth(s string) float64
	SplitText(s string, maxWidth float64) []string

	Err() error
	Output(w io.Writer) error
}

// PDFRenderer draws onto an A4 portrait gofpdf document in millimetres.
type PDFRenderer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func NewPDFRenderer(title string) *PDFRenderer {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("TravelLink", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	return &PDFRenderer{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (p *PDFRenderer) PageSize() (float64, float64) {
	w, h := p.pdf.GetPageSize()
	return w, h
}

func (p *PDFRenderer) AddPage()       { p.pdf.AddPage() }
func (p *PDFRenderer) PageCount() int { return p.pdf.PageCount() }

func (p *PDFRenderer) SetFont(style string, size float64) {
	p.pdf.SetFont("Helvetica", style, size)
}

func (p *PDFRenderer) SetFontSize(size float64)   { p.pdf.SetFontSize(size) }
func (p *PDFRenderer) SetFillColor(r, g, b int) { p.pdf.SetFillColor(r, g, b) }
func (p *PDFRenderer) SetDrawColor(r, g, b int) { p.pdf.SetDrawColor(r, g, b) }
func (p *PDFRenderer) SetTextColor(r, g, b int) { p.pdf.SetTextColor(r, g, b) }

func (p *PDFRenderer) Rect(x, y, w, h float64, style string) { p.pdf.Rect(x, y, w, h, style) }
func (p *PDFRenderer) Line(x1, y1, x2, y2 float64)           { p.pdf.Line(x1, y1, x2, y2) }

func (p *PDFRenderer) Text(x, y float64, s string) {
	p.pdf.Text(x, y, p.tr(latin1(s)))
}

func (p *PDFRenderer) StringWidth(s string) float64 {
	return p.pdf.GetStringWidth(p.tr(latin1(s)))
}

func (p *PDFRenderer) SplitText(s string, maxWidth float64) []string {
	// core font width tables cover single-byte code points only
	lines := p.pdf.SplitText(latin1(s), maxWidth)
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func (p *PDFRenderer) Err() error { return p.pdf.Error() }

func (p *PDFRenderer) Output(w io.Writer) error { return p.pdf.Output(w) }

// latin1 replaces runes the core fonts cannot encode.
func latin1(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return ' '
		case r > 0xFF:
			return '?'
		}
		return r
	}, s)
}
