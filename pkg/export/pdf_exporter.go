package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMarginX    = 10.0
	pdfHeaderRowH = 8.0
	pdfBodyRowH   = 7.0
	pdfCoreFont   = "Arial"
)

// PDFExporter renders datasets into a tabular PDF. Timetable grids grow one
// column per session date, so pages are laid out landscape.
//
// The gofpdf core fonts are Latin-1 only; the Korean grid labels need a
// UTF-8 TTF font registered via NewPDFExporterWithFont. Without one the
// layout still renders but CJK glyphs come out garbled.
type PDFExporter struct {
	fontName string
	fontPath string
}

// NewPDFExporter constructs a PDF exporter using the core fonts.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// NewPDFExporterWithFont constructs a PDF exporter that registers the TTF
// file at path under the given family name and renders all text with it.
func NewPDFExporterWithFont(name, path string) *PDFExporter {
	return &PDFExporter{fontName: name, fontPath: path}
}

// Render creates a PDF document with an optional title above the table.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	font := pdfCoreFont
	if e.fontPath != "" {
		pdf.AddUTF8Font(e.fontName, "", e.fontPath)
		pdf.AddUTF8Font(e.fontName, "B", e.fontPath)
		font = e.fontName
	}
	pdf.SetMargins(pdfMarginX, 15, pdfMarginX)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont(font, "B", 14)
		pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pageWidth, _ := pdf.GetPageSize()
	colWidth := (pageWidth - 2*pdfMarginX) / float64(len(data.Headers))

	pdf.SetFont(font, "B", 9)
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, pdfHeaderRowH, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(font, "", 8)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, pdfBodyRowH, row[header], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
