package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// SessionReport is the read-only data contract of the session report document.
type SessionReport struct {
	Title       string
	Subtitle    string
	GeneratedAt string
	Sections    []ReportSection
}

// ReportSection is a titled block of label/value rows. Status is an optional third column.
type ReportSection struct {
	Title string
	Rows  []ReportRow
}

// ReportRow is one line of a section.
type ReportRow struct {
	Label  string
	Value  string
	Status string
}

type rgb struct{ r, g, b int }

var (
	colorPrimary   = rgb{21, 44, 68}
	colorSecondary = rgb{100, 116, 139}
	colorDark      = rgb{30, 41, 59}
	colorLight     = rgb{248, 250, 252}
	colorGold      = rgb{212, 175, 55}
)

const (
	pageMargin   = 15.0
	headerHeight = 25.0
	rowHeight    = 7.0
)

// PDFExporter renders session reports as landscape A4 documents.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render lays out the report: a coloured banner on every page, then each section as a
// striped table. gofpdf breaks pages automatically.
func (e *PDFExporter) Render(report SessionReport) ([]byte, error) {
	if len(report.Sections) == 0 {
		return nil, fmt.Errorf("pdf requires at least one section")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, headerHeight+10, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, pageHeight := pdf.GetPageSize()
	breakAt := pageHeight - pageMargin
	contentWidth := pageWidth - 2*pageMargin

	pdf.SetHeaderFunc(func() {
		setFill(pdf, colorPrimary)
		pdf.Rect(0, 0, pageWidth, headerHeight, "F")
		pdf.SetFont("Helvetica", "B", 20)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetXY(pageMargin, 8)
		pdf.CellFormat(contentWidth/2, 10, tr(strings.ToUpper(report.Title)), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		setText(pdf, colorGold)
		pdf.CellFormat(contentWidth/2, 10, tr(report.Subtitle), "", 0, "R", false, 0, "")
		pdf.SetXY(pageMargin, headerHeight+10)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		setText(pdf, colorSecondary)
		pdf.CellFormat(contentWidth/2, 6, tr("Generated "+report.GeneratedAt), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentWidth/2, 6, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	labelWidth := contentWidth * 0.45
	valueWidth := contentWidth * 0.30
	statusWidth := contentWidth - labelWidth - valueWidth

	for _, section := range report.Sections {
		// keep a section title with at least its first two rows
		if pdf.GetY()+10+2*rowHeight > breakAt {
			pdf.AddPage()
		}
		pdf.SetFont("Helvetica", "B", 14)
		setText(pdf, colorPrimary)
		pdf.CellFormat(contentWidth, 10, tr(strings.ToUpper(section.Title)), "B", 1, "L", false, 0, "")
		pdf.Ln(1)

		pdf.SetFont("Helvetica", "", 10)
		for i, row := range section.Rows {
			fill := i%2 == 0
			setFill(pdf, colorLight)
			setText(pdf, colorDark)
			pdf.CellFormat(labelWidth, rowHeight, tr(row.Label), "", 0, "L", fill, 0, "")
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(valueWidth, rowHeight, tr(row.Value), "", 0, "L", fill, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			setText(pdf, colorSecondary)
			pdf.CellFormat(statusWidth, rowHeight, tr(row.Status), "", 1, "L", fill, 0, "")
		}
		pdf.Ln(6)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func setFill(pdf *gofpdf.Fpdf, c rgb) { pdf.SetFillColor(c.r, c.g, c.b) }
func setText(pdf *gofpdf.Fpdf, c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }
