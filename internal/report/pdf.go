// Package report renders tour plans into PDF files.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"yatra/internal/domain"
)

var _ domain.ReportExporter = (*PDFExporter)(nil)

// DefaultTitle heads every generated plan.
const DefaultTitle = "Your Tour Plan"

// symbols outside cp1252 that travel text commonly carries.
var symbols = strings.NewReplacer(
	"₹", "Rs.",
	"→", "->",
	"✓", "*",
	"★", "*",
)

// PDFExporter writes A4 documents with a bold title and wrapped body text.
type PDFExporter struct {
	FontFamily string
	FontSize   float64
	TitleSize  float64
	LineHeight float64
}

// NewPDFExporter returns an exporter with Arial 12 body text.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{FontFamily: "Arial", FontSize: 12, TitleSize: 16, LineHeight: 7}
}

// Export writes title and body to path, creating parent directories and
// replacing any existing file. It returns path.
func (e *PDFExporter) Export(title, body, path string) (string, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create report directory: %w", err)
		}
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(e.FontFamily, "B", e.TitleSize)
	pdf.MultiCell(0, 10, tr(symbols.Replace(title)), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont(e.FontFamily, "", e.FontSize)
	pdf.MultiCell(0, e.LineHeight, tr(symbols.Replace(body)), "", "L", false)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}
	return path, nil
}
