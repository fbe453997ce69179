// Package pdfreport renders the redaction summary PDF operators download
// next to the redacted text artifact.
package pdfreport

import (
	"bytes"
	"fmt"

	"codeberg.org/go-pdf/fpdf"

	"github.com/docuvault/redactsvc/internal/core/domain"
)

type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) RenderRedactionReport(doc *domain.Document, record *domain.RedactionRecord, matches []domain.FieldMatch) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Redaction Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Redaction Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Document: %s (%s)", doc.Filename, doc.ID))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Requested by: %s", orDash(record.RequestedBy)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", record.CreatedAt.Format("2006-01-02 15:04:05 MST")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Masked occurrences: %d", record.MaskedCount))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, "Redacted data elements")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(60, 6, "Element", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 6, "Source label", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 6, "Page", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Match", "1", 0, "L", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	selected := make(map[string]struct{}, len(record.Elements))
	for _, el := range record.Elements {
		selected[el] = struct{}{}
	}
	for _, m := range matches {
		if _, ok := selected[m.Element]; !ok {
			continue
		}
		pdf.CellFormat(60, 6, m.Element, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, m.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", m.Page), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, string(m.Kind), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render redaction report: %w", err)
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
