package pdfreport

import (
	"bytes"
	"testing"
	"time"

	"github.com/docuvault/redactsvc/internal/core/domain"
)

func TestRenderRedactionReportProducesPDF(t *testing.T) {
	r := New()
	doc := &domain.Document{ID: "doc-1", Filename: "w2.pdf"}
	record := &domain.RedactionRecord{
		ID:          "red-1",
		DocumentID:  "doc-1",
		Elements:    []string{"SSN"},
		MaskedCount: 2,
		RequestedBy: "op@example.com",
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	matches := []domain.FieldMatch{
		{Element: "SSN", Label: "Social Security Number", Page: 1, Kind: domain.MatchSynonym, Redact: true},
		{Element: "Employer", Label: "Employer Name", Page: 1, Kind: domain.MatchExact},
	}

	raw, err := r.RenderRedactionReport(doc, record, matches)
	if err != nil {
		t.Fatalf("RenderRedactionReport() error = %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("%PDF-")) {
		t.Fatalf("expected PDF output, got %q...", raw[:min(16, len(raw))])
	}
	if len(raw) < 500 {
		t.Fatalf("suspiciously small PDF: %d bytes", len(raw))
	}
}
