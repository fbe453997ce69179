package domain

import "time"

// RedactionRecord documents one redaction run over an analysis result.
type RedactionRecord struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	Elements    []string  `json:"elements"`
	MaskedCount int       `json:"masked_count"`
	TextKey     string    `json:"text_key"`
	ReportKey   string    `json:"report_key"`
	RequestedBy string    `json:"requested_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
