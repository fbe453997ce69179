package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded    DocumentStatus = "uploaded"
	StatusProcessing  DocumentStatus = "processing"
	StatusNeedsReview DocumentStatus = "needs_review"
	StatusReviewed    DocumentStatus = "reviewed"
	StatusRedacted    DocumentStatus = "redacted"
	StatusFailed      DocumentStatus = "failed"
)

type Document struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	MimeType    string         `json:"mime_type"`
	StoragePath string         `json:"storage_path"`
	DocTypeHint string         `json:"doc_type_hint,omitempty"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Classification is the LLM classifier's verdict for one document.
type Classification struct {
	DocType    string  `json:"doc_type"`
	SubType    string  `json:"sub_type"`
	Confidence float64 `json:"confidence"`
	Summary    string  `json:"summary"`
}

// Reviewable reports whether operator actions are accepted in this state.
func (s DocumentStatus) Reviewable() bool {
	return s == StatusNeedsReview || s == StatusReviewed || s == StatusRedacted
}
