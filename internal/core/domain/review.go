package domain

import "time"

// FieldCorrection reassigns an OCR label to a different data element.
// PromoteAlias asks the service to remember the label as an alias of the
// element in the stored profile so future documents match directly.
type FieldCorrection struct {
	Label        string `json:"label"`
	Element      string `json:"element"`
	PromoteAlias bool   `json:"promote_alias,omitempty"`
}

// ReviewFeedback is an operator's verdict on one analysis result.
type ReviewFeedback struct {
	ID               string            `json:"id"`
	DocumentID       string            `json:"document_id"`
	Reviewer         string            `json:"reviewer,omitempty"`
	CorrectedDocType string            `json:"corrected_doc_type,omitempty"`
	CorrectedSubType string            `json:"corrected_sub_type,omitempty"`
	Corrections      []FieldCorrection `json:"corrections,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}
