package domain

import "time"

// ExtractedField is one label/value pair produced by the OCR gateway.
type ExtractedField struct {
	Label      string  `json:"label"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Page       int     `json:"page"`
}

// OCRResult is the OCR gateway response for a single document.
type OCRResult struct {
	Text   string           `json:"text"`
	Pages  int              `json:"pages"`
	Fields []ExtractedField `json:"fields"`
}

type MatchKind string

const (
	MatchExact       MatchKind = "exact"
	MatchAlias       MatchKind = "alias"
	MatchSynonym     MatchKind = "synonym"
	MatchContainment MatchKind = "containment"
	MatchOverlap     MatchKind = "overlap"
)

// FieldMatch binds an extracted OCR label to a configured data element.
type FieldMatch struct {
	Element    string    `json:"element"`
	Label      string    `json:"label"`
	Value      string    `json:"value"`
	Kind       MatchKind `json:"kind"`
	Score      float64   `json:"score"`
	Page       int       `json:"page"`
	Confidence float64   `json:"confidence"`
	Redact     bool      `json:"redact"`
}

// AnalysisResult is the persisted outcome of the processing pipeline,
// the thing operators review and correct.
type AnalysisResult struct {
	DocumentID      string         `json:"document_id"`
	Classification  Classification `json:"classification"`
	Matches         []FieldMatch   `json:"matches"`
	UnmatchedLabels []string       `json:"unmatched_labels,omitempty"`
	Text            string         `json:"-"`
	Pages           int            `json:"pages"`
	CreatedAt       time.Time      `json:"created_at"`
}
