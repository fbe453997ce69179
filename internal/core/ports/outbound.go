package ports

import (
	"context"
	"io"

	"github.com/docuvault/redactsvc/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
}

// AnalysisRepository persists pipeline outcomes and redaction records.
type AnalysisRepository interface {
	SaveAnalysis(ctx context.Context, result *domain.AnalysisResult) error
	GetAnalysis(ctx context.Context, documentID string) (*domain.AnalysisResult, error)
	SaveRedaction(ctx context.Context, record *domain.RedactionRecord) error
}

// ProfileStore is the key-value backed document-type configuration store.
type ProfileStore interface {
	Put(ctx context.Context, profile *domain.DocTypeProfile) error
	Get(ctx context.Context, name string) (*domain.DocTypeProfile, error)
	List(ctx context.Context) ([]domain.DocTypeProfile, error)
	Delete(ctx context.Context, name string) error
}

// FeedbackRepository persists operator review feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.ReviewFeedback) error
	List(ctx context.Context, limit int) ([]domain.ReviewFeedback, error)
}

// ObjectStorage stores source documents and redaction artifacts.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes document-received events.
type MessageQueue interface {
	PublishDocumentReceived(ctx context.Context, documentID string) error
	SubscribeDocumentReceived(ctx context.Context, handler func(context.Context, string) error) error
}

// OCRService analyzes a stored document with the external OCR gateway.
type OCRService interface {
	AnalyzeDocument(ctx context.Context, filename string, body io.Reader) (*domain.OCRResult, error)
}

// TextExtractor extracts plain text locally when the gateway yields none.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// DocumentClassifier picks a document type/sub-type among configured choices.
type DocumentClassifier interface {
	Classify(ctx context.Context, text string, choices []domain.DocTypeProfile) (domain.Classification, error)
}

// FieldMatcher binds extracted OCR labels to configured data elements.
type FieldMatcher interface {
	MatchFields(elements []domain.DataElement, fields []domain.ExtractedField) ([]domain.FieldMatch, []string)
}

// ReportRenderer renders the redaction summary artifact.
type ReportRenderer interface {
	RenderRedactionReport(doc *domain.Document, record *domain.RedactionRecord, matches []domain.FieldMatch) ([]byte, error)
}
