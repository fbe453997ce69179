package ports

import (
	"context"
	"io"

	"github.com/docuvault/redactsvc/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType, docTypeHint string, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// DocumentReader is the inbound read model for document metadata and analysis.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	GetAnalysis(ctx context.Context, documentID string) (*domain.AnalysisResult, error)
}

// ReviewService accepts operator verdicts on analysis results.
type ReviewService interface {
	SubmitReview(ctx context.Context, feedback domain.ReviewFeedback) (*domain.ReviewFeedback, error)
	ListFeedback(ctx context.Context, limit int) ([]domain.ReviewFeedback, error)
}

// RedactionService runs redaction over a reviewed document.
type RedactionService interface {
	Redact(ctx context.Context, documentID, requestedBy string, elements []string) (*domain.RedactionRecord, error)
	OpenArtifact(ctx context.Context, documentID string) (io.ReadCloser, error)
}

// ProfileService is the inbound contract for document-type configuration CRUD.
type ProfileService interface {
	PutProfile(ctx context.Context, profile domain.DocTypeProfile) (*domain.DocTypeProfile, error)
	GetProfile(ctx context.Context, name string) (*domain.DocTypeProfile, error)
	ListProfiles(ctx context.Context) ([]domain.DocTypeProfile, error)
	DeleteProfile(ctx context.Context, name string) error
}
