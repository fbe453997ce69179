package usecase

import (
	"context"
	"fmt"

	"github.com/docuvault/redactsvc/internal/core/domain"
	"github.com/docuvault/redactsvc/internal/core/ports"
)

// ReadDocumentUseCase is the read model behind the document GET endpoints.
type ReadDocumentUseCase struct {
	repo         ports.DocumentRepository
	analysisRepo ports.AnalysisRepository
}

func NewReadDocumentUseCase(repo ports.DocumentRepository, analysisRepo ports.AnalysisRepository) *ReadDocumentUseCase {
	return &ReadDocumentUseCase{repo: repo, analysisRepo: analysisRepo}
}

func (uc *ReadDocumentUseCase) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	return doc, nil
}

func (uc *ReadDocumentUseCase) GetAnalysis(ctx context.Context, documentID string) (*domain.AnalysisResult, error) {
	result, err := uc.analysisRepo.GetAnalysis(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch analysis: %w", err)
	}
	return result, nil
}
