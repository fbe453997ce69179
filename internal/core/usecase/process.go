package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/docuvault/redactsvc/internal/core/domain"
	"github.com/docuvault/redactsvc/internal/core/ports"
)

// PipelineObserver receives analysis outcomes for metrics. Nil-safe.
type PipelineObserver interface {
	ObserveAnalysis(result *domain.AnalysisResult)
}

type ProcessDocumentUseCase struct {
	repo         ports.DocumentRepository
	analysisRepo ports.AnalysisRepository
	profiles     ports.ProfileStore
	storage      ports.ObjectStorage
	ocr          ports.OCRService
	extractor    ports.TextExtractor
	classifier   ports.DocumentClassifier
	matcher      ports.FieldMatcher
	observer     PipelineObserver
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	analysisRepo ports.AnalysisRepository,
	profiles ports.ProfileStore,
	storage ports.ObjectStorage,
	ocr ports.OCRService,
	extractor ports.TextExtractor,
	classifier ports.DocumentClassifier,
	matcher ports.FieldMatcher,
	observer PipelineObserver,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:         repo,
		analysisRepo: analysisRepo,
		profiles:     profiles,
		storage:      storage,
		ocr:          ocr,
		extractor:    extractor,
		classifier:   classifier,
		matcher:      matcher,
		observer:     observer,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	result, err := uc.runPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.analysisRepo.SaveAnalysis(ctx, result); err != nil {
		err = fmt.Errorf("save analysis: %w", err)
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if uc.observer != nil {
		uc.observer.ObserveAnalysis(result)
	}

	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusNeedsReview, ""); err != nil {
		return fmt.Errorf("set status=needs_review: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) runPipeline(ctx context.Context, documentID string) (*domain.AnalysisResult, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}

	ocrResult, err := uc.analyze(ctx, doc)
	if err != nil {
		return nil, err
	}

	text := ocrResult.Text
	if text == "" {
		// Digital documents often skip the OCR text layer; fall back to
		// local extraction so classification still has something to read.
		text, err = uc.extractor.Extract(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("extract text fallback: %w", err)
		}
	}
	if text == "" && len(ocrResult.Fields) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "process document", errors.New("no text and no fields extracted"))
	}

	profiles, err := uc.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	classification, err := uc.classifier.Classify(ctx, text, profiles)
	if err != nil {
		return nil, fmt.Errorf("classify document: %w", err)
	}

	result := &domain.AnalysisResult{
		DocumentID:     doc.ID,
		Classification: classification,
		Text:           text,
		Pages:          ocrResult.Pages,
		CreatedAt:      time.Now().UTC(),
	}

	profile := resolveProfile(profiles, doc.DocTypeHint, classification.DocType)
	if profile == nil {
		// No configured profile applies; keep the raw labels for review.
		_, result.UnmatchedLabels = uc.matcher.MatchFields(nil, ocrResult.Fields)
		return result, nil
	}
	result.Classification.DocType = profile.Name

	elements := profile.ElementsFor(classification.SubType)
	result.Matches, result.UnmatchedLabels = uc.matcher.MatchFields(elements, ocrResult.Fields)
	return result, nil
}

func (uc *ProcessDocumentUseCase) analyze(ctx context.Context, doc *domain.Document) (*domain.OCRResult, error) {
	body, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open stored document: %w", err)
	}
	defer body.Close()

	ocrResult, err := uc.ocr.AnalyzeDocument(ctx, doc.Filename, body)
	if err != nil {
		return nil, fmt.Errorf("ocr analyze: %w", err)
	}
	return ocrResult, nil
}

// resolveProfile picks the effective profile: an operator-supplied hint
// always beats the classifier's verdict. Names compare case-insensitively.
func resolveProfile(profiles []domain.DocTypeProfile, hint, classified string) *domain.DocTypeProfile {
	for _, want := range []string{hint, classified} {
		want = strings.ToLower(strings.TrimSpace(want))
		if want == "" {
			continue
		}
		for i := range profiles {
			if strings.ToLower(profiles[i].Name) == want {
				return &profiles[i]
			}
		}
	}
	return nil
}

func (uc *ProcessDocumentUseCase) markFailed(ctx context.Context, documentID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.repo.UpdateStatus(ctx, documentID, domain.StatusFailed, processErr.Error())
}
