package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docuvault/redactsvc/internal/core/domain"
	"github.com/docuvault/redactsvc/internal/core/ports"
)

const maskRune = '█' // full block

type RedactUseCase struct {
	repo         ports.DocumentRepository
	analysisRepo ports.AnalysisRepository
	storage      ports.ObjectStorage
	renderer     ports.ReportRenderer
}

func NewRedactUseCase(
	repo ports.DocumentRepository,
	analysisRepo ports.AnalysisRepository,
	storage ports.ObjectStorage,
	renderer ports.ReportRenderer,
) *RedactUseCase {
	return &RedactUseCase{
		repo:         repo,
		analysisRepo: analysisRepo,
		storage:      storage,
		renderer:     renderer,
	}
}

// Redact masks the selected data elements in the extracted text and stores
// the redacted artifact plus a summary report. An empty selection means
// "everything the profile marks redact-by-default".
func (uc *RedactUseCase) Redact(ctx context.Context, documentID, requestedBy string, elements []string) (*domain.RedactionRecord, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	if !doc.Status.Reviewable() {
		return nil, domain.WrapError(domain.ErrConflict, "redact",
			fmt.Errorf("document %s is %s", doc.ID, doc.Status))
	}

	analysis, err := uc.analysisRepo.GetAnalysis(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch analysis: %w", err)
	}

	selected, err := selectMatches(analysis.Matches, elements)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "redact",
			fmt.Errorf("nothing to redact for document %s", documentID))
	}

	redactedText, maskedCount := maskValues(analysis.Text, selected)

	record := &domain.RedactionRecord{
		ID:          uuid.NewString(),
		DocumentID:  documentID,
		Elements:    elementNames(selected),
		MaskedCount: maskedCount,
		TextKey:     documentID + "_redacted.txt",
		ReportKey:   documentID + "_redaction_report.pdf",
		RequestedBy: requestedBy,
		CreatedAt:   time.Now().UTC(),
	}

	if err := uc.storage.Save(ctx, record.TextKey, strings.NewReader(redactedText)); err != nil {
		return nil, fmt.Errorf("save redacted text: %w", err)
	}

	report, err := uc.renderer.RenderRedactionReport(doc, record, analysis.Matches)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	if err := uc.storage.Save(ctx, record.ReportKey, bytes.NewReader(report)); err != nil {
		return nil, fmt.Errorf("save redaction report: %w", err)
	}

	if err := uc.analysisRepo.SaveRedaction(ctx, record); err != nil {
		return nil, fmt.Errorf("persist redaction record: %w", err)
	}
	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusRedacted, ""); err != nil {
		return nil, fmt.Errorf("set status=redacted: %w", err)
	}
	return record, nil
}

func (uc *RedactUseCase) OpenArtifact(ctx context.Context, documentID string) (io.ReadCloser, error) {
	return uc.storage.Open(ctx, documentID+"_redacted.txt")
}

// selectMatches picks the matches to redact. Explicit element names must all
// resolve; names compare case-insensitively.
func selectMatches(matches []domain.FieldMatch, elements []string) ([]domain.FieldMatch, error) {
	if len(elements) == 0 {
		var out []domain.FieldMatch
		for _, m := range matches {
			if m.Redact {
				out = append(out, m)
			}
		}
		return out, nil
	}

	byName := make(map[string]domain.FieldMatch, len(matches))
	for _, m := range matches {
		byName[strings.ToLower(m.Element)] = m
	}
	out := make([]domain.FieldMatch, 0, len(elements))
	for _, name := range elements {
		m, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, domain.WrapError(domain.ErrInvalidInput, "redact",
				fmt.Errorf("element %q has no matched field", name))
		}
		out = append(out, m)
	}
	return out, nil
}

// maskValues replaces every occurrence of each selected field value with a
// same-length run of block characters. Values too short to mask safely are
// skipped.
func maskValues(text string, selected []domain.FieldMatch) (string, int) {
	masked := 0
	for _, m := range selected {
		value := strings.TrimSpace(m.Value)
		if len([]rune(value)) < 2 {
			continue
		}
		occurrences := strings.Count(text, value)
		if occurrences == 0 {
			continue
		}
		text = strings.ReplaceAll(text, value, strings.Repeat(string(maskRune), len([]rune(value))))
		masked += occurrences
	}
	return text, masked
}

func elementNames(selected []domain.FieldMatch) []string {
	names := make([]string, 0, len(selected))
	for _, m := range selected {
		names = append(names, m.Element)
	}
	return names
}
