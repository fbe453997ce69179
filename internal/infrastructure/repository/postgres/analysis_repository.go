package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/docuvault/redactsvc/internal/core/domain"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) SaveAnalysis(ctx context.Context, result *domain.AnalysisResult) error {
	matchesJSON, err := json.Marshal(result.Matches)
	if err != nil {
		return fmt.Errorf("marshal matches: %w", err)
	}
	unmatchedJSON, err := json.Marshal(result.UnmatchedLabels)
	if err != nil {
		return fmt.Errorf("marshal unmatched labels: %w", err)
	}

	// Reprocessing replaces the previous analysis wholesale.
	_, err = r.db.ExecContext(ctx, `
INSERT INTO analysis_results (document_id, doc_type, sub_type, confidence, summary, matches, unmatched, extracted_text, pages, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (document_id) DO UPDATE SET
	doc_type = EXCLUDED.doc_type,
	sub_type = EXCLUDED.sub_type,
	confidence = EXCLUDED.confidence,
	summary = EXCLUDED.summary,
	matches = EXCLUDED.matches,
	unmatched = EXCLUDED.unmatched,
	extracted_text = EXCLUDED.extracted_text,
	pages = EXCLUDED.pages,
	created_at = EXCLUDED.created_at
`,
		result.DocumentID, result.Classification.DocType, result.Classification.SubType,
		result.Classification.Confidence, result.Classification.Summary,
		matchesJSON, unmatchedJSON, result.Text, result.Pages, result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert analysis: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) GetAnalysis(ctx context.Context, documentID string) (*domain.AnalysisResult, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT document_id, doc_type, sub_type, confidence, summary, matches, unmatched, extracted_text, pages, created_at
FROM analysis_results
WHERE document_id = $1
`, documentID)

	var result domain.AnalysisResult
	var matchesRaw, unmatchedRaw []byte
	err := row.Scan(
		&result.DocumentID, &result.Classification.DocType, &result.Classification.SubType,
		&result.Classification.Confidence, &result.Classification.Summary,
		&matchesRaw, &unmatchedRaw, &result.Text, &result.Pages, &result.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrAnalysisNotFound, "get analysis", fmt.Errorf("document_id=%s", documentID))
		}
		return nil, fmt.Errorf("scan analysis: %w", err)
	}

	if err := json.Unmarshal(matchesRaw, &result.Matches); err != nil {
		return nil, fmt.Errorf("unmarshal matches: %w", err)
	}
	if err := json.Unmarshal(unmatchedRaw, &result.UnmatchedLabels); err != nil {
		return nil, fmt.Errorf("unmarshal unmatched labels: %w", err)
	}
	return &result, nil
}

func (r *AnalysisRepository) SaveRedaction(ctx context.Context, record *domain.RedactionRecord) error {
	elementsJSON, err := json.Marshal(record.Elements)
	if err != nil {
		return fmt.Errorf("marshal redacted elements: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO redactions (id, document_id, elements, masked_count, text_key, report_key, requested_by, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`,
		record.ID, record.DocumentID, elementsJSON, record.MaskedCount,
		record.TextKey, record.ReportKey, record.RequestedBy, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert redaction: %w", err)
	}
	return nil
}
