package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/docuvault/redactsvc/internal/core/domain"
)

type FeedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(ctx context.Context, feedback *domain.ReviewFeedback) error {
	correctionsJSON, err := json.Marshal(feedback.Corrections)
	if err != nil {
		return fmt.Errorf("marshal corrections: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO review_feedback (id, document_id, reviewer, corrected_doc_type, corrected_sub_type, corrections, notes, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`,
		feedback.ID, feedback.DocumentID, feedback.Reviewer,
		feedback.CorrectedDocType, feedback.CorrectedSubType,
		correctionsJSON, feedback.Notes, feedback.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review feedback: %w", err)
	}
	return nil
}

func (r *FeedbackRepository) List(ctx context.Context, limit int) ([]domain.ReviewFeedback, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, document_id, reviewer, corrected_doc_type, corrected_sub_type, corrections, notes, created_at
FROM review_feedback
ORDER BY created_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list review feedback: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ReviewFeedback, 0)
	for rows.Next() {
		var fb domain.ReviewFeedback
		var correctionsRaw []byte
		if err := rows.Scan(
			&fb.ID, &fb.DocumentID, &fb.Reviewer,
			&fb.CorrectedDocType, &fb.CorrectedSubType,
			&correctionsRaw, &fb.Notes, &fb.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review feedback: %w", err)
		}
		if err := json.Unmarshal(correctionsRaw, &fb.Corrections); err != nil {
			return nil, fmt.Errorf("unmarshal corrections: %w", err)
		}
		out = append(out, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review feedback: %w", err)
	}
	return out, nil
}
