package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docuvault/redactsvc/internal/core/domain"
	"github.com/docuvault/redactsvc/internal/core/ports"
)

type ReviewUseCase struct {
	repo         ports.DocumentRepository
	analysisRepo ports.AnalysisRepository
	profiles     ports.ProfileStore
	feedback     ports.FeedbackRepository
}

func NewReviewUseCase(
	repo ports.DocumentRepository,
	analysisRepo ports.AnalysisRepository,
	profiles ports.ProfileStore,
	feedback ports.FeedbackRepository,
) *ReviewUseCase {
	return &ReviewUseCase{
		repo:         repo,
		analysisRepo: analysisRepo,
		profiles:     profiles,
		feedback:     feedback,
	}
}

func (uc *ReviewUseCase) SubmitReview(ctx context.Context, feedback domain.ReviewFeedback) (*domain.ReviewFeedback, error) {
	doc, err := uc.repo.GetByID(ctx, feedback.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	if !doc.Status.Reviewable() {
		return nil, domain.WrapError(domain.ErrConflict, "submit review",
			fmt.Errorf("document %s is %s", doc.ID, doc.Status))
	}

	analysis, err := uc.analysisRepo.GetAnalysis(ctx, feedback.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("fetch analysis: %w", err)
	}

	if err := uc.promoteAliases(ctx, &feedback, analysis); err != nil {
		return nil, err
	}

	feedback.ID = uuid.NewString()
	feedback.CreatedAt = time.Now().UTC()
	if err := uc.feedback.Create(ctx, &feedback); err != nil {
		return nil, fmt.Errorf("persist feedback: %w", err)
	}

	if err := uc.repo.UpdateStatus(ctx, doc.ID, domain.StatusReviewed, ""); err != nil {
		return nil, fmt.Errorf("set status=reviewed: %w", err)
	}
	return &feedback, nil
}

// promoteAliases writes accepted label corrections back into the stored
// profile so the next document with the same label matches directly.
func (uc *ReviewUseCase) promoteAliases(ctx context.Context, feedback *domain.ReviewFeedback, analysis *domain.AnalysisResult) error {
	var promotable []domain.FieldCorrection
	for _, c := range feedback.Corrections {
		if c.PromoteAlias && strings.TrimSpace(c.Label) != "" && strings.TrimSpace(c.Element) != "" {
			promotable = append(promotable, c)
		}
	}
	if len(promotable) == 0 {
		return nil
	}

	profileName := feedback.CorrectedDocType
	if profileName == "" {
		profileName = analysis.Classification.DocType
	}
	if strings.TrimSpace(profileName) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "promote alias",
			fmt.Errorf("no document type to attach aliases to"))
	}

	profile, err := uc.profiles.Get(ctx, profileName)
	if err != nil {
		return fmt.Errorf("load profile for alias promotion: %w", err)
	}

	changed := false
	for _, c := range promotable {
		if addAlias(profile, c.Element, c.Label) {
			changed = true
		}
	}
	if !changed {
		return nil
	}
	profile.UpdatedAt = time.Now().UTC()
	if err := uc.profiles.Put(ctx, profile); err != nil {
		return fmt.Errorf("save profile with promoted aliases: %w", err)
	}
	return nil
}

func addAlias(profile *domain.DocTypeProfile, elementName, alias string) bool {
	if appendAlias(profile.Elements, elementName, alias) {
		return true
	}
	for i := range profile.SubTypes {
		if appendAlias(profile.SubTypes[i].Elements, elementName, alias) {
			return true
		}
	}
	return false
}

func appendAlias(elements []domain.DataElement, elementName, alias string) bool {
	want := strings.ToLower(strings.TrimSpace(elementName))
	for i := range elements {
		if strings.ToLower(elements[i].Name) != want {
			continue
		}
		for _, existing := range elements[i].Aliases {
			if strings.EqualFold(existing, alias) {
				return false
			}
		}
		elements[i].Aliases = append(elements[i].Aliases, alias)
		return true
	}
	return false
}

func (uc *ReviewUseCase) ListFeedback(ctx context.Context, limit int) ([]domain.ReviewFeedback, error) {
	items, err := uc.feedback.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return items, nil
}
