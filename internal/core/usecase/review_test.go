package usecase

import (
	"context"
	"testing"

	"github.com/docuvault/redactsvc/internal/core/domain"
)

func reviewFixture() (*repoFake, *analysisRepoFake, *profileStoreFake, *feedbackRepoFake) {
	repo := &repoFake{doc: &domain.Document{ID: "doc-1", Status: domain.StatusNeedsReview}}
	analysisRepo := &analysisRepoFake{analysis: &domain.AnalysisResult{
		DocumentID:     "doc-1",
		Classification: domain.Classification{DocType: "Tax Form", SubType: "W-2"},
	}}
	profiles := &profileStoreFake{}
	_ = profiles.Put(context.Background(), &domain.DocTypeProfile{
		Name:     "Tax Form",
		Elements: []domain.DataElement{{Name: "Taxpayer Name", Aliases: []string{"Name of Taxpayer"}}},
		SubTypes: []domain.SubTypeRule{{
			Name:     "W-2",
			Elements: []domain.DataElement{{Name: "Employee SSN", Redact: true}},
		}},
	})
	return repo, analysisRepo, profiles, &feedbackRepoFake{}
}

func TestSubmitReviewPersistsFeedbackAndMarksReviewed(t *testing.T) {
	repo, analysisRepo, profiles, feedbackRepo := reviewFixture()
	uc := NewReviewUseCase(repo, analysisRepo, profiles, feedbackRepo)

	out, err := uc.SubmitReview(context.Background(), domain.ReviewFeedback{
		DocumentID: "doc-1",
		Reviewer:   "ops@example.com",
		Notes:      "all fields correct",
	})
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}
	if out.ID == "" || out.CreatedAt.IsZero() {
		t.Fatal("expected generated id and timestamp")
	}
	if len(feedbackRepo.created) != 1 {
		t.Fatalf("created %d feedback rows, want 1", len(feedbackRepo.created))
	}
	last := repo.statusCalls[len(repo.statusCalls)-1]
	if last.status != domain.StatusReviewed {
		t.Fatalf("status = %s, want %s", last.status, domain.StatusReviewed)
	}
}

func TestSubmitReviewRejectsUnreviewableDocument(t *testing.T) {
	repo, analysisRepo, profiles, feedbackRepo := reviewFixture()
	repo.doc.Status = domain.StatusProcessing
	uc := NewReviewUseCase(repo, analysisRepo, profiles, feedbackRepo)

	_, err := uc.SubmitReview(context.Background(), domain.ReviewFeedback{DocumentID: "doc-1"})
	if !domain.IsKind(err, domain.ErrConflict) {
		t.Fatalf("err = %v, want %v", err, domain.ErrConflict)
	}
	if len(feedbackRepo.created) != 0 {
		t.Fatal("feedback must not be persisted for an unreviewable document")
	}
}

func TestSubmitReviewPromotesAliasIntoSubType(t *testing.T) {
	repo, analysisRepo, profiles, feedbackRepo := reviewFixture()
	uc := NewReviewUseCase(repo, analysisRepo, profiles, feedbackRepo)

	_, err := uc.SubmitReview(context.Background(), domain.ReviewFeedback{
		DocumentID: "doc-1",
		Corrections: []domain.FieldCorrection{
			{Label: "SSN of Employee", Element: "Employee SSN", PromoteAlias: true},
		},
	})
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}

	updated, err := profiles.Get(context.Background(), "Tax Form")
	if err != nil {
		t.Fatalf("Get profile: %v", err)
	}
	aliases := updated.SubTypes[0].Elements[0].Aliases
	if len(aliases) != 1 || aliases[0] != "SSN of Employee" {
		t.Fatalf("aliases = %v, want the promoted label", aliases)
	}
	if updated.UpdatedAt.IsZero() {
		t.Fatal("profile UpdatedAt must move on alias promotion")
	}
}

func TestSubmitReviewDuplicateAliasDoesNotRewriteProfile(t *testing.T) {
	repo, analysisRepo, profiles, feedbackRepo := reviewFixture()
	uc := NewReviewUseCase(repo, analysisRepo, profiles, feedbackRepo)
	putsBefore := len(profiles.puts)

	_, err := uc.SubmitReview(context.Background(), domain.ReviewFeedback{
		DocumentID: "doc-1",
		Corrections: []domain.FieldCorrection{
			{Label: "name OF taxpayer", Element: "Taxpayer Name", PromoteAlias: true},
		},
	})
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}
	if len(profiles.puts) != putsBefore {
		t.Fatal("profile must not be rewritten when the alias already exists")
	}
}

func TestSubmitReviewCorrectedDocTypeTargetsThatProfile(t *testing.T) {
	repo, analysisRepo, profiles, feedbackRepo := reviewFixture()
	_ = profiles.Put(context.Background(), &domain.DocTypeProfile{
		Name:     "Bank Statement",
		Elements: []domain.DataElement{{Name: "Account Number", Redact: true}},
	})
	uc := NewReviewUseCase(repo, analysisRepo, profiles, feedbackRepo)

	_, err := uc.SubmitReview(context.Background(), domain.ReviewFeedback{
		DocumentID:       "doc-1",
		CorrectedDocType: "Bank Statement",
		Corrections: []domain.FieldCorrection{
			{Label: "Acct No", Element: "Account Number", PromoteAlias: true},
		},
	})
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}
	updated, _ := profiles.Get(context.Background(), "Bank Statement")
	if len(updated.Elements[0].Aliases) != 1 {
		t.Fatalf("aliases = %v, want promotion on the corrected profile", updated.Elements[0].Aliases)
	}
}

func TestListFeedbackDelegates(t *testing.T) {
	repo, analysisRepo, profiles, feedbackRepo := reviewFixture()
	feedbackRepo.items = []domain.ReviewFeedback{{ID: "f-1"}, {ID: "f-2"}}
	uc := NewReviewUseCase(repo, analysisRepo, profiles, feedbackRepo)

	items, err := uc.ListFeedback(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListFeedback: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
}
