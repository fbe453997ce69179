package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/docuvault/redactsvc/internal/core/domain"
)

type observerFake struct {
	results []*domain.AnalysisResult
}

func (f *observerFake) ObserveAnalysis(result *domain.AnalysisResult) {
	f.results = append(f.results, result)
}

func processFixture() (*repoFake, *analysisRepoFake, *profileStoreFake, *storageFake, *ocrFake, *extractorFake, *classifierFake, *matcherFake) {
	doc := &domain.Document{
		ID:          "doc-1",
		Filename:    "w2.pdf",
		MimeType:    "application/pdf",
		StoragePath: "doc-1_w2.pdf",
		Status:      domain.StatusUploaded,
	}
	repo := &repoFake{doc: doc}
	storage := &storageFake{objects: map[string][]byte{"doc-1_w2.pdf": []byte("%PDF-1.7")}}
	profiles := &profileStoreFake{}
	_ = profiles.Put(context.Background(), &domain.DocTypeProfile{
		Name: "Tax Form",
		SubTypes: []domain.SubTypeRule{{
			Name: "W-2",
			Elements: []domain.DataElement{
				{Name: "Employee SSN", Redact: true},
				{Name: "Employer Name"},
			},
		}},
	})
	ocr := &ocrFake{result: &domain.OCRResult{
		Text:  "Wage and Tax Statement",
		Pages: 1,
		Fields: []domain.ExtractedField{
			{Label: "Employee SSN", Value: "123-45-6789", Confidence: 0.99},
			{Label: "Control Number", Value: "0001", Confidence: 0.8},
		},
	}}
	classifier := &classifierFake{cls: domain.Classification{DocType: "tax form", SubType: "W-2", Confidence: 0.93}}
	matcher := &matcherFake{
		matches: []domain.FieldMatch{{
			Element: "Employee SSN", Label: "Employee SSN", Value: "123-45-6789",
			Kind: domain.MatchExact, Score: 1, Redact: true,
		}},
		unmatched: []string{"Control Number"},
	}
	return repo, &analysisRepoFake{}, profiles, storage, ocr, &extractorFake{}, classifier, matcher
}

func TestProcessByIDHappyPath(t *testing.T) {
	repo, analysisRepo, profiles, storage, ocr, extractor, classifier, matcher := processFixture()
	observer := &observerFake{}
	uc := NewProcessDocumentUseCase(repo, analysisRepo, profiles, storage, ocr, extractor, classifier, matcher, observer)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID: %v", err)
	}

	if analysisRepo.saved == nil {
		t.Fatal("analysis was not saved")
	}
	saved := analysisRepo.saved
	if saved.Classification.DocType != "Tax Form" {
		t.Fatalf("doc type = %q, want the profile's canonical name", saved.Classification.DocType)
	}
	if len(saved.Matches) != 1 || saved.Matches[0].Element != "Employee SSN" {
		t.Fatalf("matches = %+v", saved.Matches)
	}
	if len(saved.UnmatchedLabels) != 1 || saved.UnmatchedLabels[0] != "Control Number" {
		t.Fatalf("unmatched = %v", saved.UnmatchedLabels)
	}
	if len(matcher.elements) != 2 {
		t.Fatalf("matcher received %d elements, want profile+subtype set of 2", len(matcher.elements))
	}
	if len(observer.results) != 1 {
		t.Fatalf("observer called %d times, want 1", len(observer.results))
	}

	want := []statusCall{{status: domain.StatusProcessing}, {status: domain.StatusNeedsReview}}
	if len(repo.statusCalls) != len(want) {
		t.Fatalf("status calls = %+v", repo.statusCalls)
	}
	for i, call := range want {
		if repo.statusCalls[i].status != call.status {
			t.Fatalf("status call %d = %s, want %s", i, repo.statusCalls[i].status, call.status)
		}
	}
}

func TestProcessByIDHintBeatsClassifier(t *testing.T) {
	repo, analysisRepo, profiles, storage, ocr, extractor, classifier, matcher := processFixture()
	repo.doc.DocTypeHint = "Insurance Claim"
	_ = profiles.Put(context.Background(), &domain.DocTypeProfile{
		Name:     "Insurance Claim",
		Elements: []domain.DataElement{{Name: "Claim Number"}},
	})
	uc := NewProcessDocumentUseCase(repo, analysisRepo, profiles, storage, ocr, extractor, classifier, matcher, nil)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID: %v", err)
	}
	if analysisRepo.saved.Classification.DocType != "Insurance Claim" {
		t.Fatalf("doc type = %q, want the operator hint to win", analysisRepo.saved.Classification.DocType)
	}
	if len(matcher.elements) != 1 || matcher.elements[0].Name != "Claim Number" {
		t.Fatalf("matcher elements = %+v, want the hinted profile's elements", matcher.elements)
	}
}

func TestProcessByIDNoProfileKeepsLabelsUnmatched(t *testing.T) {
	repo, analysisRepo, profiles, storage, ocr, extractor, _, matcher := processFixture()
	classifier := &classifierFake{cls: domain.Classification{DocType: "Unknown Memo", Confidence: 0.2}}
	uc := NewProcessDocumentUseCase(repo, analysisRepo, profiles, storage, ocr, extractor, classifier, matcher, nil)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID: %v", err)
	}
	saved := analysisRepo.saved
	if len(saved.Matches) != 0 {
		t.Fatalf("matches = %+v, want none without a profile", saved.Matches)
	}
	if len(saved.UnmatchedLabels) != 2 {
		t.Fatalf("unmatched = %v, want every extracted label", saved.UnmatchedLabels)
	}
}

func TestProcessByIDFallsBackToLocalExtraction(t *testing.T) {
	repo, analysisRepo, profiles, storage, ocr, _, classifier, matcher := processFixture()
	ocr.result.Text = ""
	extractor := &extractorFake{text: "locally extracted text"}
	uc := NewProcessDocumentUseCase(repo, analysisRepo, profiles, storage, ocr, extractor, classifier, matcher, nil)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID: %v", err)
	}
	if analysisRepo.saved.Text != "locally extracted text" {
		t.Fatalf("text = %q, want fallback extraction output", analysisRepo.saved.Text)
	}
}

func TestProcessByIDEmptyDocumentFails(t *testing.T) {
	repo, analysisRepo, profiles, storage, ocr, extractor, classifier, matcher := processFixture()
	ocr.result = &domain.OCRResult{}
	uc := NewProcessDocumentUseCase(repo, analysisRepo, profiles, storage, ocr, extractor, classifier, matcher, nil)

	err := uc.ProcessByID(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want %v", err, domain.ErrInvalidInput)
	}
	last := repo.statusCalls[len(repo.statusCalls)-1]
	if last.status != domain.StatusFailed || last.errMsg == "" {
		t.Fatalf("last status call = %+v, want failed with message", last)
	}
}

func TestProcessByIDOCRFailureMarksFailed(t *testing.T) {
	repo, analysisRepo, profiles, storage, _, extractor, classifier, matcher := processFixture()
	ocr := &ocrFake{err: errors.New("gateway timeout")}
	uc := NewProcessDocumentUseCase(repo, analysisRepo, profiles, storage, ocr, extractor, classifier, matcher, nil)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err == nil {
		t.Fatal("expected pipeline error")
	}
	last := repo.statusCalls[len(repo.statusCalls)-1]
	if last.status != domain.StatusFailed {
		t.Fatalf("last status = %s, want %s", last.status, domain.StatusFailed)
	}
	if analysisRepo.saved != nil {
		t.Fatal("analysis must not be saved on pipeline failure")
	}
}

func TestResolveProfileCaseInsensitive(t *testing.T) {
	profiles := []domain.DocTypeProfile{{Name: "Tax Form"}, {Name: "Bank Statement"}}
	if p := resolveProfile(profiles, "", "BANK statement"); p == nil || p.Name != "Bank Statement" {
		t.Fatalf("resolveProfile = %+v", p)
	}
	if p := resolveProfile(profiles, "  ", ""); p != nil {
		t.Fatalf("resolveProfile with blanks = %+v, want nil", p)
	}
}
