package usecase

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/docuvault/redactsvc/internal/core/domain"
)

type statusCall struct {
	status domain.DocumentStatus
	errMsg string
}

type repoFake struct {
	doc         *domain.Document
	getErr      error
	createErr   error
	statusErr   error
	created     []*domain.Document
	statusCalls []statusCall
}

func (f *repoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, doc)
	return nil
}

func (f *repoFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copyDoc := *f.doc
	return &copyDoc, nil
}

func (f *repoFake) UpdateStatus(_ context.Context, _ string, status domain.DocumentStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	return f.statusErr
}

type analysisRepoFake struct {
	analysis  *domain.AnalysisResult
	getErr    error
	saveErr   error
	saved     *domain.AnalysisResult
	redaction *domain.RedactionRecord
}

func (f *analysisRepoFake) SaveAnalysis(_ context.Context, result *domain.AnalysisResult) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = result
	return nil
}

func (f *analysisRepoFake) GetAnalysis(context.Context, string) (*domain.AnalysisResult, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copyResult := *f.analysis
	return &copyResult, nil
}

func (f *analysisRepoFake) SaveRedaction(_ context.Context, record *domain.RedactionRecord) error {
	f.redaction = record
	return nil
}

type profileStoreFake struct {
	profiles map[string]*domain.DocTypeProfile
	listErr  error
	puts     []*domain.DocTypeProfile
}

func (f *profileStoreFake) Put(_ context.Context, profile *domain.DocTypeProfile) error {
	if f.profiles == nil {
		f.profiles = map[string]*domain.DocTypeProfile{}
	}
	copyProfile := *profile
	f.profiles[profile.Name] = &copyProfile
	f.puts = append(f.puts, &copyProfile)
	return nil
}

func (f *profileStoreFake) Get(_ context.Context, name string) (*domain.DocTypeProfile, error) {
	for _, p := range f.profiles {
		if strings.EqualFold(p.Name, name) {
			copyProfile := *p
			return &copyProfile, nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

func (f *profileStoreFake) List(context.Context) ([]domain.DocTypeProfile, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.DocTypeProfile, 0, len(f.profiles))
	for _, p := range f.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (f *profileStoreFake) Delete(_ context.Context, name string) error {
	delete(f.profiles, name)
	return nil
}

type feedbackRepoFake struct {
	created []*domain.ReviewFeedback
	items   []domain.ReviewFeedback
	err     error
}

func (f *feedbackRepoFake) Create(_ context.Context, feedback *domain.ReviewFeedback) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, feedback)
	return nil
}

func (f *feedbackRepoFake) List(context.Context, int) ([]domain.ReviewFeedback, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type storageFake struct {
	objects map[string][]byte
	saveErr error
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = raw
	return nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	raw, ok := f.objects[key]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

type queueFake struct {
	published []string
	err       error
}

func (f *queueFake) PublishDocumentReceived(_ context.Context, documentID string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, documentID)
	return nil
}

func (f *queueFake) SubscribeDocumentReceived(context.Context, func(context.Context, string) error) error {
	return nil
}

type ocrFake struct {
	result *domain.OCRResult
	err    error
}

func (f *ocrFake) AnalyzeDocument(context.Context, string, io.Reader) (*domain.OCRResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type extractorFake struct {
	text string
	err  error
}

func (f *extractorFake) Extract(context.Context, *domain.Document) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type classifierFake struct {
	cls     domain.Classification
	err     error
	choices []domain.DocTypeProfile
}

func (f *classifierFake) Classify(_ context.Context, _ string, choices []domain.DocTypeProfile) (domain.Classification, error) {
	f.choices = choices
	if f.err != nil {
		return domain.Classification{}, f.err
	}
	return f.cls, nil
}

type matcherFake struct {
	matches   []domain.FieldMatch
	unmatched []string
	elements  []domain.DataElement
}

func (f *matcherFake) MatchFields(elements []domain.DataElement, fields []domain.ExtractedField) ([]domain.FieldMatch, []string) {
	f.elements = elements
	if len(elements) == 0 {
		labels := make([]string, 0, len(fields))
		for _, field := range fields {
			labels = append(labels, field.Label)
		}
		return nil, labels
	}
	return f.matches, f.unmatched
}

type rendererFake struct {
	raw []byte
	err error
}

func (f *rendererFake) RenderRedactionReport(*domain.Document, *domain.RedactionRecord, []domain.FieldMatch) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.raw == nil {
		return []byte("%PDF-fake"), nil
	}
	return f.raw, nil
}
