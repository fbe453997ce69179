package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/docuvault/redactsvc/internal/core/domain"
)

func TestUploadStoresPersistsAndPublishes(t *testing.T) {
	repo := &repoFake{}
	storage := &storageFake{}
	queue := &queueFake{}
	uc := NewUploadDocumentUseCase(repo, storage, queue)

	doc, err := uc.Upload(context.Background(), "W-2 Form 2025.pdf", "application/pdf", " Tax Form ", strings.NewReader("%PDF-1.7 payload"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if doc.ID == "" {
		t.Fatal("expected a generated document id")
	}
	if doc.Status != domain.StatusUploaded {
		t.Fatalf("status = %s, want %s", doc.Status, domain.StatusUploaded)
	}
	if doc.DocTypeHint != "Tax Form" {
		t.Fatalf("doc type hint = %q, want trimmed hint", doc.DocTypeHint)
	}

	wantKey := doc.ID + "_W-2_Form_2025.pdf"
	if doc.StoragePath != wantKey {
		t.Fatalf("storage path = %q, want %q", doc.StoragePath, wantKey)
	}
	if string(storage.objects[wantKey]) != "%PDF-1.7 payload" {
		t.Fatal("stored object does not match uploaded body")
	}

	if len(repo.created) != 1 {
		t.Fatalf("created %d documents, want 1", len(repo.created))
	}
	if len(queue.published) != 1 || queue.published[0] != doc.ID {
		t.Fatalf("published = %v, want [%s]", queue.published, doc.ID)
	}
}

func TestUploadStorageFailureSkipsPersistence(t *testing.T) {
	repo := &repoFake{}
	storage := &storageFake{saveErr: errors.New("disk full")}
	queue := &queueFake{}
	uc := NewUploadDocumentUseCase(repo, storage, queue)

	if _, err := uc.Upload(context.Background(), "a.pdf", "application/pdf", "", strings.NewReader("x")); err == nil {
		t.Fatal("expected error when storage fails")
	}
	if len(repo.created) != 0 {
		t.Fatal("document must not be persisted when the blob save fails")
	}
	if len(queue.published) != 0 {
		t.Fatal("event must not be published when the blob save fails")
	}
}

func TestUploadPublishFailureSurfaces(t *testing.T) {
	repo := &repoFake{}
	storage := &storageFake{}
	queue := &queueFake{err: errors.New("nats down")}
	uc := NewUploadDocumentUseCase(repo, storage, queue)

	if _, err := uc.Upload(context.Background(), "a.pdf", "application/pdf", "", strings.NewReader("x")); err == nil {
		t.Fatal("expected error when publish fails")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"statement (final).pdf": "statement__final_.pdf",
		"../../etc/passwd":      "passwd",
		"résumé.pdf":            "r_sum_.pdf",
		"":                      "document.bin",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
