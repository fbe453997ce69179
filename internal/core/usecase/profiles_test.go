package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/docuvault/redactsvc/internal/core/domain"
)

func TestPutProfileValidatesInput(t *testing.T) {
	uc := NewProfileUseCase(&profileStoreFake{})

	_, err := uc.PutProfile(context.Background(), domain.DocTypeProfile{Name: "  "})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want %v", err, domain.ErrInvalidInput)
	}
}

func TestPutProfileSetsTimestampsOnCreate(t *testing.T) {
	store := &profileStoreFake{}
	uc := NewProfileUseCase(store)

	out, err := uc.PutProfile(context.Background(), domain.DocTypeProfile{
		Name:     "Tax Form",
		Elements: []domain.DataElement{{Name: "Taxpayer Name"}},
	})
	if err != nil {
		t.Fatalf("PutProfile: %v", err)
	}
	if out.CreatedAt.IsZero() || out.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps on create")
	}
	if len(store.puts) != 1 {
		t.Fatalf("puts = %d, want 1", len(store.puts))
	}
}

func TestPutProfilePreservesCreatedAtOnUpdate(t *testing.T) {
	store := &profileStoreFake{}
	created := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)
	_ = store.Put(context.Background(), &domain.DocTypeProfile{
		Name:      "Tax Form",
		Elements:  []domain.DataElement{{Name: "Taxpayer Name"}},
		CreatedAt: created,
		UpdatedAt: created,
	})
	uc := NewProfileUseCase(store)

	out, err := uc.PutProfile(context.Background(), domain.DocTypeProfile{
		Name:     "Tax Form",
		Elements: []domain.DataElement{{Name: "Taxpayer Name"}, {Name: "Tax Year"}},
	})
	if err != nil {
		t.Fatalf("PutProfile: %v", err)
	}
	if !out.CreatedAt.Equal(created) {
		t.Fatalf("CreatedAt = %v, want original %v", out.CreatedAt, created)
	}
	if !out.UpdatedAt.After(created) {
		t.Fatalf("UpdatedAt = %v, want moved past %v", out.UpdatedAt, created)
	}
}

func TestDeleteProfileDelegates(t *testing.T) {
	store := &profileStoreFake{}
	_ = store.Put(context.Background(), &domain.DocTypeProfile{
		Name:     "Tax Form",
		Elements: []domain.DataElement{{Name: "Taxpayer Name"}},
	})
	uc := NewProfileUseCase(store)

	if err := uc.DeleteProfile(context.Background(), "Tax Form"); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	if _, err := uc.GetProfile(context.Background(), "Tax Form"); !domain.IsKind(err, domain.ErrProfileNotFound) {
		t.Fatalf("err = %v, want %v", err, domain.ErrProfileNotFound)
	}
}
