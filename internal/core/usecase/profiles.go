package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/docuvault/redactsvc/internal/core/domain"
	"github.com/docuvault/redactsvc/internal/core/ports"
)

type ProfileUseCase struct {
	store ports.ProfileStore
}

func NewProfileUseCase(store ports.ProfileStore) *ProfileUseCase {
	return &ProfileUseCase{store: store}
}

func (uc *ProfileUseCase) PutProfile(ctx context.Context, profile domain.DocTypeProfile) (*domain.DocTypeProfile, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	existing, err := uc.store.Get(ctx, profile.Name)
	switch {
	case err == nil:
		profile.CreatedAt = existing.CreatedAt
	case domain.IsKind(err, domain.ErrProfileNotFound):
		profile.CreatedAt = now
	default:
		return nil, fmt.Errorf("check existing profile: %w", err)
	}
	profile.UpdatedAt = now

	if err := uc.store.Put(ctx, &profile); err != nil {
		return nil, fmt.Errorf("store profile: %w", err)
	}
	return &profile, nil
}

func (uc *ProfileUseCase) GetProfile(ctx context.Context, name string) (*domain.DocTypeProfile, error) {
	return uc.store.Get(ctx, name)
}

func (uc *ProfileUseCase) ListProfiles(ctx context.Context) ([]domain.DocTypeProfile, error) {
	return uc.store.List(ctx)
}

func (uc *ProfileUseCase) DeleteProfile(ctx context.Context, name string) error {
	return uc.store.Delete(ctx, name)
}
