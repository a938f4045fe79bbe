package otpmock

import (
	"context"

	domain "lendbox/internal/domain/otp"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                func(ctx context.Context, o *domain.OTP) error
	SaveFn                  func(ctx context.Context, o *domain.OTP) error
	DeleteUnusedFn          func(ctx context.Context, phone string) (int64, error)
	LatestUnusedForUpdateFn func(ctx context.Context, phone string) (*domain.OTP, error)
}

func (m *Repo) Create(ctx context.Context, o *domain.OTP) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, o)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, o *domain.OTP) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, o)
	}
	return nil
}

func (m *Repo) DeleteUnused(ctx context.Context, phone string) (int64, error) {
	if m.DeleteUnusedFn != nil {
		return m.DeleteUnusedFn(ctx, phone)
	}
	return 0, nil
}

func (m *Repo) LatestUnusedForUpdate(ctx context.Context, phone string) (*domain.OTP, error) {
	if m.LatestUnusedForUpdateFn != nil {
		return m.LatestUnusedForUpdateFn(ctx, phone)
	}
	return nil, domain.ErrNotFound
}
