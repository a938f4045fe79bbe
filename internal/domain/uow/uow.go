package uow

import (
	"context"

	"lendbox/internal/domain/borrow"
	"lendbox/internal/domain/document"
	"lendbox/internal/domain/folder"
	"lendbox/internal/domain/kyc"
	"lendbox/internal/domain/otp"
	"lendbox/internal/domain/scoring"
	"lendbox/internal/domain/user"
)

// Repos are bound to the same transaction.
type Repos struct {
	Users     user.Repository
	OTPs      otp.Repository
	Borrow    borrow.Repository
	KYC       kyc.Repository
	Scoring   scoring.Repository
	Folders   folder.Repository
	Documents document.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// ensures the user's limit exists (seeded from seed), locks it, then passes it in
	WithinLimitTx(ctx context.Context, seed *borrow.Limit, fn func(r Repos, l *borrow.Limit) error) error
}
