package gormrepo

import (
	"context"

	"lendbox/internal/domain/borrow"
	"lendbox/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Users:     &UserRepository{db: tx},
		OTPs:      &OTPRepository{db: tx},
		Borrow:    &BorrowRepository{db: tx},
		KYC:       &KYCRepository{db: tx},
		Scoring:   &ScoringRepository{db: tx},
		Folders:   &FolderRepository{db: tx},
		Documents: &DocumentRepository{db: tx},
	}
}

// Repos returns repositories bound to the plain connection, outside any tx.
func Repos(db *gorm.DB) uow.Repos { return reposFor(db) }

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinLimitTx(ctx context.Context, seed *borrow.Limit, fn func(r uow.Repos, l *borrow.Limit) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		if err := r.Borrow.EnsureLimit(ctx, seed); err != nil {
			return err
		}
		// lock the limit row up-front so concurrent writers queue behind us
		l, err := r.Borrow.GetLimitForUpdate(ctx, seed.UserID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}
