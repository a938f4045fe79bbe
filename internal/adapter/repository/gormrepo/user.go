package gormrepo

import (
	"context"

	"lendbox/internal/domain/user"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*user.User, error) {
	var out user.User
	if err := r.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, mapNotFound(err, user.ErrNotFound)
	}
	return &out, nil
}

func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*user.User, error) {
	var out user.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&out, id).Error
	if err != nil {
		return nil, mapNotFound(err, user.ErrNotFound)
	}
	return &out, nil
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*user.User, error) {
	var out user.User
	if err := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&out).Error; err != nil {
		return nil, mapNotFound(err, user.ErrNotFound)
	}
	return &out, nil
}

func (r *UserRepository) GetProfileByPhone(ctx context.Context, phone string) (*user.WhatsAppProfile, error) {
	var out user.WhatsAppProfile
	if err := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&out).Error; err != nil {
		return nil, mapNotFound(err, user.ErrNotFound)
	}
	return &out, nil
}

func (r *UserRepository) SaveProfile(ctx context.Context, p *user.WhatsAppProfile) error {
	return r.db.WithContext(ctx).Save(p).Error
}
