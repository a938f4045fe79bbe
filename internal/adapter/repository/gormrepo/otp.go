package gormrepo

import (
	"context"

	"lendbox/internal/domain/otp"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OTPRepository struct{ db *gorm.DB }

func NewOTPRepository(db *gorm.DB) *OTPRepository { return &OTPRepository{db: db} }

func (r *OTPRepository) Create(ctx context.Context, o *otp.OTP) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OTPRepository) Save(ctx context.Context, o *otp.OTP) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *OTPRepository) DeleteUnused(ctx context.Context, phone string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("phone_number = ? AND is_used = ?", phone, false).
		Delete(&otp.OTP{})
	return res.RowsAffected, res.Error
}

func (r *OTPRepository) LatestUnusedForUpdate(ctx context.Context, phone string) (*otp.OTP, error) {
	var out otp.OTP
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("phone_number = ? AND is_used = ?", phone, false).
		Order("created_at DESC, id DESC").
		First(&out).Error
	if err != nil {
		return nil, mapNotFound(err, otp.ErrNotFound)
	}
	return &out, nil
}
