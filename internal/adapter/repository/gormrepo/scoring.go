package gormrepo

import (
	"context"

	"lendbox/internal/domain/scoring"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScoringRepository struct{ db *gorm.DB }

func NewScoringRepository(db *gorm.DB) *ScoringRepository { return &ScoringRepository{db: db} }

func (r *ScoringRepository) CreateLog(ctx context.Context, l *scoring.Log) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *ScoringRepository) ListLogs(ctx context.Context, userID uint64) ([]scoring.Log, error) {
	var out []scoring.Log
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *ScoringRepository) HasLog(ctx context.Context, userID uint64, reason scoring.Reason) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&scoring.Log{}).
		Where("user_id = ? AND reason = ?", userID, reason).
		Count(&n).Error
	return n > 0, err
}

func (r *ScoringRepository) CreateReferral(ctx context.Context, ref *scoring.Referral) error {
	return r.db.WithContext(ctx).Create(ref).Error
}

func (r *ScoringRepository) SaveReferral(ctx context.Context, ref *scoring.Referral) error {
	return r.db.WithContext(ctx).Save(ref).Error
}

func (r *ScoringRepository) GetOpenReferralForUpdate(ctx context.Context, phone string) (*scoring.Referral, error) {
	var out scoring.Referral
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("referred_phone = ? AND referred_user_id IS NULL", phone).
		Order("created_at ASC, id ASC").
		First(&out).Error
	if err != nil {
		return nil, mapNotFound(err, scoring.ErrNotFound)
	}
	return &out, nil
}

func (r *ScoringRepository) CloseOpenReferrals(ctx context.Context, phone string, referredID uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&scoring.Referral{}).
		Where("referred_phone = ? AND referred_user_id IS NULL", phone).
		Update("referred_user_id", referredID)
	return res.RowsAffected, res.Error
}

func (r *ScoringRepository) GetReferralByPhone(ctx context.Context, referrerID uint64, phone string) (*scoring.Referral, error) {
	var out scoring.Referral
	err := r.db.WithContext(ctx).
		Where("referrer_id = ? AND referred_phone = ?", referrerID, phone).
		First(&out).Error
	if err != nil {
		return nil, mapNotFound(err, scoring.ErrNotFound)
	}
	return &out, nil
}

func (r *ScoringRepository) CountReferrals(ctx context.Context, referrerID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&scoring.Referral{}).
		Where("referrer_id = ?", referrerID).
		Count(&n).Error
	return n, err
}

func (r *ScoringRepository) ListReferrals(ctx context.Context, referrerID uint64) ([]scoring.Referral, error) {
	var out []scoring.Referral
	err := r.db.WithContext(ctx).
		Where("referrer_id = ?", referrerID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *ScoringRepository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&scoring.Referral{}).
		Where("referral_code = ?", code).
		Count(&n).Error
	return n > 0, err
}

func (r *ScoringRepository) GetActiveRule(ctx context.Context, ruleType scoring.Reason) (*scoring.Rule, error) {
	var out scoring.Rule
	err := r.db.WithContext(ctx).
		Where("rule_type = ? AND is_active = ?", ruleType, true).
		Order("id ASC").
		First(&out).Error
	if err != nil {
		return nil, mapNotFound(err, scoring.ErrRuleNotFound)
	}
	return &out, nil
}

func (r *ScoringRepository) SeedRules(ctx context.Context, rules []scoring.Rule) error {
	if len(rules) == 0 {
		return nil
	}
	seed := make([]scoring.Rule, len(rules))
	copy(seed, rules)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "rule_name"}}, DoNothing: true}).
		Create(&seed).Error
}

func (r *ScoringRepository) CreatePhoneBill(ctx context.Context, b *scoring.PhoneBill) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *ScoringRepository) SavePhoneBill(ctx context.Context, b *scoring.PhoneBill) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *ScoringRepository) GetPhoneBillForUpdate(ctx context.Context, id uint64) (*scoring.PhoneBill, error) {
	var out scoring.PhoneBill
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&out, id).Error
	if err != nil {
		return nil, mapNotFound(err, scoring.ErrPhoneBillNotFound)
	}
	return &out, nil
}

func (r *ScoringRepository) ListPhoneBills(ctx context.Context, userID uint64) ([]scoring.PhoneBill, error) {
	var out []scoring.PhoneBill
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("uploaded_at DESC, id DESC").
		Find(&out).Error
	return out, err
}
