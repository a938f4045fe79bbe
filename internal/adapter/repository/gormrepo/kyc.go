package gormrepo

import (
	"context"

	"lendbox/internal/domain/kyc"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KYCRepository struct{ db *gorm.DB }

func NewKYCRepository(db *gorm.DB) *KYCRepository { return &KYCRepository{db: db} }

func (r *KYCRepository) EnsureProfile(ctx context.Context, p *kyc.Profile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(p).Error
}

func (r *KYCRepository) GetProfileByUserID(ctx context.Context, userID uint64) (*kyc.Profile, error) {
	var out kyc.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out).Error; err != nil {
		return nil, mapNotFound(err, kyc.ErrNotFound)
	}
	return &out, nil
}

func (r *KYCRepository) SaveProfile(ctx context.Context, p *kyc.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *KYCRepository) UpsertResponse(ctx context.Context, resp *kyc.Response) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "kyc_profile_id"}, {Name: "question_index"}},
			DoUpdates: clause.AssignmentColumns([]string{"question_text", "answer", "answered_at"}),
		}).
		Create(resp).Error
}

func (r *KYCRepository) CountResponses(ctx context.Context, profileID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&kyc.Response{}).
		Where("kyc_profile_id = ?", profileID).
		Count(&n).Error
	return n, err
}

func (r *KYCRepository) ListResponses(ctx context.Context, profileID uint64) ([]kyc.Response, error) {
	var out []kyc.Response
	err := r.db.WithContext(ctx).
		Where("kyc_profile_id = ?", profileID).
		Order("question_index ASC").
		Find(&out).Error
	return out, err
}

func (r *KYCRepository) CreateDocument(ctx context.Context, d *kyc.Document) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *KYCRepository) GetDocumentForUpdate(ctx context.Context, id uint64) (*kyc.Document, error) {
	var out kyc.Document
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&out, id).Error
	if err != nil {
		return nil, mapNotFound(err, kyc.ErrDocumentNotFound)
	}
	return &out, nil
}

func (r *KYCRepository) SaveDocument(ctx context.Context, d *kyc.Document) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *KYCRepository) ListDocuments(ctx context.Context, profileID uint64) ([]kyc.Document, error) {
	var out []kyc.Document
	err := r.db.WithContext(ctx).
		Where("kyc_profile_id = ?", profileID).
		Order("uploaded_at ASC, id ASC").
		Find(&out).Error
	return out, err
}
