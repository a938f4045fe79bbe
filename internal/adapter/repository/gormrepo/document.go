package gormrepo

import (
	"context"

	"lendbox/internal/domain/document"

	"gorm.io/gorm"
)

type DocumentRepository struct{ db *gorm.DB }

func NewDocumentRepository(db *gorm.DB) *DocumentRepository { return &DocumentRepository{db: db} }

func (r *DocumentRepository) Create(ctx context.Context, d *document.Document) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DocumentRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&document.Document{}, id).Error
}

func (r *DocumentRepository) DeleteByFolders(ctx context.Context, folderIDs []uint64) error {
	if len(folderIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("folder_id IN ?", folderIDs).Delete(&document.Document{}).Error
}

func (r *DocumentRepository) GetForOwner(ctx context.Context, id, ownerID uint64) (*document.Document, error) {
	var out document.Document
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&out).Error
	if err != nil {
		return nil, mapNotFound(err, document.ErrNotFound)
	}
	return &out, nil
}

func (r *DocumentRepository) List(ctx context.Context, ownerID uint64, f document.Filter) ([]document.Document, error) {
	var out []document.Document
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	switch {
	case f.Root:
		q = q.Where("folder_id IS NULL")
	case f.FolderID != nil:
		q = q.Where("folder_id = ?", *f.FolderID)
	}
	err := q.Order("uploaded_at DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *DocumentRepository) ListByFolders(ctx context.Context, folderIDs []uint64) ([]document.Document, error) {
	var out []document.Document
	if len(folderIDs) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Where("folder_id IN ?", folderIDs).Find(&out).Error
	return out, err
}

func (r *DocumentRepository) ListAll(ctx context.Context, n int) ([]document.Document, error) {
	var out []document.Document
	q := r.db.WithContext(ctx).Order("uploaded_at DESC, id DESC")
	if n > 0 {
		q = q.Limit(n)
	}
	err := q.Find(&out).Error
	return out, err
}

func (r *DocumentRepository) SumSizeByOwner(ctx context.Context, ownerID uint64) (int64, error) {
	return r.sumSize(ctx, "owner_id = ?", ownerID)
}

func (r *DocumentRepository) SumSizeByFolder(ctx context.Context, folderID uint64) (int64, error) {
	return r.sumSize(ctx, "folder_id = ?", folderID)
}

func (r *DocumentRepository) CountByFolder(ctx context.Context, folderID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&document.Document{}).
		Where("folder_id = ?", folderID).
		Count(&n).Error
	return n, err
}

func (r *DocumentRepository) sumSize(ctx context.Context, cond string, arg any) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&document.Document{}).
		Where(cond, arg).
		Select("COALESCE(SUM(file_size), 0)").
		Scan(&total).Error
	return total, err
}
