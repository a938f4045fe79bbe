package gormrepo

import (
	"context"

	"lendbox/internal/domain/folder"

	"gorm.io/gorm"
)

type FolderRepository struct{ db *gorm.DB }

func NewFolderRepository(db *gorm.DB) *FolderRepository { return &FolderRepository{db: db} }

func (r *FolderRepository) Create(ctx context.Context, f *folder.Folder) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FolderRepository) Save(ctx context.Context, f *folder.Folder) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *FolderRepository) DeleteByIDs(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&folder.Folder{}).Error
}

func (r *FolderRepository) GetByID(ctx context.Context, id uint64) (*folder.Folder, error) {
	var out folder.Folder
	if err := r.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, mapNotFound(err, folder.ErrNotFound)
	}
	return &out, nil
}

func (r *FolderRepository) GetByIDForOwner(ctx context.Context, id, ownerID uint64) (*folder.Folder, error) {
	var out folder.Folder
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&out).Error
	if err != nil {
		return nil, mapNotFound(err, folder.ErrNotFound)
	}
	return &out, nil
}

func (r *FolderRepository) ListChildren(ctx context.Context, parentID uint64) ([]folder.Folder, error) {
	var out []folder.Folder
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("name ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *FolderRepository) ListByOwner(ctx context.Context, ownerID uint64) ([]folder.Folder, error) {
	var out []folder.Folder
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *FolderRepository) FindByName(ctx context.Context, ownerID uint64, parentID *uint64, name string) (*folder.Folder, error) {
	var out folder.Folder
	q := r.db.WithContext(ctx).Where("owner_id = ? AND name = ?", ownerID, name)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	if err := q.First(&out).Error; err != nil {
		return nil, mapNotFound(err, folder.ErrNotFound)
	}
	return &out, nil
}
