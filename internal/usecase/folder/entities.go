package folder

import (
	"time"

	"lendbox/internal/domain/folder"
)

type CreateFolderInput struct {
	Name     string  `json:"name" validate:"required,max=255"`
	ParentID *uint64 `json:"parent_id"`
}

// UpdateFolderInput renames and/or moves a folder. ParentSet distinguishes
// "move to root" (ParentSet with nil ParentID) from "leave parent alone".
type UpdateFolderInput struct {
	Name      *string `validate:"omitempty,max=255"`
	ParentSet bool
	ParentID  *uint64
}

type FolderDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *uint64   `json:"parent_id"`
	Path      string    `json:"path,omitempty"`
	FileCount int64     `json:"file_count"`
	TotalSize int64     `json:"total_size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toFolderDTO(f *folder.Folder) FolderDTO {
	return FolderDTO{
		ID:        f.ID,
		Name:      f.Name,
		ParentID:  f.ParentID,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

type DeleteResult struct {
	Folders     int   `json:"folders_deleted"`
	Documents   int   `json:"documents_deleted"`
	StorageUsed int64 `json:"storage_used"`
}
