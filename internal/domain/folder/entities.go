package folder

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("folder not found")
	ErrParentNotFound = errors.New("parent folder not found")
	ErrNameRequired   = errors.New("folder name is required")
	ErrDuplicateName  = errors.New("a folder with this name already exists here")
	ErrCycle          = errors.New("folder cannot be moved inside itself")
	ErrTooDeep        = errors.New("folder hierarchy too deep")
)

// MaxDepth bounds every walk over the tree. No folder sits MaxDepth or
// more levels below its root.
const MaxDepth = 64

// Table: folders
type Folder struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;size:255;not null;uniqueIndex:ux_folders_owner_parent_name" json:"name"`
	OwnerID   uint64    `gorm:"column:owner_id;not null;uniqueIndex:ux_folders_owner_parent_name;index" json:"owner_id"`
	ParentID  *uint64   `gorm:"column:parent_id;uniqueIndex:ux_folders_owner_parent_name;index" json:"parent_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Folder) TableName() string { return "folders" }
