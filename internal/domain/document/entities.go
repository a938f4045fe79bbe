package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrNotFound           = errors.New("document not found")
	ErrFolderNotFound     = errors.New("folder not found")
	ErrInsufficientQuota  = errors.New("insufficient storage space")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrNoFiles            = errors.New("no files provided")
	ErrFileTooLarge       = errors.New("file exceeds maximum upload size")
)

// Table: documents
type Document struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"column:name;size:255;not null" json:"name"`
	StorageKey string    `gorm:"column:storage_key;size:255;not null" json:"-"`
	FileType   string    `gorm:"column:file_type;size:10;not null" json:"file_type"`
	FileSize   int64     `gorm:"column:file_size;not null" json:"file_size"`
	OwnerID    uint64    `gorm:"column:owner_id;not null;index" json:"owner_id"`
	FolderID   *uint64   `gorm:"column:folder_id;index" json:"folder_id"`
	Checksum   string    `gorm:"column:checksum;size:64;not null" json:"checksum"`
	UploadedAt time.Time `gorm:"column:uploaded_at;autoCreateTime" json:"uploaded_at"`
}

func (Document) TableName() string { return "documents" }

// FileType is the lower-cased extension of name without the dot.
func FileType(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// Allowed reports whether name carries one of the allowed extensions (".pdf" form).
func Allowed(name string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if a == ext {
			return true
		}
	}
	return false
}

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// ReadableSize renders n bytes using 1024-based units.
func ReadableSize(n int64) string {
	size := float64(n)
	for _, unit := range sizeUnits {
		if size < 1024 || unit == sizeUnits[len(sizeUnits)-1] {
			if unit == "B" {
				return fmt.Sprintf("%d B", n)
			}
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return ""
}
