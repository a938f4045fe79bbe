package document

import (
	"io"
	"time"

	"lendbox/internal/domain/document"
)

// FileInput is one uploaded file; Open is called once, inside the upload.
type FileInput struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

type UploadInput struct {
	FolderID *uint64
	Files    []FileInput
}

type DocumentDTO struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	FileType     string    `json:"file_type"`
	FileSize     int64     `json:"file_size"`
	ReadableSize string    `json:"readable_size"`
	FolderID     *uint64   `json:"folder_id"`
	Checksum     string    `json:"checksum"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

type SkippedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type UploadResult struct {
	Uploaded     []DocumentDTO `json:"documents"`
	Skipped      []SkippedFile `json:"skipped,omitempty"`
	StorageUsed  int64         `json:"storage_used"`
	StorageQuota int64         `json:"storage_quota"`
}

func ToDocumentDTO(d *document.Document) DocumentDTO {
	return DocumentDTO{
		ID:           d.ID,
		Name:         d.Name,
		FileType:     d.FileType,
		FileSize:     d.FileSize,
		ReadableSize: document.ReadableSize(d.FileSize),
		FolderID:     d.FolderID,
		Checksum:     d.Checksum,
		UploadedAt:   d.UploadedAt,
	}
}
