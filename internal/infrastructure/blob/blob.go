package blob

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"

	"lendbox/pkg/id"
)

var (
	ErrNotFound = errors.New("blob not found")
	ErrExists   = errors.New("blob already exists")
)

// Store holds uploaded file bytes under opaque keys.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// NewKey builds "<prefix>/<random><ext>" keeping the original extension.
func NewKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(prefix, id.NewID32()+ext)
}
