package document

import "context"

// Filter narrows List. With Root set only documents outside any folder match;
// otherwise a non-nil FolderID selects one folder and nil selects everything.
type Filter struct {
	FolderID *uint64
	Root     bool
}

type Repository interface {
	Create(ctx context.Context, d *Document) error
	Delete(ctx context.Context, id uint64) error
	DeleteByFolders(ctx context.Context, folderIDs []uint64) error
	GetForOwner(ctx context.Context, id, ownerID uint64) (*Document, error)
	List(ctx context.Context, ownerID uint64, f Filter) ([]Document, error)
	ListByFolders(ctx context.Context, folderIDs []uint64) ([]Document, error)
	// Newest first; n <= 0 means no limit.
	ListAll(ctx context.Context, n int) ([]Document, error)

	SumSizeByOwner(ctx context.Context, ownerID uint64) (int64, error)
	CountByFolder(ctx context.Context, folderID uint64) (int64, error)
	SumSizeByFolder(ctx context.Context, folderID uint64) (int64, error)
}
