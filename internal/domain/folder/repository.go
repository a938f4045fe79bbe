package folder

import "context"

type Repository interface {
	Lookup

	Create(ctx context.Context, f *Folder) error
	Save(ctx context.Context, f *Folder) error
	DeleteByIDs(ctx context.Context, ids []uint64) error
	GetByIDForOwner(ctx context.Context, id, ownerID uint64) (*Folder, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]Folder, error)
	// Sibling with the given name under parent (nil = root).
	FindByName(ctx context.Context, ownerID uint64, parentID *uint64, name string) (*Folder, error)
}
