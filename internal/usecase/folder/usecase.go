package folder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lendbox/internal/domain/folder"
	"lendbox/internal/domain/uow"
	"lendbox/internal/infrastructure/blob"
	documentuc "lendbox/internal/usecase/document"

	"github.com/sirupsen/logrus"
)

type Usecase struct {
	uow   uow.UnitOfWork
	repos uow.Repos
	blobs blob.Store
	log   *logrus.Logger
}

func NewUsecase(u uow.UnitOfWork, repos uow.Repos, blobs blob.Store, log *logrus.Logger) *Usecase {
	return &Usecase{uow: u, repos: repos, blobs: blobs, log: log}
}

func (u *Usecase) List(ctx context.Context, ownerID uint64) ([]FolderDTO, error) {
	fs, err := u.repos.Folders.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]FolderDTO, 0, len(fs))
	for i := range fs {
		dto, err := u.describe(ctx, u.repos, &fs[i], false)
		if err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}

// Get returns the folder with its full path and direct document stats.
func (u *Usecase) Get(ctx context.Context, ownerID, id uint64) (*FolderDTO, error) {
	f, err := u.repos.Folders.GetByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	dto, err := u.describe(ctx, u.repos, f, true)
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func (u *Usecase) Create(ctx context.Context, ownerID uint64, in CreateFolderInput) (*FolderDTO, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, folder.ErrNameRequired
	}
	var dto FolderDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := checkParent(ctx, r, ownerID, in.ParentID); err != nil {
			return err
		}
		if err := checkUnique(ctx, r, ownerID, in.ParentID, name, 0); err != nil {
			return err
		}
		f := &folder.Folder{Name: name, OwnerID: ownerID, ParentID: in.ParentID}
		if err := r.Folders.Create(ctx, f); err != nil {
			return err
		}
		var err error
		dto, err = u.describe(ctx, r, f, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// Update renames and/or moves the folder. Moving a folder under itself or
// one of its descendants fails with ErrCycle; a move that would push any
// folder of the subtree to MaxDepth fails with ErrTooDeep.
func (u *Usecase) Update(ctx context.Context, ownerID, id uint64, in UpdateFolderInput) (*FolderDTO, error) {
	var dto FolderDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		f, err := r.Folders.GetByIDForOwner(ctx, id, ownerID)
		if err != nil {
			return err
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return folder.ErrNameRequired
			}
			f.Name = name
		}
		if in.ParentSet {
			if err := checkMove(ctx, r, ownerID, f, in.ParentID); err != nil {
				return err
			}
			f.ParentID = in.ParentID
		}
		if err := checkUnique(ctx, r, ownerID, f.ParentID, f.Name, f.ID); err != nil {
			return err
		}
		if err := r.Folders.Save(ctx, f); err != nil {
			return err
		}
		dto, err = u.describe(ctx, r, f, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// Delete removes the folder, every folder below it and all their documents,
// then recounts the owner's storage. Blobs go after the commit.
func (u *Usecase) Delete(ctx context.Context, ownerID, id uint64) (*DeleteResult, error) {
	var (
		res  DeleteResult
		keys []string
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		owner, err := r.Users.GetByIDForUpdate(ctx, ownerID)
		if err != nil {
			return err
		}
		f, err := r.Folders.GetByIDForOwner(ctx, id, ownerID)
		if err != nil {
			return err
		}
		below, err := folder.Descendants(ctx, r.Folders, f)
		if err != nil {
			return err
		}
		ids := make([]uint64, 0, len(below)+1)
		ids = append(ids, f.ID)
		for _, d := range below {
			ids = append(ids, d.ID)
		}

		docs, err := r.Documents.ListByFolders(ctx, ids)
		if err != nil {
			return err
		}
		for _, d := range docs {
			keys = append(keys, d.StorageKey)
		}
		if err := r.Documents.DeleteByFolders(ctx, ids); err != nil {
			return err
		}
		if err := r.Folders.DeleteByIDs(ctx, ids); err != nil {
			return err
		}
		if err := documentuc.RecountStorage(ctx, r, owner); err != nil {
			return err
		}
		res = DeleteResult{Folders: len(ids), Documents: len(docs), StorageUsed: owner.StorageUsed}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		if err := u.blobs.Delete(context.WithoutCancel(ctx), k); err != nil {
			u.log.WithError(err).WithField("key", k).Warn("orphan blob not removed")
		}
	}
	u.log.WithFields(logrus.Fields{"owner_id": ownerID, "folder_id": id, "folders": res.Folders, "documents": res.Documents}).Info("folder deleted")
	return &res, nil
}

func (u *Usecase) describe(ctx context.Context, r uow.Repos, f *folder.Folder, withPath bool) (FolderDTO, error) {
	dto := toFolderDTO(f)
	var err error
	if dto.FileCount, err = r.Documents.CountByFolder(ctx, f.ID); err != nil {
		return dto, err
	}
	if dto.TotalSize, err = r.Documents.SumSizeByFolder(ctx, f.ID); err != nil {
		return dto, err
	}
	if withPath {
		if dto.Path, err = folder.FullPath(ctx, r.Folders, f); err != nil {
			return dto, err
		}
	}
	return dto, nil
}

// checkParent also rejects a parent already on the last level.
func checkParent(ctx context.Context, r uow.Repos, ownerID uint64, parentID *uint64) error {
	if parentID == nil {
		return nil
	}
	parent, err := r.Folders.GetByIDForOwner(ctx, *parentID, ownerID)
	if err != nil {
		if errors.Is(err, folder.ErrNotFound) {
			return folder.ErrParentNotFound
		}
		return err
	}
	depth, err := folder.Depth(ctx, r.Folders, parent)
	if err != nil {
		return err
	}
	if !folder.Fits(depth, 0) {
		return folder.ErrTooDeep
	}
	return nil
}

func checkMove(ctx context.Context, r uow.Repos, ownerID uint64, f *folder.Folder, parentID *uint64) error {
	if parentID == nil {
		return nil
	}
	if *parentID == f.ID {
		return folder.ErrCycle
	}
	parent, err := r.Folders.GetByIDForOwner(ctx, *parentID, ownerID)
	if err != nil {
		if errors.Is(err, folder.ErrNotFound) {
			return folder.ErrParentNotFound
		}
		return err
	}
	below, err := folder.IsAncestorOf(ctx, r.Folders, f, parent)
	if err != nil {
		return err
	}
	if below {
		return folder.ErrCycle
	}
	depth, err := folder.Depth(ctx, r.Folders, parent)
	if err != nil {
		return err
	}
	height, err := folder.Height(ctx, r.Folders, f)
	if err != nil {
		return err
	}
	if !folder.Fits(depth, height) {
		return folder.ErrTooDeep
	}
	return nil
}

// checkUnique rejects a sibling with the same name; self is ignored.
func checkUnique(ctx context.Context, r uow.Repos, ownerID uint64, parentID *uint64, name string, self uint64) error {
	other, err := r.Folders.FindByName(ctx, ownerID, parentID, name)
	if errors.Is(err, folder.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if other.ID != self {
		return fmt.Errorf("%w: %s", folder.ErrDuplicateName, name)
	}
	return nil
}
