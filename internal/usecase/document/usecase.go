package document

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"

	"lendbox/internal/domain/document"
	"lendbox/internal/domain/folder"
	"lendbox/internal/domain/uow"
	"lendbox/internal/domain/user"
	"lendbox/internal/infrastructure/blob"

	"github.com/sirupsen/logrus"
)

type Config struct {
	MaxUploadSize int64
	AllowedTypes  []string
}

type Usecase struct {
	uow   uow.UnitOfWork
	repos uow.Repos
	blobs blob.Store
	cfg   Config
	log   *logrus.Logger
}

func NewUsecase(u uow.UnitOfWork, repos uow.Repos, blobs blob.Store, cfg Config, log *logrus.Logger) *Usecase {
	return &Usecase{uow: u, repos: repos, blobs: blobs, cfg: cfg, log: log}
}

// CanAccept reports whether size more bytes fit in the user's quota.
func CanAccept(u *user.User, size int64) bool { return u.HasStorageAvailable(size) }

// RecountStorage sets storage_used to the full sum of the owner's documents.
func RecountStorage(ctx context.Context, r uow.Repos, u *user.User) error {
	used, err := r.Documents.SumSizeByOwner(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("recount storage: %w", err)
	}
	u.StorageUsed = used
	return r.Users.Save(ctx, u)
}

// Upload stores the files for ownerID. Oversized files are skipped and
// reported; a disallowed type or a file that does not fit the quota fails
// the whole request and nothing is kept.
func (u *Usecase) Upload(ctx context.Context, ownerID uint64, in UploadInput) (*UploadResult, error) {
	if len(in.Files) == 0 {
		return nil, document.ErrNoFiles
	}
	for _, f := range in.Files {
		if !document.Allowed(f.Name, u.cfg.AllowedTypes) {
			return nil, fmt.Errorf("%w: %s", document.ErrFileTypeNotAllowed, f.Name)
		}
	}

	res := &UploadResult{Uploaded: []DocumentDTO{}}
	var written []string
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		owner, err := r.Users.GetByIDForUpdate(ctx, ownerID)
		if err != nil {
			return err
		}
		if in.FolderID != nil {
			if _, err := r.Folders.GetByIDForOwner(ctx, *in.FolderID, ownerID); err != nil {
				if errors.Is(err, folder.ErrNotFound) {
					return document.ErrFolderNotFound
				}
				return err
			}
		}

		for _, f := range in.Files {
			if u.cfg.MaxUploadSize > 0 && f.Size > u.cfg.MaxUploadSize {
				res.Skipped = append(res.Skipped, SkippedFile{Name: f.Name, Reason: document.ErrFileTooLarge.Error()})
				continue
			}
			if !CanAccept(owner, f.Size) {
				return fmt.Errorf("%w: %s needs %d bytes, %d free", document.ErrInsufficientQuota, f.Name, f.Size, owner.StorageQuota-owner.StorageUsed)
			}

			key := blob.NewKey(u.prefix(ownerID, in.FolderID), f.Name)
			size, sum, err := u.store(ctx, key, f)
			if err != nil {
				return fmt.Errorf("store %s: %w", f.Name, err)
			}
			written = append(written, key)
			if !CanAccept(owner, size) {
				return fmt.Errorf("%w: %s is larger than declared", document.ErrInsufficientQuota, f.Name)
			}

			doc := &document.Document{
				Name:       f.Name,
				StorageKey: key,
				FileType:   document.FileType(f.Name),
				FileSize:   size,
				OwnerID:    ownerID,
				FolderID:   in.FolderID,
				Checksum:   sum,
			}
			if err := r.Documents.Create(ctx, doc); err != nil {
				return err
			}
			owner.StorageUsed += size
			res.Uploaded = append(res.Uploaded, ToDocumentDTO(doc))
		}

		if err := RecountStorage(ctx, r, owner); err != nil {
			return err
		}
		res.StorageUsed, res.StorageQuota = owner.StorageUsed, owner.StorageQuota
		return nil
	})
	if err != nil {
		u.discard(ctx, written)
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"owner_id": ownerID, "uploaded": len(res.Uploaded), "skipped": len(res.Skipped)}).Info("documents uploaded")
	return res, nil
}

func (u *Usecase) prefix(ownerID uint64, folderID *uint64) string {
	f := "root"
	if folderID != nil {
		f = strconv.FormatUint(*folderID, 10)
	}
	return "documents/" + strconv.FormatUint(ownerID, 10) + "/" + f
}

// store streams the file to the blob store, returning its size and sha256.
func (u *Usecase) store(ctx context.Context, key string, f FileInput) (int64, string, error) {
	rc, err := f.Open()
	if err != nil {
		return 0, "", err
	}
	defer rc.Close()

	h := sha256.New()
	cr := &countingReader{r: io.TeeReader(rc, h)}
	if err := u.blobs.Put(ctx, key, cr, f.ContentType); err != nil {
		return 0, "", err
	}
	return cr.n, hex.EncodeToString(h.Sum(nil)), nil
}

// discard removes blobs whose rows never committed.
func (u *Usecase) discard(ctx context.Context, keys []string) {
	for _, k := range keys {
		if err := u.blobs.Delete(context.WithoutCancel(ctx), k); err != nil {
			u.log.WithError(err).WithField("key", k).Warn("orphan blob not removed")
		}
	}
}

func (u *Usecase) List(ctx context.Context, ownerID uint64, f document.Filter) ([]DocumentDTO, error) {
	docs, err := u.repos.Documents.List(ctx, ownerID, f)
	if err != nil {
		return nil, err
	}
	out := make([]DocumentDTO, 0, len(docs))
	for i := range docs {
		out = append(out, ToDocumentDTO(&docs[i]))
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, ownerID, id uint64) (*DocumentDTO, error) {
	d, err := u.repos.Documents.GetForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	dto := ToDocumentDTO(d)
	return &dto, nil
}

// Open returns the stored bytes; the caller closes the reader.
func (u *Usecase) Open(ctx context.Context, ownerID, id uint64) (*DocumentDTO, io.ReadCloser, error) {
	d, err := u.repos.Documents.GetForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := u.blobs.Open(ctx, d.StorageKey)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: content missing", document.ErrNotFound)
		}
		return nil, nil, err
	}
	dto := ToDocumentDTO(d)
	return &dto, rc, nil
}

// Delete removes the row, recounts usage, then drops the blob.
func (u *Usecase) Delete(ctx context.Context, ownerID, id uint64) error {
	var key string
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		owner, err := r.Users.GetByIDForUpdate(ctx, ownerID)
		if err != nil {
			return err
		}
		d, err := r.Documents.GetForOwner(ctx, id, ownerID)
		if err != nil {
			return err
		}
		key = d.StorageKey
		if err := r.Documents.Delete(ctx, d.ID); err != nil {
			return err
		}
		return RecountStorage(ctx, r, owner)
	})
	if err != nil {
		return err
	}
	u.discard(ctx, []string{key})
	return nil
}

// ListAll is the operator view across owners.
func (u *Usecase) ListAll(ctx context.Context, n int) ([]document.Document, error) {
	return u.repos.Documents.ListAll(ctx, n)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
