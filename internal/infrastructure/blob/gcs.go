package blob

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
)

// GCSStore keeps blobs as objects in one bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Close() error { return s.client.Close() }

func (s *GCSStore) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	obj := s.client.Bucket(s.bucket).Object(key)
	return upload(ctx, r, func(ctx context.Context) io.WriteCloser {
		// DoesNotExist makes Close fail on a key collision
		w := obj.If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
		w.ContentType = contentType
		return w
	})
}

// upload copies r into the writer opened under a cancellable ctx. A failed
// copy cancels ctx before Close so the partial object is never committed.
func upload(ctx context.Context, r io.Reader, open func(context.Context) io.WriteCloser) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	w := open(ctx)
	if _, err := io.Copy(w, r); err != nil {
		cancel()
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (s *GCSStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	return rc, err
}

func (s *GCSStore) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}
