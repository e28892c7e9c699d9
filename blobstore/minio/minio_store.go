package minio

import (
	"context"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/pivotsplit/blobstore"
)

// Store publishes artifacts to a MinIO bucket under a key prefix.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewStore wraps client.
func NewStore(client *minio.Client, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: prefix}
}

// Dial connects to endpoint with credentials from MINIO_ACCESS_KEY and
// MINIO_SECRET_KEY, or MINIO_ROOT_USER and MINIO_ROOT_PASSWORD.
func Dial(endpoint, bucket, prefix string, secure bool) (*Store, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewEnvMinio(),
		Secure: secure,
	})
	if err != nil {
		return nil, err
	}
	return NewStore(client, bucket, prefix), nil
}

// Key returns the object key of an artifact.
func (s *Store) Key(name string) string {
	return path.Join(s.prefix, name)
}

// Put implements blobstore.Store. The length is unknown up front, so the
// client streams a multipart upload and aborts it on failure.
func (s *Store) Put(ctx context.Context, name string, r io.Reader) (int64, error) {
	info, err := s.client.PutObject(ctx, s.bucket, s.Key(name), r, -1, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

// Get implements blobstore.Store.
func (s *Store) Get(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.Key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, notFound(err)
	}
	// GetObject is lazy; Stat issues the request.
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, 0, notFound(err)
	}
	return obj, info.Size, nil
}

func notFound(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return blobstore.ErrNotFound
	}
	return err
}
