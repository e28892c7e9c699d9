package minio

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pivotsplit/blobstore"
)

func TestStore_Key(t *testing.T) {
	assert.Equal(t, "runs/r1/components.bin", NewStore(nil, "b", "runs/").Key("r1/components.bin"))
	assert.Equal(t, "components.bin", NewStore(nil, "b", "").Key("components.bin"))
}

func TestNotFound(t *testing.T) {
	err := minio.ErrorResponse{Code: "NoSuchKey"}
	assert.ErrorIs(t, notFound(err), blobstore.ErrNotFound)

	denied := minio.ErrorResponse{Code: "AccessDenied"}
	assert.Equal(t, error(denied), notFound(denied))
}

// TestMinioStore_Integration requires a running MinIO instance at
// MINIO_ENDPOINT.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("Skipping MinIO integration test: MINIO_ENDPOINT not set")
	}
	const bucket = "test-pivotsplit"

	client, err := minio.New(endpoint, &minio.Options{
		Creds: credentials.NewStaticV4("minioadmin", "minioadmin", ""),
	})
	require.NoError(t, err)

	ctx := context.Background()
	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "test-prefix")

	n, err := store.Put(ctx, "r1/components-stat.txt", strings.NewReader("# stats"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	rc, size, err := store.Get(ctx, "r1/components-stat.txt")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, int64(7), size)
	assert.Equal(t, "# stats", string(got))

	_, _, err = store.Get(ctx, "r1/missing.bin")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
	_ = client.RemoveObject(ctx, bucket, store.Key("r1/components-stat.txt"), minio.RemoveObjectOptions{})
}
