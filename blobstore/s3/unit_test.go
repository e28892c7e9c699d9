package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pivotsplit/blobstore"
)

func TestStore_Put(t *testing.T) {
	client := new(MockS3Client)
	store := NewStore(client, "artifacts", WithPrefix("runs"))

	var uploaded []byte
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "artifacts" &&
			aws.ToString(in.Key) == "runs/r1/components.bin" &&
			in.ChecksumAlgorithm == types.ChecksumAlgorithmCrc32c
	})).Run(func(args mock.Arguments) {
		in := args.Get(1).(*s3.PutObjectInput)
		uploaded, _ = io.ReadAll(in.Body)
	}).Return(&s3.PutObjectOutput{}, nil).Once()

	n, err := store.Put(context.Background(), "r1/components.bin", strings.NewReader("components"))
	require.NoError(t, err)
	assert.Equal(t, int64(len("components")), n)
	assert.Equal(t, "components", string(uploaded))
	client.AssertExpectations(t)
}

func TestStore_PutMultipart(t *testing.T) {
	client := new(MockS3Client)
	store := NewStore(client, "artifacts", WithPartSize(5<<20), func(o *Options) { o.Checksum = false })
	payload := bytes.Repeat([]byte("ACGT"), 3<<20) // 12 MiB, three parts

	client.On("CreateMultipartUpload", mock.Anything, mock.Anything).
		Return(&s3.CreateMultipartUploadOutput{UploadId: aws.String("u1")}, nil).Once()
	client.On("UploadPart", mock.Anything, mock.Anything).
		Return(&s3.UploadPartOutput{ETag: aws.String("etag")}, nil).Times(3)
	client.On("CompleteMultipartUpload", mock.Anything, mock.MatchedBy(func(in *s3.CompleteMultipartUploadInput) bool {
		return aws.ToString(in.UploadId) == "u1" && len(in.MultipartUpload.Parts) == 3
	})).Return(&s3.CompleteMultipartUploadOutput{}, nil).Once()

	n, err := store.Put(context.Background(), "residual.kmap", bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)
	client.AssertExpectations(t)
}

func TestStore_PutFailure(t *testing.T) {
	client := new(MockS3Client)
	store := NewStore(client, "artifacts")
	boom := errors.New("access denied")

	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, boom).Once()

	_, err := store.Put(context.Background(), "components.bin", strings.NewReader("x"))
	assert.ErrorContains(t, err, boom.Error())
}

func TestStore_Get(t *testing.T) {
	client := new(MockS3Client)
	store := NewStore(client, "artifacts", WithPrefix("runs/"))

	t.Run("found", func(t *testing.T) {
		client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
			return aws.ToString(in.Key) == "runs/r1/components-stat.txt"
		})).Return(&s3.GetObjectOutput{
			Body:          io.NopCloser(strings.NewReader("# stats")),
			ContentLength: aws.Int64(7),
		}, nil).Once()

		rc, size, err := store.Get(context.Background(), "r1/components-stat.txt")
		require.NoError(t, err)
		defer rc.Close()
		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, int64(7), size)
		assert.Equal(t, "# stats", string(got))
	})

	t.Run("missing", func(t *testing.T) {
		client.On("GetObject", mock.Anything, mock.Anything).Return(nil, &types.NoSuchKey{}).Once()

		_, _, err := store.Get(context.Background(), "r2/components.bin")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})

	client.AssertExpectations(t)
}

func TestStore_Key(t *testing.T) {
	assert.Equal(t, "runs/r1/x.bin", NewStore(nil, "b", WithPrefix("runs/")).Key("r1/x.bin"))
	assert.Equal(t, "x.bin", NewStore(nil, "b").Key("x.bin"))
}
