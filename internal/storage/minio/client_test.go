package minio

import (
	"context"
	"errors"
	"io"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	bucketExists    bool
	bucketExistsErr error
	madeBucket      string
	makeBucketErr   error

	putKey  string
	putBody []byte
	putSize int64
	putOpts minioLib.PutObjectOptions
	putErr  error
}

func (f *fakeObjects) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}

func (f *fakeObjects) MakeBucket(_ context.Context, bucket string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = bucket
	return f.makeBucketErr
}

func (f *fakeObjects) PutObject(_ context.Context, _ string, key string, r io.Reader, size int64, opts minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	body, _ := io.ReadAll(r)
	f.putKey, f.putBody, f.putSize, f.putOpts = key, body, size, opts
	return minioLib.UploadInfo{Key: key, Size: size}, f.putErr
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	t.Run("bucket exists", func(t *testing.T) {
		api := &fakeObjects{bucketExists: true}
		s, err := newStore(ctx, api, "outbox")
		require.NoError(t, err)
		assert.Equal(t, "outbox", s.bucket)
		assert.Empty(t, api.madeBucket)
	})

	t.Run("bucket created", func(t *testing.T) {
		api := &fakeObjects{}
		_, err := newStore(ctx, api, "outbox")
		require.NoError(t, err)
		assert.Equal(t, "outbox", api.madeBucket)
	})

	t.Run("exists check fails", func(t *testing.T) {
		_, err := newStore(ctx, &fakeObjects{bucketExistsErr: errors.New("boom")}, "outbox")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to ensure bucket exists")
	})

	t.Run("create fails", func(t *testing.T) {
		_, err := newStore(ctx, &fakeObjects{makeBucketErr: errors.New("denied")}, "outbox")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create bucket")
	})
}

func TestStore_Put(t *testing.T) {
	ctx := context.Background()

	api := &fakeObjects{}
	s := &Store{api: api, bucket: "b"}
	require.NoError(t, s.Put(ctx, "outbox/a.json", []byte(`{"a":1}`), "application/json"))
	assert.Equal(t, "outbox/a.json", api.putKey)
	assert.Equal(t, []byte(`{"a":1}`), api.putBody)
	assert.EqualValues(t, 7, api.putSize)
	assert.Equal(t, "application/json", api.putOpts.ContentType)

	api.putErr = errors.New("put-fail")
	err := s.Put(ctx, "k", nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to put object k")
}
