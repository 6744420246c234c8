package app

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/gcp"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

type stubBucket struct{}

func (stubBucket) UploadFile(dbctx.Context, string, string, io.Reader) error { return nil }
func (stubBucket) DeleteFile(dbctx.Context, string) error                    { return nil }
func (stubBucket) PublicURL(key string) string                               { return key }
func (stubBucket) Close() error                                              { return nil }

func stubBucketFactory(t *testing.T, fn func(*logger.Logger, gcp.ObjectStorageConfig) (gcp.BucketService, error)) {
	t.Helper()
	prev := newBucketServiceWithConfig
	newBucketServiceWithConfig = fn
	t.Cleanup(func() { newBucketServiceWithConfig = prev })
}

func TestResolveBucketServiceDisabledWithoutBucket(t *testing.T) {
	stubBucketFactory(t, func(*logger.Logger, gcp.ObjectStorageConfig) (gcp.BucketService, error) {
		t.Fatal("factory should not be called")
		return nil, nil
	})
	bucket, err := resolveBucketService(logger.Nop(), gcp.ObjectStorageConfig{Mode: gcp.ObjectStorageModeGCS}, nil)
	require.NoError(t, err)
	assert.Nil(t, bucket)
}

func TestResolveBucketServiceConfigError(t *testing.T) {
	cfgErr := &gcp.ObjectStorageConfigError{Mode: "bad-mode", Reason: "allowed modes are gcs, gcs_emulator"}
	_, err := resolveBucketService(logger.Nop(), gcp.ObjectStorageConfig{Mode: "bad-mode"}, cfgErr)

	var got *StorageBootstrapError
	require.ErrorAs(t, err, &got)
	assert.True(t, got.Config)
	assert.Equal(t, "bad-mode", got.Mode)
	assert.ErrorIs(t, err, cfgErr)
}

func TestResolveBucketServiceConnectFailure(t *testing.T) {
	stubBucketFactory(t, func(*logger.Logger, gcp.ObjectStorageConfig) (gcp.BucketService, error) {
		return nil, errors.New("dial tcp: connection refused")
	})
	_, err := resolveBucketService(logger.Nop(), gcp.ObjectStorageConfig{Mode: gcp.ObjectStorageModeGCS, Bucket: "uploads"}, nil)

	var got *StorageBootstrapError
	require.ErrorAs(t, err, &got)
	assert.False(t, got.Config)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestResolveBucketServiceSuccess(t *testing.T) {
	var seen gcp.ObjectStorageConfig
	stubBucketFactory(t, func(_ *logger.Logger, cfg gcp.ObjectStorageConfig) (gcp.BucketService, error) {
		seen = cfg
		return stubBucket{}, nil
	})
	cfg := gcp.ObjectStorageConfig{Mode: gcp.ObjectStorageModeGCSEmulator, EmulatorHost: "http://fake-gcs:4443", Bucket: "uploads"}
	bucket, err := resolveBucketService(logger.Nop(), cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, bucket)
	assert.Equal(t, cfg, seen)
}
