package app

import (
	"errors"
	"fmt"

	"github.com/yungbote/trainermatch-backend/internal/platform/gcp"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

var newBucketServiceWithConfig = gcp.NewBucketServiceWithConfig

// StorageBootstrapError reports why object storage could not be set up.
// Config is true when the environment is wrong rather than GCS unreachable.
type StorageBootstrapError struct {
	Mode   string
	Config bool
	Cause  error
}

func (e *StorageBootstrapError) Error() string {
	return fmt.Sprintf("object storage bootstrap failed (mode=%q config=%t): %v", e.Mode, e.Config, e.Cause)
}

func (e *StorageBootstrapError) Unwrap() error { return e.Cause }

// resolveBucketService returns a nil bucket when no upload bucket is
// configured; the upload endpoint then answers 503.
func resolveBucketService(log *logger.Logger, storageCfg gcp.ObjectStorageConfig, resolveErr error) (gcp.BucketService, error) {
	if resolveErr != nil {
		return nil, classifyStorageBootstrapError(storageCfg, resolveErr)
	}
	if storageCfg.Bucket == "" {
		log.Warn("UPLOAD_GCS_BUCKET_NAME not set; image uploads disabled")
		return nil, nil
	}
	log.Info("Selecting object storage provider",
		"mode", storageCfg.Mode,
		"emulator_host", storageCfg.EmulatorHost,
		"bucket", storageCfg.Bucket,
	)
	bucket, err := newBucketServiceWithConfig(log, storageCfg)
	if err != nil {
		classified := classifyStorageBootstrapError(storageCfg, err)
		log.Error("Object storage provider bootstrap failed", "mode", storageCfg.Mode, "error", classified)
		return nil, classified
	}
	return bucket, nil
}

func classifyStorageBootstrapError(storageCfg gcp.ObjectStorageConfig, err error) error {
	var cfgErr *gcp.ObjectStorageConfigError
	return &StorageBootstrapError{
		Mode:   string(storageCfg.Mode),
		Config: errors.As(err, &cfgErr),
		Cause:  err,
	}
}
