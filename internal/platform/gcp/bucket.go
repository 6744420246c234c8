package gcp

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

// BucketService stores uploaded files in a single bucket and hands back
// publicly reachable URLs for them.
type BucketService interface {
	UploadFile(dbc dbctx.Context, key string, contentType string, file io.Reader) error
	DeleteFile(dbc dbctx.Context, key string) error
	PublicURL(key string) string
	Close() error
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	cfg           ObjectStorageConfig
}

func NewBucketService(log *logger.Logger) (BucketService, error) {
	cfg, err := ResolveObjectStorageConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("resolve object storage config: %w", err)
	}
	return NewBucketServiceWithConfig(log, cfg)
}

func NewBucketServiceWithConfig(log *logger.Logger, cfg ObjectStorageConfig) (BucketService, error) {
	if err := ValidateObjectStorageConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	serviceLog := log.With("service", "BucketService")

	stClient, err := newStorageClientForMode(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	serviceLog.Info("Object storage initialized",
		"mode", cfg.Mode,
		"emulator_host", cfg.EmulatorHost,
		"bucket", cfg.Bucket,
		"cdn_domain", cfg.CDNDomain,
	)
	return &bucketService{log: serviceLog, storageClient: stClient, cfg: cfg}, nil
}

func newStorageClientForMode(ctx context.Context, cfg ObjectStorageConfig) (*storage.Client, error) {
	switch cfg.Mode {
	case ObjectStorageModeGCS:
		opts := ClientOptionsFromEnv()
		opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
		return storage.NewClient(ctx, opts...)
	case ObjectStorageModeGCSEmulator:
		// the storage client only discovers the emulator through this variable
		_ = os.Setenv("STORAGE_EMULATOR_HOST", strings.TrimRight(cfg.EmulatorHost, "/"))
		return storage.NewClient(ctx, option.WithoutAuthentication())
	default:
		return nil, &ObjectStorageConfigError{Mode: string(cfg.Mode), Reason: "unsupported mode"}
	}
}

func (bs *bucketService) UploadFile(dbc dbctx.Context, key string, contentType string, file io.Reader) error {
	ctx, cancel := context.WithTimeout(dbc.Ctx, 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(bs.cfg.Bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (bs *bucketService) DeleteFile(dbc dbctx.Context, key string) error {
	ctx, cancel := context.WithTimeout(dbc.Ctx, 30*time.Second)
	defer cancel()
	if err := bs.storageClient.Bucket(bs.cfg.Bucket).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, bs.cfg.Bucket, err)
	}
	return nil
}

func (bs *bucketService) PublicURL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if bs.cfg.CDNDomain != "" {
		return fmt.Sprintf("https://%s/%s", bs.cfg.CDNDomain, key)
	}
	if bs.cfg.IsEmulatorMode() {
		base := bs.cfg.PublicBaseURL
		if base == "" {
			base = strings.TrimRight(bs.cfg.EmulatorHost, "/")
		}
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(bs.cfg.Bucket), url.PathEscape(key))
	}
	if bs.cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", bs.cfg.PublicBaseURL, bs.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.cfg.Bucket, key)
}

func (bs *bucketService) Close() error {
	if bs == nil || bs.storageClient == nil {
		return nil
	}
	return bs.storageClient.Close()
}
