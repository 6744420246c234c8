package gcp

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

type ObjectStorageConfig struct {
	Mode         ObjectStorageMode
	EmulatorHost string
	Bucket       string
	CDNDomain    string
	// PublicBaseURL overrides the host used for public object URLs.
	PublicBaseURL string
}

func (cfg ObjectStorageConfig) IsEmulatorMode() bool {
	return cfg.Mode == ObjectStorageModeGCSEmulator
}

type ObjectStorageConfigError struct {
	Mode         string
	EmulatorHost string
	Reason       string
	Cause        error
}

func (e *ObjectStorageConfigError) Error() string {
	if e == nil {
		return "invalid object storage config"
	}
	return fmt.Sprintf("invalid object storage config (mode=%q): %s", e.Mode, e.Reason)
}

func (e *ObjectStorageConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ResolveObjectStorageConfigFromEnv reads OBJECT_STORAGE_MODE. An empty mode
// picks the emulator when STORAGE_EMULATOR_HOST is set, GCS otherwise.
func ResolveObjectStorageConfigFromEnv() (ObjectStorageConfig, error) {
	cfg := ObjectStorageConfig{
		EmulatorHost:  strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")),
		Bucket:        strings.TrimSpace(os.Getenv("UPLOAD_GCS_BUCKET_NAME")),
		CDNDomain:     strings.TrimSpace(os.Getenv("UPLOAD_CDN_DOMAIN")),
		PublicBaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("OBJECT_STORAGE_PUBLIC_BASE_URL")), "/"),
	}

	rawMode := strings.TrimSpace(os.Getenv("OBJECT_STORAGE_MODE"))
	switch mode := ObjectStorageMode(strings.ToLower(rawMode)); mode {
	case "":
		if cfg.EmulatorHost != "" {
			cfg.Mode = ObjectStorageModeGCSEmulator
		} else {
			cfg.Mode = ObjectStorageModeGCS
		}
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator:
		cfg.Mode = mode
	default:
		return cfg, &ObjectStorageConfigError{Mode: rawMode, Reason: "allowed modes are gcs, gcs_emulator"}
	}

	if err := ValidateObjectStorageConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func ValidateObjectStorageConfig(cfg ObjectStorageConfig) error {
	switch cfg.Mode {
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator:
	default:
		return &ObjectStorageConfigError{Mode: string(cfg.Mode), Reason: "allowed modes are gcs, gcs_emulator"}
	}
	if cfg.Bucket == "" {
		return &ObjectStorageConfigError{Mode: string(cfg.Mode), Reason: "UPLOAD_GCS_BUCKET_NAME is required"}
	}
	if cfg.PublicBaseURL != "" {
		if u, err := url.Parse(cfg.PublicBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return &ObjectStorageConfigError{Mode: string(cfg.Mode), Reason: "OBJECT_STORAGE_PUBLIC_BASE_URL must be an absolute URL", Cause: err}
		}
	}
	if !cfg.IsEmulatorMode() {
		return nil
	}
	if cfg.EmulatorHost == "" {
		return &ObjectStorageConfigError{Mode: string(cfg.Mode), Reason: "STORAGE_EMULATOR_HOST is required"}
	}
	u, err := url.Parse(cfg.EmulatorHost)
	if err != nil || strings.TrimSpace(u.Scheme) == "" || strings.TrimSpace(u.Host) == "" {
		return &ObjectStorageConfigError{
			Mode:         string(cfg.Mode),
			EmulatorHost: cfg.EmulatorHost,
			Reason:       "STORAGE_EMULATOR_HOST must look like http://fake-gcs:4443",
			Cause:        err,
		}
	}
	return nil
}
