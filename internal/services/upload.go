package services

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/trainermatch-backend/internal/platform/apierr"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/gcp"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

const MaxImageBytes = 10 << 20

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type UploadService interface {
	UploadImage(dbc dbctx.Context, filename string, size int64, file io.Reader) (*UploadResult, error)
}

type uploadService struct {
	log    *logger.Logger
	bucket gcp.BucketService
}

func NewUploadService(baseLog *logger.Logger, bucket gcp.BucketService) UploadService {
	return &uploadService{
		log:    baseLog.With("service", "UploadService"),
		bucket: bucket,
	}
}

// UploadImage sniffs the content type from the bytes rather than trusting the
// client, then stores the file under images/<uuid><ext>.
func (s *uploadService) UploadImage(dbc dbctx.Context, filename string, size int64, file io.Reader) (*UploadResult, error) {
	if s.bucket == nil {
		return nil, apierr.New(http.StatusServiceUnavailable, "storage_unavailable", fmt.Errorf("object storage is not configured"))
	}
	if size > MaxImageBytes {
		return nil, apierr.New(http.StatusRequestEntityTooLarge, "file_too_large", fmt.Errorf("image exceeds %d bytes", MaxImageBytes))
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, apierr.BadRequest("empty_file", "file is empty")
	}

	contentType := http.DetectContentType(head)
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, apierr.BadRequest("unsupported_media_type", "unsupported image type %q", contentType)
	}

	body := io.MultiReader(bytes.NewReader(head), io.LimitReader(file, MaxImageBytes+1-int64(n)))
	counted := &countingReader{r: body}
	key := "images/" + uuid.NewString() + ext

	if err := s.bucket.UploadFile(dbc, key, contentType, counted); err != nil {
		s.log.Error("Image upload failed", "error", err, "key", key, "filename", filename)
		return nil, fmt.Errorf("upload image: %w", err)
	}
	if counted.n > MaxImageBytes {
		_ = s.bucket.DeleteFile(dbc, key)
		return nil, apierr.New(http.StatusRequestEntityTooLarge, "file_too_large", fmt.Errorf("image exceeds %d bytes", MaxImageBytes))
	}

	s.log.Info("Image uploaded", "key", key, "bytes", counted.n, "content_type", contentType)
	return &UploadResult{URL: s.bucket.PublicURL(key), Key: key}, nil
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
