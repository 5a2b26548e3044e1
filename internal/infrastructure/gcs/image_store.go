package gcs

import (
	"bytes"
	"context"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/oksasatya/go-medicine-tracker/internal/application"
	"github.com/oksasatya/go-medicine-tracker/pkg/helpers"
)

// ImageStore keeps medicine images under medicines/ in one bucket.
type ImageStore struct {
	client *storage.Client
	bucket string
}

func NewImageStore(client *storage.Client, bucket string) *ImageStore {
	return &ImageStore{client: client, bucket: bucket}
}

var imageExtensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

func extensionFor(contentType string) string {
	if ext, ok := imageExtensions[contentType]; ok {
		return ext
	}
	if i := strings.Index(contentType, "/"); i >= 0 {
		return "." + contentType[i+1:]
	}
	return ""
}

func (s *ImageStore) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	objectPath := path.Join("medicines", uuid.NewString()+extensionFor(contentType))
	return helpers.UploadObject(ctx, s.client, s.bucket, objectPath, contentType, bytes.NewReader(data))
}

func (s *ImageStore) Delete(ctx context.Context, url string) (bool, error) {
	objectPath, ok := helpers.ObjectPathFromURL(s.bucket, url)
	if !ok {
		return false, nil
	}
	return helpers.DeleteObject(ctx, s.client, s.bucket, objectPath)
}

var _ application.ImageStore = (*ImageStore)(nil)
