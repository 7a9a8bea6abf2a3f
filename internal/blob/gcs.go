package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// GCSStorage stores objects in a Google Cloud Storage bucket. It assumes
// Application Default Credentials are configured.
type GCSStorage struct {
	client *storage.Client
	bucket string
}

func NewGCSStorage(ctx context.Context, bucket string) (*GCSStorage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSStorage{client: client, bucket: bucket}, nil
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}

func (s *GCSStorage) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("copy to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}
	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName), nil
}

func (s *GCSStorage) Remove(ctx context.Context, objectURL string) error {
	objectName, err := s.objectName(objectURL)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	return s.client.Bucket(s.bucket).Object(objectName).Delete(ctx)
}

func (s *GCSStorage) objectName(objectURL string) (string, error) {
	if !strings.HasPrefix(objectURL, "gs://") {
		return "", fmt.Errorf("invalid GCS URI: %s", objectURL)
	}
	trimmed := strings.TrimPrefix(objectURL, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] != s.bucket {
		return "", fmt.Errorf("invalid GCS URI for bucket %s: %s", s.bucket, objectURL)
	}
	return parts[1], nil
}
