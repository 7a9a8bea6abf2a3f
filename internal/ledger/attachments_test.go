package ledger

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"nuzum/backend/internal/cache"
	"nuzum/backend/internal/currency"
	"nuzum/backend/internal/store/memory"
)

// recordingStorage captures the last upload so tests can inspect the object
// name and content type handed to the blob store.
type recordingStorage struct {
	objectName  string
	contentType string
	size        int
}

func (s *recordingStorage) Upload(_ context.Context, objectName string, data []byte, contentType string) (string, error) {
	s.objectName = objectName
	s.contentType = contentType
	s.size = len(data)
	return "gs://test-bucket/" + objectName, nil
}

func (s *recordingStorage) Remove(context.Context, string) error { return nil }

func pngBytes() []byte {
	// PNG signature followed by padding; enough for content sniffing.
	return append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 24)...)
}

func newAttachmentService(blobs *recordingStorage) *Service {
	repo := memory.New()
	resolver := currency.NewResolver(repo, cache.NoopCatalogCache{}, 5*time.Second)
	return New(repo, resolver, blobs, zerolog.Nop())
}

func TestUploadAttachmentStoresUnderOwner(t *testing.T) {
	blobs := &recordingStorage{}
	svc := newAttachmentService(blobs)
	ctx := testCtx()

	url, err := svc.UploadAttachment(ctx, "receipt.PNG", pngBytes(), "")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "gs://test-bucket/"+blobs.objectName {
		t.Fatalf("url = %s, want the storage url for %s", url, blobs.objectName)
	}
	if !strings.HasPrefix(blobs.objectName, "usr-test/img-") {
		t.Fatalf("object name = %s, want owner-scoped img object", blobs.objectName)
	}
	if !strings.HasSuffix(blobs.objectName, ".png") {
		t.Fatalf("object name = %s, want lowercased .png extension", blobs.objectName)
	}
	if blobs.contentType != "image/png" {
		t.Fatalf("content type = %s, want sniffed image/png", blobs.contentType)
	}
	if blobs.size != len(pngBytes()) {
		t.Fatalf("stored %d bytes, want %d", blobs.size, len(pngBytes()))
	}
}

func TestUploadAttachmentGenericContentTypeIsSniffed(t *testing.T) {
	blobs := &recordingStorage{}
	svc := newAttachmentService(blobs)

	if _, err := svc.UploadAttachment(testCtx(), "receipt.png", pngBytes(), "application/octet-stream"); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if blobs.contentType != "image/png" {
		t.Fatalf("content type = %s, want sniffed image/png", blobs.contentType)
	}
}

func TestUploadAttachmentValidation(t *testing.T) {
	blobs := &recordingStorage{}
	svc := newAttachmentService(blobs)
	ctx := testCtx()

	if _, err := svc.UploadAttachment(ctx, "receipt.png", nil, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty data: got %v, want ErrValidation", err)
	}
	if _, err := svc.UploadAttachment(ctx, "notes.txt", []byte("plain text"), "text/plain"); !errors.Is(err, ErrValidation) {
		t.Fatalf("non-image: got %v, want ErrValidation", err)
	}
	if _, err := svc.UploadAttachment(context.Background(), "receipt.png", pngBytes(), ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing owner: got %v, want ErrValidation", err)
	}
	if blobs.objectName != "" {
		t.Fatalf("rejected uploads must never reach the blob store, got %s", blobs.objectName)
	}
}
