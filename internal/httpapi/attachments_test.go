package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"nuzum/backend/internal/cache"
	"nuzum/backend/internal/currency"
	"nuzum/backend/internal/ledger"
	"nuzum/backend/internal/store/memory"
)

type fakeBlobStorage struct {
	objectName string
}

func (s *fakeBlobStorage) Upload(_ context.Context, objectName string, _ []byte, _ string) (string, error) {
	s.objectName = objectName
	return "gs://test-bucket/" + objectName, nil
}

func (s *fakeBlobStorage) Remove(context.Context, string) error { return nil }

func newAttachmentTestAPI(blobs *fakeBlobStorage) http.Handler {
	repo := memory.New()
	resolver := currency.NewResolver(repo, cache.NoopCatalogCache{}, 5*time.Second)
	svc := ledger.New(repo, resolver, blobs, zerolog.Nop())
	auth := NewAuthManager("test-secret-0123456789abcdef0123456789", time.Hour, repo)
	return New(svc, auth, "http://127.0.0.1:3000", zerolog.Nop()).Handler()
}

func multipartUpload(t *testing.T, fieldName, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(fieldName, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &body, mw.FormDataContentType()
}

func TestAttachmentUploadOverHTTP(t *testing.T) {
	blobs := &fakeBlobStorage{}
	handler := newAttachmentTestAPI(blobs)
	token := signupToken(t, handler)

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 24)...)
	body, contentType := multipartUpload(t, "file", "receipt.png", png)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attachments", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s, want 201", rec.Code, rec.Body.String())
	}
	var resp struct {
		ImageURL string `json:"image_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ImageURL != "gs://test-bucket/"+blobs.objectName {
		t.Fatalf("image_url = %s, want the stored object url", resp.ImageURL)
	}
	if !strings.HasSuffix(blobs.objectName, ".png") {
		t.Fatalf("object name = %s, want .png suffix", blobs.objectName)
	}
}

func TestAttachmentUploadRejections(t *testing.T) {
	blobs := &fakeBlobStorage{}
	handler := newAttachmentTestAPI(blobs)
	token := signupToken(t, handler)

	// No token.
	body, contentType := multipartUpload(t, "file", "receipt.png", []byte("\x89PNG\r\n\x1a\n"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attachments", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 without a token", rec.Code)
	}

	// Wrong field name.
	body, contentType = multipartUpload(t, "upload", "receipt.png", []byte("\x89PNG\r\n\x1a\n"))
	req = httptest.NewRequest(http.MethodPost, "/api/v1/attachments", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 without a file field", rec.Code)
	}

	// Non-image payload.
	body, contentType = multipartUpload(t, "file", "notes.txt", []byte("plain text"))
	req = httptest.NewRequest(http.MethodPost, "/api/v1/attachments", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for a non-image payload", rec.Code)
	}

	if blobs.objectName != "" {
		t.Fatalf("rejected uploads must never reach the blob store, got %s", blobs.objectName)
	}
}
