package ledger

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"nuzum/backend/internal/xid"
)

// MaxAttachmentBytes caps a single uploaded image. The HTTP layer enforces
// the same limit on the request body.
const MaxAttachmentBytes = 5 << 20

// UploadAttachment stores a receipt or material image and returns its URL,
// which callers then reference through an image_url field. Nothing is
// written to the repository here; the blob store is the only side effect.
func (s *Service) UploadAttachment(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return "", err
	}

	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty attachment", ErrValidation)
	}
	if len(data) > MaxAttachmentBytes {
		return "", fmt.Errorf("%w: attachment exceeds %d bytes", ErrValidation, MaxAttachmentBytes)
	}

	contentType = strings.TrimSpace(contentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: only image attachments are accepted, got %s", ErrValidation, contentType)
	}

	objectName := ownerID + "/" + xid.New("img") + strings.ToLower(path.Ext(filename))
	url, err := s.blobs.Upload(ctx, objectName, data, contentType)
	if err != nil {
		return "", fmt.Errorf("upload attachment: %w", err)
	}

	s.log.Info().Str("object", objectName).Int("bytes", len(data)).Msg("attachment uploaded")
	return url, nil
}
