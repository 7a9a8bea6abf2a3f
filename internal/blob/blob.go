package blob

import "context"

// Storage holds receipt and material images. Upload returns the stored
// object's URL. Failures here never fail the owning record's save; callers
// log and move on.
type Storage interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, objectURL string) error
}

type NoopStorage struct{}

func (NoopStorage) Upload(_ context.Context, _ string, _ []byte, _ string) (string, error) {
	return "", nil
}

func (NoopStorage) Remove(_ context.Context, _ string) error {
	return nil
}
