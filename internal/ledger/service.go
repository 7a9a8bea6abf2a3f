package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"nuzum/backend/internal/blob"
	"nuzum/backend/internal/currency"
	"nuzum/backend/internal/store"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrCurrencyMismatch  = errors.New("currency mismatch")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrMissingEntity     = errors.New("missing entity")
)

// PartialFailureError reports a multi-step operation that committed its
// first write(s) and then failed a later step. Completed names the steps
// that did commit; nothing is rolled back automatically.
type PartialFailureError struct {
	Op        string
	Completed []string
	Err       error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s partially failed after [%s]: %v", e.Op, strings.Join(e.Completed, ", "), e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}

type ownerContextKey struct{}

// WithOwner stamps the resolved owner id onto the context. The ledger never
// authenticates; it only consumes this id to scope every store call.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerContextKey{}, ownerID)
}

func OwnerFromContext(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(ownerContextKey{}).(string)
	return ownerID, ok && ownerID != ""
}

type Service struct {
	repo       store.Repository
	currencies *currency.Resolver
	blobs      blob.Storage
	log        zerolog.Logger
}

func New(repo store.Repository, currencies *currency.Resolver, blobs blob.Storage, log zerolog.Logger) *Service {
	if blobs == nil {
		blobs = blob.NoopStorage{}
	}
	return &Service{
		repo:       repo,
		currencies: currencies,
		blobs:      blobs,
		log:        log,
	}
}

func (s *Service) owner(ctx context.Context) (string, error) {
	ownerID, ok := OwnerFromContext(ctx)
	if !ok {
		return "", fmt.Errorf("%w: owner id missing from context", ErrValidation)
	}
	return ownerID, nil
}

// removeImage drops a stored image. Blob failures never fail the owning
// record's operation; they are logged and ignored.
func (s *Service) removeImage(ctx context.Context, imageURL string) {
	if imageURL == "" {
		return
	}
	if err := s.blobs.Remove(ctx, imageURL); err != nil {
		s.log.Warn().Err(err).Str("image_url", imageURL).Msg("failed to remove image")
	}
}
