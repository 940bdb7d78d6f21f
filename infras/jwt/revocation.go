package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./revocation.go -destination=./mocks/revocation_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hostly/shared/cache"
	"hostly/shared/timezone"
)

const revokedPrefix = "auth:revoked:"

// Revocations remembers signed-out token IDs until the tokens would have expired anyway.
type Revocations interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	Revoked(ctx context.Context, tokenID string) (bool, error)
}

type revocations struct {
	cache cache.Cache
	now   func() time.Time
}

func NewRevocations(c cache.Cache) Revocations {
	return &revocations{cache: c, now: timezone.Now}
}

func (r *revocations) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return ErrInvalidClaim
	}

	// Expired tokens fail validation on their own.
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}

	seconds := int((ttl + time.Second - 1) / time.Second)

	if err := r.cache.Save(ctx, revokedPrefix+tokenID, true, seconds); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

func (r *revocations) Revoked(ctx context.Context, tokenID string) (bool, error) {
	var revoked bool

	err := r.cache.Get(ctx, revokedPrefix+tokenID, &revoked)
	switch {
	case err == nil:
		return revoked, nil
	case errors.Is(err, cache.Nil):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
}
