package ports

import (
	"context"
	"time"

	"github.com/shopit/storefront/internal/core/domain"
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) bool
}

type SessionIssuer interface {
	Issue(accountID string) (token string, expiresAt time.Time, err error)
}

type SessionVerifier interface {
	Verify(token string) (accountID string, err error)
}

// RecoveryTokenSource mints recovery tokens.
type RecoveryTokenSource interface {
	Generate() (plain string, state domain.RecoveryState, err error)
}

// LoginLimiter throttles repeated failed logins per email.
type LoginLimiter interface {
	Blocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
