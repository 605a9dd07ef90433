package ports

import (
	"context"
	"time"

	"github.com/shopit/storefront/internal/core/domain"
)

// AccountLookup is the read the access gate needs on every protected request.
type AccountLookup interface {
	// FindByID returns the account without its password hash or recovery
	// state. domain.ErrAccountNotFound when absent.
	FindByID(ctx context.Context, id string) (*domain.Account, error)
}

// AccountRepository owns account persistence. Implementations return
// domain.ErrAccountNotFound and domain.ErrEmailTaken as plain sentinels;
// classification happens in the service layer.
type AccountRepository interface {
	AccountLookup

	Create(ctx context.Context, acct *domain.Account) (*domain.Account, error)
	// FindByEmail includes the password hash only when withSecret is set.
	FindByEmail(ctx context.Context, email string, withSecret bool) (*domain.Account, error)
	FindSecretByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)

	UpdateProfile(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.Account, error)
	UpdateAdmin(ctx context.Context, id string, upd domain.AdminUpdate) (*domain.Account, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateAvatar(ctx context.Context, id string, avatar domain.Avatar) (*domain.Account, error)
	Delete(ctx context.Context, id string) error

	SetRecovery(ctx context.Context, id string, state domain.RecoveryState) error
	ClearRecovery(ctx context.Context, id string) error
	// ConsumeRecovery atomically swaps in passwordHash and clears the
	// recovery fields of the account whose unexpired token digest equals
	// tokenHash. domain.ErrAccountNotFound when nothing matched.
	ConsumeRecovery(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*domain.Account, error)
	// ClearExpiredRecovery atomically clears a recovery state whose digest
	// equals tokenHash and that expired at or before now. Reports whether
	// such a state existed.
	ClearExpiredRecovery(ctx context.Context, tokenHash string, now time.Time) (bool, error)
}
