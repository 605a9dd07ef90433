package ports

import (
	"context"
	"time"

	"github.com/shopit/storefront/internal/core/domain"
)

// Session is an authenticated account together with its bearer token.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Account   *domain.Account
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	// ForgotPassword returns nil whether or not the email is registered.
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) (*Session, error)
}

type AccountService interface {
	Profile(ctx context.Context, id string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.Account, error)
	ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error
	UploadAvatar(ctx context.Context, id, dataURL string) (*domain.Account, error)

	List(ctx context.Context) ([]*domain.Account, error)
	Get(ctx context.Context, id string) (*domain.Account, error)
	AdminUpdate(ctx context.Context, id string, upd domain.AdminUpdate) (*domain.Account, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.Account, error)
	Delete(ctx context.Context, id string) error
}
