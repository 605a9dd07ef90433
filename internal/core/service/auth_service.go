package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopit/storefront/internal/core/domain"
	"github.com/shopit/storefront/internal/core/ports"
	"github.com/shopit/storefront/internal/core/security"
)

const (
	// MailKindPasswordReset tags recovery emails on the mail queue.
	MailKindPasswordReset = "password_reset"

	resetPath = "/password/reset/"
)

// AuthDeps bundles the collaborators of AuthService.
type AuthDeps struct {
	Accounts    ports.AccountRepository
	Hasher      ports.PasswordHasher
	Sessions    ports.SessionIssuer
	Recovery    ports.RecoveryTokenSource
	Limiter     ports.LoginLimiter
	Mail        ports.MailQueue
	FrontendURL string
	Clock       func() time.Time
	Log         zerolog.Logger
}

// AuthService implements registration, login and password recovery.
type AuthService struct {
	deps AuthDeps

	// decoy is verified against when the email is unknown so both login
	// failure paths spend a bcrypt comparison.
	decoy string
}

// NewAuthService fails when the decoy hash for unknown-email logins cannot
// be computed.
func NewAuthService(deps AuthDeps) (*AuthService, error) {
	deps.FrontendURL = strings.TrimRight(deps.FrontendURL, "/")
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	decoy, err := deps.Hasher.Hash("decoy-password-for-unknown-accounts")
	if err != nil {
		return nil, fmt.Errorf("decoy hash: %w", err)
	}
	return &AuthService{deps: deps, decoy: decoy}, nil
}

var _ ports.AuthService = (*AuthService)(nil)

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*ports.Session, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	hash, err := s.deps.Hasher.Hash(password)
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("hash password: %w", err))
	}

	acct := domain.NewAccount(strings.TrimSpace(name), email, hash, s.deps.Clock())
	created, err := s.deps.Accounts.Create(ctx, acct)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.Conflict(domain.MsgEmailExists, err)
		}
		return nil, domain.Internal(fmt.Errorf("register: %w", err))
	}
	created.PasswordHash = ""

	s.deps.Log.Info().Str("account_id", created.ID).Msg("account registered")
	return s.session(created)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	if email == "" || password == "" {
		return nil, domain.Validation(domain.MsgEmailAndPassword)
	}

	blocked, err := s.deps.Limiter.Blocked(ctx, email)
	if err != nil {
		s.deps.Log.Warn().Err(err).Msg("login limiter check failed, continuing")
	} else if blocked {
		return nil, domain.RateLimited(domain.MsgTooManyAttempts)
	}

	acct, err := s.deps.Accounts.FindByEmail(ctx, email, true)
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		s.deps.Hasher.Verify(password, s.decoy)
		return nil, s.loginFailed(ctx, email)
	case err != nil:
		return nil, domain.Internal(fmt.Errorf("login: %w", err))
	}

	if !s.deps.Hasher.Verify(password, acct.PasswordHash) {
		return nil, s.loginFailed(ctx, email)
	}
	acct.PasswordHash = ""

	if err := s.deps.Limiter.Reset(ctx, email); err != nil {
		s.deps.Log.Warn().Err(err).Msg("login limiter reset failed")
	}
	return s.session(acct)
}

func (s *AuthService) loginFailed(ctx context.Context, email string) error {
	if err := s.deps.Limiter.RecordFailure(ctx, email); err != nil {
		s.deps.Log.Warn().Err(err).Msg("login limiter record failed")
	}
	return domain.Unauthenticated(domain.MsgInvalidCredentials, domain.ErrBadCredentials)
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}

	acct, err := s.deps.Accounts.FindByEmail(ctx, email, false)
	if errors.Is(err, domain.ErrAccountNotFound) {
		s.deps.Log.Debug().Msg("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return domain.Internal(fmt.Errorf("forgot password: %w", err))
	}

	plain, state, err := s.deps.Recovery.Generate()
	if err != nil {
		return domain.Internal(err)
	}
	if err := s.deps.Accounts.SetRecovery(ctx, acct.ID, state); err != nil {
		return domain.Internal(fmt.Errorf("store recovery token: %w", err))
	}

	msg := ports.MailMessage{
		Kind:    MailKindPasswordReset,
		To:      acct.Email,
		Subject: "ShopIT Password Recovery",
		Body:    resetEmailBody(acct.Name, s.deps.FrontendURL+resetPath+plain),
	}
	if err := s.deps.Mail.Enqueue(msg); err != nil {
		if clearErr := s.deps.Accounts.ClearRecovery(ctx, acct.ID); clearErr != nil {
			s.deps.Log.Error().Err(clearErr).Str("account_id", acct.ID).Msg("failed to clear recovery token")
		}
		return domain.Internal(fmt.Errorf("queue recovery email: %w", err))
	}

	s.deps.Log.Info().Str("account_id", acct.ID).Time("expires_at", state.ExpiresAt).Msg("recovery token issued")
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (*ports.Session, error) {
	if token == "" {
		return nil, domain.Validation(domain.MsgRecoveryInvalid).WithCause(domain.ErrRecoveryInvalid)
	}
	if err := validatePassword(newPassword); err != nil {
		return nil, err
	}

	hash, err := s.deps.Hasher.Hash(newPassword)
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("hash password: %w", err))
	}

	digest := security.HashRecoveryToken(token)
	now := s.deps.Clock()

	acct, err := s.deps.Accounts.ConsumeRecovery(ctx, digest, hash, now)
	if err == nil {
		s.deps.Log.Info().Str("account_id", acct.ID).Msg("password reset")
		return s.session(acct)
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, domain.Internal(fmt.Errorf("consume recovery token: %w", err))
	}

	expired, err := s.deps.Accounts.ClearExpiredRecovery(ctx, digest, now)
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("clear expired recovery token: %w", err))
	}
	if expired {
		return nil, domain.Validation(domain.MsgRecoveryExpired).WithCause(domain.ErrRecoveryExpired)
	}
	return nil, domain.Validation(domain.MsgRecoveryInvalid).WithCause(domain.ErrRecoveryInvalid)
}

func (s *AuthService) session(acct *domain.Account) (*ports.Session, error) {
	token, exp, err := s.deps.Sessions.Issue(acct.ID)
	if err != nil {
		return nil, err
	}
	return &ports.Session{Token: token, ExpiresAt: exp, Account: acct}, nil
}

func resetEmailBody(name, url string) string {
	return fmt.Sprintf("Hi %s,\n\nYour password reset link is:\n\n%s\n\n"+
		"It expires shortly. If you did not request this email, ignore it.\n", name, url)
}
