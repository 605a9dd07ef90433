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
)

// AccountService implements profile self-service and admin account
// management.
type AccountService struct {
	repo    ports.AccountRepository
	hasher  ports.PasswordHasher
	avatars ports.AvatarStore
	log     zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, hasher ports.PasswordHasher, avatars ports.AvatarStore, log zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, hasher: hasher, avatars: avatars, log: log}
}

var _ ports.AccountService = (*AccountService)(nil)

// CheckPassword reports whether plain matches the account's stored secret.
// acct must have been loaded with its password hash.
func (s *AccountService) CheckPassword(acct *domain.Account, plain string) bool {
	return s.hasher.Verify(plain, acct.PasswordHash)
}

func (s *AccountService) Profile(ctx context.Context, id string) (*domain.Account, error) {
	return s.find(ctx, id)
}

func (s *AccountService) UpdateProfile(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.Account, error) {
	if err := validateName(upd.Name); err != nil {
		return nil, err
	}
	if err := validateEmail(upd.Email); err != nil {
		return nil, err
	}
	upd.Name = strings.TrimSpace(upd.Name)

	acct, err := s.repo.UpdateProfile(ctx, id, upd)
	if err != nil {
		return nil, s.mutationError(id, "update profile", err)
	}
	return acct, nil
}

func (s *AccountService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	acct, err := s.repo.FindSecretByID(ctx, id)
	if err != nil {
		return s.mutationError(id, "change password", err)
	}
	if !s.CheckPassword(acct, oldPassword) {
		return domain.Validation(domain.MsgOldPassword).WithCause(domain.ErrBadCredentials)
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return domain.Internal(fmt.Errorf("hash password: %w", err))
	}
	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return s.mutationError(id, "change password", err)
	}

	s.log.Info().Str("account_id", id).Msg("password changed")
	return nil
}

func (s *AccountService) UploadAvatar(ctx context.Context, id, dataURL string) (*domain.Account, error) {
	if dataURL == "" {
		return nil, domain.Validation("Please select an avatar image")
	}
	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	avatar, err := s.avatars.Upload(ctx, dataURL)
	if err != nil {
		if domain.KindOf(err) == domain.KindValidation {
			return nil, err
		}
		return nil, domain.Internal(fmt.Errorf("upload avatar: %w", err))
	}

	updated, err := s.repo.UpdateAvatar(ctx, id, avatar)
	if err != nil {
		s.dropAvatar(ctx, avatar.PublicID)
		return nil, s.mutationError(id, "update avatar", err)
	}
	if current.Avatar != nil && current.Avatar.PublicID != "" {
		s.dropAvatar(ctx, current.Avatar.PublicID)
	}
	return updated, nil
}

func (s *AccountService) List(ctx context.Context) ([]*domain.Account, error) {
	accts, err := s.repo.List(ctx)
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("list accounts: %w", err))
	}
	return accts, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.find(ctx, id)
}

func (s *AccountService) AdminUpdate(ctx context.Context, id string, upd domain.AdminUpdate) (*domain.Account, error) {
	if err := validateName(upd.Name); err != nil {
		return nil, err
	}
	if err := validateEmail(upd.Email); err != nil {
		return nil, err
	}
	role, err := domain.ParseRole(string(upd.Role))
	if err != nil {
		return nil, err
	}
	upd.Name = strings.TrimSpace(upd.Name)
	upd.Role = role

	acct, err := s.repo.UpdateAdmin(ctx, id, upd)
	if err != nil {
		return nil, s.mutationError(id, "update account", err)
	}
	s.log.Info().Str("account_id", id).Str("role", string(role)).Msg("account updated by admin")
	return acct, nil
}

func (s *AccountService) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.Account, error) {
	role, err := domain.ParseRole(string(role))
	if err != nil {
		return nil, err
	}
	acct, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, s.mutationError(id, "update role", err)
	}
	s.log.Info().Str("account_id", id).Str("role", string(role)).Msg("account role changed")
	return acct, nil
}

func (s *AccountService) Delete(ctx context.Context, id string) error {
	acct, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mutationError(id, "delete account", err)
	}
	if acct.Avatar != nil && acct.Avatar.PublicID != "" {
		s.dropAvatar(ctx, acct.Avatar.PublicID)
	}
	s.log.Info().Str("account_id", id).Msg("account deleted")
	return nil
}

// EnsureAdmin creates an administrator account unless one already exists
// under email. The existing account is returned untouched with created false.
func (s *AccountService) EnsureAdmin(ctx context.Context, name, email, password string) (acct *domain.Account, created bool, err error) {
	if err := validateName(name); err != nil {
		return nil, false, err
	}
	if err := validateEmail(email); err != nil {
		return nil, false, err
	}

	existing, err := s.repo.FindByEmail(ctx, email, false)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, domain.ErrAccountNotFound):
		return nil, false, domain.Internal(fmt.Errorf("find admin: %w", err))
	}

	if err := validatePassword(password); err != nil {
		return nil, false, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, false, domain.Internal(fmt.Errorf("hash password: %w", err))
	}

	admin := domain.NewAccount(strings.TrimSpace(name), email, hash, time.Now())
	admin.Role = domain.RoleAdmin
	acct, err = s.repo.Create(ctx, admin)
	if err != nil {
		return nil, false, s.mutationError(email, "create admin", err)
	}
	acct.PasswordHash = ""
	s.log.Info().Str("account_id", acct.ID).Msg("admin account created")
	return acct, true, nil
}

// PromoteByEmail grants the admin role to the account registered under email.
func (s *AccountService) PromoteByEmail(ctx context.Context, email string) (*domain.Account, error) {
	acct, err := s.repo.FindByEmail(ctx, email, false)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.NotFound("Account not found with email: "+email, err)
		}
		return nil, domain.Internal(fmt.Errorf("find account: %w", err))
	}
	if acct.Role == domain.RoleAdmin {
		return acct, nil
	}
	return s.UpdateRole(ctx, acct.ID, domain.RoleAdmin)
}

func (s *AccountService) find(ctx context.Context, id string) (*domain.Account, error) {
	acct, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mutationError(id, "find account", err)
	}
	return acct, nil
}

// mutationError classifies repository failures for account id.
func (s *AccountService) mutationError(id, op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return domain.NotFound("Account not found with id: "+id, err)
	case errors.Is(err, domain.ErrEmailTaken):
		return domain.Conflict(domain.MsgEmailExists, err)
	default:
		return domain.Internal(fmt.Errorf("%s: %w", op, err))
	}
}

func (s *AccountService) dropAvatar(ctx context.Context, publicID string) {
	if err := s.avatars.Delete(ctx, publicID); err != nil {
		s.log.Warn().Err(err).Str("public_id", publicID).Msg("failed to delete avatar object")
	}
}
