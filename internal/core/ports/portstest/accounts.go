// Package portstest provides in-memory implementations of the core ports for
// tests.
package portstest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopit/storefront/internal/core/domain"
	"github.com/shopit/storefront/internal/core/ports"
)

// AccountRepository is an in-memory ports.AccountRepository. The mutex makes
// every method atomic, like the single-document updates of the real store.
type AccountRepository struct {
	mu     sync.Mutex
	byID   map[string]*domain.Account
	nextID int
	err    error
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{byID: make(map[string]*domain.Account)}
}

var _ ports.AccountRepository = (*AccountRepository)(nil)

// Fail makes every later call return err. Nil restores normal behaviour.
func (r *AccountRepository) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	c := *a
	if a.Recovery != nil {
		r := *a.Recovery
		c.Recovery = &r
	}
	if a.Avatar != nil {
		av := *a.Avatar
		c.Avatar = &av
	}
	return &c
}

// public strips the fields excluded by the default projection.
func public(a *domain.Account) *domain.Account {
	c := cloneAccount(a)
	c.PasswordHash = ""
	c.Recovery = nil
	return c
}

func (r *AccountRepository) emailTaken(email, exceptID string) bool {
	for id, a := range r.byID {
		if a.Email == email && id != exceptID {
			return true
		}
	}
	return false
}

func (r *AccountRepository) get(id string) (*domain.Account, error) {
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return a, nil
}

func (r *AccountRepository) Create(_ context.Context, acct *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if r.emailTaken(acct.Email, "") {
		return nil, domain.ErrEmailTaken
	}
	r.nextID++
	c := cloneAccount(acct)
	c.ID = fmt.Sprintf("acct-%d", r.nextID)
	r.byID[c.ID] = c
	return cloneAccount(c), nil
}

func (r *AccountRepository) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.get(id)
	if err != nil {
		return nil, err
	}
	return public(a), nil
}

func (r *AccountRepository) FindSecretByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.get(id)
	if err != nil {
		return nil, err
	}
	return cloneAccount(a), nil
}

func (r *AccountRepository) FindByEmail(_ context.Context, email string, withSecret bool) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, a := range r.byID {
		if a.Email == email {
			c := public(a)
			if withSecret {
				c.PasswordHash = a.PasswordHash
			}
			return c, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *AccountRepository) List(_ context.Context) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.Account, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, public(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *AccountRepository) UpdateProfile(_ context.Context, id string, upd domain.ProfileUpdate) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.get(id)
	if err != nil {
		return nil, err
	}
	if r.emailTaken(upd.Email, id) {
		return nil, domain.ErrEmailTaken
	}
	a.Name, a.Email = upd.Name, upd.Email
	return public(a), nil
}

func (r *AccountRepository) UpdateAdmin(_ context.Context, id string, upd domain.AdminUpdate) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.get(id)
	if err != nil {
		return nil, err
	}
	if r.emailTaken(upd.Email, id) {
		return nil, domain.ErrEmailTaken
	}
	a.Name, a.Email, a.Role = upd.Name, upd.Email, upd.Role
	return public(a), nil
}

func (r *AccountRepository) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.get(id)
	if err != nil {
		return nil, err
	}
	a.Role = role
	return public(a), nil
}

func (r *AccountRepository) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.get(id)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (r *AccountRepository) UpdateAvatar(_ context.Context, id string, avatar domain.Avatar) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.get(id)
	if err != nil {
		return nil, err
	}
	a.Avatar = &avatar
	return public(a), nil
}

func (r *AccountRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.get(id); err != nil {
		return err
	}
	delete(r.byID, id)
	return nil
}

func (r *AccountRepository) SetRecovery(_ context.Context, id string, st domain.RecoveryState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.get(id)
	if err != nil {
		return err
	}
	a.Recovery = &st
	return nil
}

func (r *AccountRepository) ClearRecovery(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.get(id)
	if err != nil {
		return err
	}
	a.Recovery = nil
	return nil
}

func (r *AccountRepository) ConsumeRecovery(_ context.Context, tokenHash, hash string, now time.Time) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, a := range r.byID {
		if a.Recovery != nil && a.Recovery.TokenHash == tokenHash && now.Before(a.Recovery.ExpiresAt) {
			a.PasswordHash = hash
			a.Recovery = nil
			return public(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *AccountRepository) ClearExpiredRecovery(_ context.Context, tokenHash string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	for _, a := range r.byID {
		if a.Recovery != nil && a.Recovery.TokenHash == tokenHash && !now.Before(a.Recovery.ExpiresAt) {
			a.Recovery = nil
			return true, nil
		}
	}
	return false, nil
}

// Account returns a full copy of the stored account, secrets included, or nil.
func (r *AccountRepository) Account(id string) *domain.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneAccount(r.byID[id])
}
