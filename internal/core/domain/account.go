package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role classifies what an account may do. The set is closed.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// NameMaxLength is the longest display name an account may carry.
const NameMaxLength = 50

// ParseRole accepts only the known roles.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.TrimSpace(s)); r {
	case RoleUser, RoleAdmin:
		return r, nil
	}
	return "", Validation(fmt.Sprintf("role must be one of: %s, %s", RoleUser, RoleAdmin))
}

// Avatar references an image kept by the avatar store.
type Avatar struct {
	PublicID string `json:"public_id" bson:"public_id"`
	URL      string `json:"url" bson:"url"`
}

// RecoveryState is an outstanding password-reset token. Only the digest of
// the token is kept; hash and expiry travel together.
type RecoveryState struct {
	TokenHash string
	ExpiresAt time.Time
}

// Expired reports whether the token can no longer be redeemed at now.
func (r RecoveryState) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Account is a registered identity.
type Account struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"`
	Role         Role           `json:"role"`
	Avatar       *Avatar        `json:"avatar,omitempty"`
	Recovery     *RecoveryState `json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
}

// NewAccount builds an account for registration. The role always starts as
// RoleUser; promotion is an admin operation.
func NewAccount(name, email, passwordHash string, now time.Time) *Account {
	return &Account{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		CreatedAt:    now.UTC(),
	}
}

// ProfileUpdate holds the fields an account owner may change.
type ProfileUpdate struct {
	Name  string
	Email string
}

// AdminUpdate holds the fields an administrator may change on any account.
type AdminUpdate struct {
	Name  string
	Email string
	Role  Role
}
