// Package security holds the credential primitives: password hashing,
// session tokens and password-recovery tokens.
//
// Every component is built from a Params value that is assembled once at
// startup and never mutated, so instances are safe for concurrent use.
package security

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultSessionTTL  = 7 * 24 * time.Hour
	DefaultRecoveryTTL = 30 * time.Minute
	DefaultBcryptCost  = bcrypt.DefaultCost
)

// Params is the process-wide credential configuration.
type Params struct {
	SigningKey  []byte
	SessionTTL  time.Duration
	BcryptCost  int
	RecoveryTTL time.Duration
}

// Validate rejects parameters the components cannot run with.
func (p *Params) Validate() error {
	if len(p.SigningKey) == 0 {
		return errors.New("security: signing key is empty")
	}
	if p.SessionTTL <= 0 {
		return fmt.Errorf("security: session ttl must be positive, got %s", p.SessionTTL)
	}
	if p.RecoveryTTL <= 0 {
		return fmt.Errorf("security: recovery ttl must be positive, got %s", p.RecoveryTTL)
	}
	if p.BcryptCost < bcrypt.MinCost || p.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("security: bcrypt cost %d outside [%d, %d]", p.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}
