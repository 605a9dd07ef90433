package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/shopit/storefront/internal/core/domain"
)

const recoveryTokenBytes = 20

// RecoveryTokens mints single-use password-reset tokens. The plaintext goes
// to the account owner; only its SHA-256 digest is stored.
type RecoveryTokens struct {
	ttl     time.Duration
	now     func() time.Time
	entropy io.Reader
}

func NewRecoveryTokens(p *Params) *RecoveryTokens {
	return &RecoveryTokens{ttl: p.RecoveryTTL, now: time.Now, entropy: rand.Reader}
}

// WithClock returns a copy using now as its time source.
func (r *RecoveryTokens) WithClock(now func() time.Time) *RecoveryTokens {
	cp := *r
	cp.now = now
	return &cp
}

// Generate returns a fresh plaintext token and the state to persist for it.
func (r *RecoveryTokens) Generate() (string, domain.RecoveryState, error) {
	buf := make([]byte, recoveryTokenBytes)
	if _, err := io.ReadFull(r.entropy, buf); err != nil {
		return "", domain.RecoveryState{}, fmt.Errorf("recovery token entropy: %w", err)
	}
	plain := hex.EncodeToString(buf)
	return plain, domain.RecoveryState{
		TokenHash: HashRecoveryToken(plain),
		ExpiresAt: r.now().Add(r.ttl).UTC(),
	}, nil
}

// HashRecoveryToken is the digest stored for a recovery token. The token is
// high-entropy and single-use, so a fast hash suffices.
func HashRecoveryToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
