package security

import "golang.org/x/crypto/bcrypt"

// PasswordHasher hashes and verifies account passwords with bcrypt. Each
// Hash call draws a fresh salt.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(p *Params) *PasswordHasher {
	return &PasswordHasher{cost: p.BcryptCost}
}

func (h *PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches hashed. A malformed hash never
// matches.
func (h *PasswordHasher) Verify(plain, hashed string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
