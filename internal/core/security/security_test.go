package security

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

func testParams() *Params {
	return &Params{
		SigningKey:  []byte("test-signing-key-0123456789abcdef"),
		SessionTTL:  time.Hour,
		BcryptCost:  bcrypt.MinCost,
		RecoveryTTL: 30 * time.Minute,
	}
}

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time          { return c.t }
func (c *fixedClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
