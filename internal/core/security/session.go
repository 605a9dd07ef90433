package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shopit/storefront/internal/core/domain"
)

// SessionTokens issues and verifies HS256 bearer tokens carrying the account
// ID as subject. There is no revocation list: a token stays valid until it
// expires.
type SessionTokens struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewSessionTokens(p *Params) *SessionTokens {
	return &SessionTokens{key: p.SigningKey, ttl: p.SessionTTL, now: time.Now}
}

// WithClock returns a copy using now as its time source.
func (s *SessionTokens) WithClock(now func() time.Time) *SessionTokens {
	cp := *s
	cp.now = now
	return &cp
}

// TTL is the lifetime of every issued token.
func (s *SessionTokens) TTL() time.Duration { return s.ttl }

// Issue signs a token for accountID and returns it with its expiry.
func (s *SessionTokens) Issue(accountID string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, domain.Internal(err)
	}
	return signed, exp.Truncate(time.Second), nil
}

// Verify returns the account ID a valid token was issued for. Every failure
// carries the same client message; the cause is one of ErrTokenMalformed,
// ErrTokenSignature or ErrTokenExpired.
func (s *SessionTokens) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", domain.Unauthenticated(domain.MsgLoginRequired, tokenReason(err))
	}
	if claims.Subject == "" {
		return "", domain.Unauthenticated(domain.MsgLoginRequired, domain.ErrTokenMalformed)
	}
	return claims.Subject, nil
}

func tokenReason(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrTokenSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	default:
		return domain.ErrTokenMalformed
	}
}

// Reason names the internal cause of a verification failure for logs and
// metrics.
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenMissing):
		return "missing"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignature):
		return "signature"
	case errors.Is(err, domain.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_gone"
	default:
		return "other"
	}
}
