package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shopit/storefront/internal/api/handler"
	"github.com/shopit/storefront/internal/api/metrics"
	"github.com/shopit/storefront/internal/core/domain"
	"github.com/shopit/storefront/internal/core/ports"
	"github.com/shopit/storefront/internal/core/security"
)

const gateAuthenticate = "authenticate"

// Authenticate resolves the session token to a live account and stores it
// on the context. The token is read from the session cookie first, then from
// an "Authorization: Bearer" header. Every rejection carries the same
// client message.
func Authenticate(verifier ports.SessionVerifier, accounts ports.AccountLookup, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := sessionToken(c)
			if token == "" {
				return reject(c, log, domain.Unauthenticated(domain.MsgLoginRequired, domain.ErrTokenMissing))
			}

			id, err := verifier.Verify(token)
			if err != nil {
				return reject(c, log, err)
			}

			acct, err := accounts.FindByID(c.Request().Context(), id)
			if err != nil {
				if errors.Is(err, domain.ErrAccountNotFound) {
					return reject(c, log, domain.Unauthenticated(domain.MsgLoginRequired, err))
				}
				return domain.Internal(err)
			}

			metrics.GateDecisionsTotal.WithLabelValues(gateAuthenticate, "allowed", "").Inc()
			handler.SetAccount(c, acct)
			return next(c)
		}
	}
}

func sessionToken(c echo.Context) string {
	if cookie, err := c.Cookie(handler.SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	scheme, token, ok := strings.Cut(c.Request().Header.Get(echo.HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func reject(c echo.Context, log zerolog.Logger, err error) error {
	reason := security.Reason(err)
	metrics.GateDecisionsTotal.WithLabelValues(gateAuthenticate, "rejected", reason).Inc()
	log.Debug().
		Str("reason", reason).
		Str("path", c.Path()).
		Msg("authentication rejected")
	return err
}
