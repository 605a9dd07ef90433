package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/shopit/storefront/internal/api/handler"
	"github.com/shopit/storefront/internal/api/metrics"
	"github.com/shopit/storefront/internal/core/domain"
)

const gateAuthorize = "authorize"

// Authorize admits accounts whose role is in required. It must run after
// Authenticate; without an account on the context the request is treated
// as unauthenticated.
func Authorize(required domain.RoleSet) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acct, _ := handler.CurrentAccount(c)
			if err := domain.Authorize(required, acct); err != nil {
				reason := "role"
				if acct == nil {
					reason = "missing"
				}
				metrics.GateDecisionsTotal.WithLabelValues(gateAuthorize, "rejected", reason).Inc()
				return err
			}
			metrics.GateDecisionsTotal.WithLabelValues(gateAuthorize, "allowed", "").Inc()
			return next(c)
		}
	}
}
