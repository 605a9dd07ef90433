package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/shopit/storefront/internal/core/domain"
)

const accountKey = "account"

// SetAccount stores the authenticated account for downstream handlers.
func SetAccount(c echo.Context, acct *domain.Account) {
	c.Set(accountKey, acct)
}

// CurrentAccount returns the account placed by the Authenticate middleware.
func CurrentAccount(c echo.Context) (*domain.Account, bool) {
	acct, ok := c.Get(accountKey).(*domain.Account)
	return acct, ok && acct != nil
}

// mustAccount is used by handlers mounted behind Authenticate. A missing
// account means the route table is wired wrong.
func mustAccount(c echo.Context) (*domain.Account, error) {
	acct, ok := CurrentAccount(c)
	if !ok {
		return nil, domain.Unauthenticated(domain.MsgLoginRequired, domain.ErrTokenMissing)
	}
	return acct, nil
}
