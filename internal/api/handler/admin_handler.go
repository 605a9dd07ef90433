package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopit/storefront/internal/core/domain"
	"github.com/shopit/storefront/internal/core/ports"
)

// AdminHandler serves account management for administrators.
type AdminHandler struct {
	accounts ports.AccountService
}

func NewAdminHandler(accounts ports.AccountService) *AdminHandler {
	return &AdminHandler{accounts: accounts}
}

// ListAccounts returns every account.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  accountListResponse
// @Failure      401  {object}  ErrorBody
// @Failure      403  {object}  ErrorBody
// @Router       /admin/users [get]
func (h *AdminHandler) ListAccounts(c echo.Context) error {
	accts, err := h.accounts.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountListResponse{Success: true, Count: len(accts), Users: accts})
}

// GetAccount returns one account.
//
// @Summary      Get account
// @Tags         admin
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  accountResponse
// @Failure      404  {object}  ErrorBody
// @Router       /admin/users/{id} [get]
func (h *AdminHandler) GetAccount(c echo.Context) error {
	acct, err := h.accounts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountResponse{Success: true, User: acct})
}

// UpdateAccount edits name, email and role.
//
// @Summary      Update account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string              true  "Account id"
// @Param        body  body      adminUpdateRequest  true  "New values"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  ErrorBody
// @Failure      404   {object}  ErrorBody
// @Router       /admin/users/{id} [put]
func (h *AdminHandler) UpdateAccount(c echo.Context) error {
	var req adminUpdateRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	upd := domain.AdminUpdate{Name: req.Name, Email: req.Email, Role: domain.Role(req.Role)}
	acct, err := h.accounts.AdminUpdate(c.Request().Context(), c.Param("id"), upd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountResponse{Success: true, User: acct})
}

// UpdateRole changes only the role.
//
// @Summary      Change account role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string             true  "Account id"
// @Param        body  body      updateRoleRequest  true  "New role"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  ErrorBody
// @Failure      404   {object}  ErrorBody
// @Router       /admin/users/{id}/role [put]
func (h *AdminHandler) UpdateRole(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return err
	}

	acct, err := h.accounts.UpdateRole(c.Request().Context(), c.Param("id"), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountResponse{Success: true, User: acct})
}

// DeleteAccount removes an account and its avatar.
//
// @Summary      Delete account
// @Tags         admin
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  ErrorBody
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteAccount(c echo.Context) error {
	if err := h.accounts.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Account deleted"})
}
