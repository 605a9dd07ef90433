package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopit/storefront/internal/core/domain"
	"github.com/shopit/storefront/internal/core/ports"
)

// AccountHandler serves the signed-in account's own profile.
type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Me returns the current account.
//
// @Summary      Current account
// @Tags         profile
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  accountResponse
// @Failure      401  {object}  ErrorBody
// @Router       /me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	acct, err := mustAccount(c)
	if err != nil {
		return err
	}
	fresh, err := h.accounts.Profile(c.Request().Context(), acct.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountResponse{Success: true, User: fresh})
}

// UpdateProfile changes the current account's name and email.
//
// @Summary      Update profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      updateProfileRequest  true  "New name and email"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  ErrorBody
// @Router       /me/update [put]
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	acct, err := mustAccount(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	updated, err := h.accounts.UpdateProfile(c.Request().Context(), acct.ID, domain.ProfileUpdate{Name: req.Name, Email: req.Email})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountResponse{Success: true, User: updated})
}

// UpdatePassword changes the password after checking the old one.
//
// @Summary      Change password
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      updatePasswordRequest  true  "Old and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  ErrorBody
// @Router       /password/update [put]
func (h *AccountHandler) UpdatePassword(c echo.Context) error {
	acct, err := mustAccount(c)
	if err != nil {
		return err
	}
	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.accounts.ChangePassword(c.Request().Context(), acct.ID, req.OldPassword, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Password updated"})
}

// UploadAvatar replaces the current account's avatar.
//
// @Summary      Upload avatar
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      uploadAvatarRequest  true  "Base64 data URL"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  ErrorBody
// @Router       /me/upload_avatar [put]
func (h *AccountHandler) UploadAvatar(c echo.Context) error {
	acct, err := mustAccount(c)
	if err != nil {
		return err
	}
	var req uploadAvatarRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	updated, err := h.accounts.UploadAvatar(c.Request().Context(), acct.ID, req.Avatar)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountResponse{Success: true, User: updated})
}
