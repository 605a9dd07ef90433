package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shopit/storefront/internal/api/metrics"
	"github.com/shopit/storefront/internal/core/domain"
	"github.com/shopit/storefront/internal/core/ports"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "token"

const msgPasswordMismatch = "Password does not match"

type AuthHandler struct {
	auth         ports.AuthService
	secureCookie bool
}

// NewAuthHandler wires the public account endpoints. secureCookie marks the
// session cookie Secure and should be set in production.
func NewAuthHandler(auth ports.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookie: secureCookie}
}

// Register creates a new account and signs it in.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  ErrorBody
// @Failure      500   {object}  ErrorBody
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	sess, err := h.auth.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	metrics.RegistrationsTotal.WithLabelValues(registrationOutcome(err)).Inc()
	if err != nil {
		return err
	}
	return h.sendSession(c, http.StatusCreated, sess)
}

// Login signs an account in with email and password.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  ErrorBody
// @Failure      401   {object}  ErrorBody
// @Failure      429   {object}  ErrorBody
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	sess, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
	if err != nil {
		return err
	}
	return h.sendSession(c, http.StatusOK, sess)
}

// Logout expires the session cookie. Bearer tokens stay valid until expiry.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Logged Out"})
}

// ForgotPassword mails a recovery link. The answer is the same whether or
// not the email is registered.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  ErrorBody
// @Failure      500   {object}  ErrorBody
// @Router       /password/forgot [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	err := h.auth.ForgotPassword(c.Request().Context(), req.Email)
	metrics.PasswordResetsTotal.WithLabelValues("request", resetOutcome(err, "accepted")).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Email sent to: " + req.Email})
}

// ResetPassword redeems a recovery token and signs the account in.
//
// @Summary      Reset password with a recovery token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path      string                false  "Recovery token"
// @Param        body   body      resetPasswordRequest  true   "New password"
// @Success      200    {object}  sessionResponse
// @Failure      400    {object}  ErrorBody
// @Router       /password/reset/{token} [put]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}
	token := c.Param("token")
	if token == "" {
		token = req.Token
	}
	password := req.password()
	if req.ConfirmPassword != "" && req.ConfirmPassword != password {
		return domain.Validation(msgPasswordMismatch)
	}

	sess, err := h.auth.ResetPassword(c.Request().Context(), token, password)
	metrics.PasswordResetsTotal.WithLabelValues("confirm", resetOutcome(err, "success")).Inc()
	if err != nil {
		return err
	}
	return h.sendSession(c, http.StatusOK, sess)
}

func (h *AuthHandler) sendSession(c echo.Context, status int, sess *ports.Session) error {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(status, sessionResponse{Success: true, Token: sess.Token, User: sess.Account})
}

// invalidBody turns a bind failure into a client error.
func invalidBody(err error) error {
	return domain.Validation("Invalid request body").WithCause(err)
}

func registrationOutcome(err error) string {
	if err == nil {
		return "success"
	}
	switch domain.KindOf(err) {
	case domain.KindInternal:
		return "error"
	case domain.KindConflict:
		return "duplicate"
	default:
		return "invalid"
	}
}

func loginOutcome(err error) string {
	if err == nil {
		return "success"
	}
	switch domain.KindOf(err) {
	case domain.KindAuthentication, domain.KindValidation:
		return "invalid_credentials"
	case domain.KindRateLimited:
		return "rate_limited"
	default:
		return "error"
	}
}

func resetOutcome(err error, ok string) string {
	switch {
	case err == nil:
		return ok
	case errors.Is(err, domain.ErrRecoveryExpired):
		return "expired"
	case domain.KindOf(err) == domain.KindValidation:
		return "invalid"
	default:
		return "error"
	}
}
