package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shopit/storefront/internal/api/handler"
	"github.com/shopit/storefront/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps classified domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders a consistent JSON envelope: {"success": false, "message": "<message>"}.
//
// With withStack set the envelope also lists the error chain.
func NewHTTPErrorHandler(log zerolog.Logger, withStack bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		body := handler.ErrorBody{Success: false, Message: msg}
		if withStack {
			body.Stack = errorChain(err)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnexpected(log, c, err)
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var de *domain.Error
	if !errors.As(err, &de) {
		logUnexpected(log, c, err)
		return http.StatusInternalServerError, domain.MsgInternal
	}

	switch de.Kind {
	case domain.KindValidation, domain.KindConflict:
		return http.StatusBadRequest, de.Message
	case domain.KindAuthentication:
		return http.StatusUnauthorized, de.Message
	case domain.KindAuthorization:
		return http.StatusForbidden, de.Message
	case domain.KindNotFound:
		return http.StatusNotFound, de.Message
	case domain.KindRateLimited:
		return http.StatusTooManyRequests, de.Message
	case domain.KindInternal:
		logUnexpected(log, c, err)
		return http.StatusInternalServerError, domain.MsgInternal
	default:
		logUnexpected(log, c, err)
		return http.StatusInternalServerError, domain.MsgInternal
	}
}

func logUnexpected(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
}

// errorChain lists err and every error it wraps, outermost first.
func errorChain(err error) []string {
	var chain []string
	for err != nil {
		chain = append(chain, err.Error())
		err = errors.Unwrap(err)
	}
	return chain
}
