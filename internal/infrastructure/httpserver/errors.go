package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatly/user-service/internal/core/domain/identity"
)

// toHTTPError maps the identity error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an infrastructure failure: log it and answer with
// a generic 500 so store errors never leak to clients.
func (s *Server) toHTTPError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, identity.ErrValidation),
		errors.Is(err, identity.ErrCaptchaRejected),
		errors.Is(err, identity.ErrOTPMismatch),
		errors.Is(err, identity.ErrOTPExpired),
		errors.Is(err, identity.ErrAlreadyExists),
		errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrSessionExpired),
		errors.Is(err, identity.ErrOTPNotVerified),
		errors.Is(err, identity.ErrPasswordMismatch):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, identity.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, identity.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, err.Error())
	default:
		if s.logger != nil {
			s.logger.WithError(err).WithField("path", c.Request().URL.Path).Error("request failed")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong")
	}
}
