package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zachrizzo/hens-travel/internal/repository/ports"
	"github.com/zachrizzo/hens-travel/internal/service"
	"github.com/zachrizzo/hens-travel/internal/util"
)

// statusFor maps a service error to its HTTP status and the short message a
// user is shown. The wrapped detail only goes to the log.
func statusFor(err error) (int, string) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrSessionRequired):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, service.ErrAuth):
		return http.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, service.ErrTourNotFound):
		return http.StatusBadRequest, "tour not found"
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ports.ErrRecordNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrSubmitInProgress):
		return http.StatusConflict, "a submit is already in progress"
	case errors.Is(err, service.ErrStore):
		return http.StatusBadGateway, "record store unavailable"
	case errors.Is(err, service.ErrMedia):
		return http.StatusBadGateway, "image storage unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func writeServiceError(c echo.Context, err error) error {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		logFrom(c).Error().Err(err).Str("route", c.Path()).Msg("request failed")
	}
	return c.JSON(status, util.Error(message))
}
