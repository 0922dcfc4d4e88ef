package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zachrizzo/hens-travel/internal/service"
	"github.com/zachrizzo/hens-travel/internal/util"
)

type BookingHandler struct {
	bookings *service.BookingService
}

func RegisterBookings(e *echo.Echo, sessions *service.SessionManager, bookings *service.BookingService) {
	h := &BookingHandler{bookings: bookings}

	admin := e.Group("/api/v1/admin/bookings", RequireSession(sessions))
	admin.GET("", h.list)
	admin.DELETE("/:id", h.delete)
}

func (h *BookingHandler) list(c echo.Context) error {
	bookings, err := h.bookings.List(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("bookings", bookings))
}

func (h *BookingHandler) delete(c echo.Context) error {
	if err := h.bookings.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
