package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zachrizzo/hens-travel/internal/service"
	"github.com/zachrizzo/hens-travel/internal/util"
)

type TourHandler struct {
	tours *service.TourService
}

func RegisterTours(e *echo.Echo, sessions *service.SessionManager, tours *service.TourService) {
	h := &TourHandler{tours: tours}

	admin := e.Group("/api/v1/admin/tours", RequireSession(sessions))
	admin.GET("", h.list)
	admin.POST("", h.create)
	admin.PUT("/:id", h.update)
	admin.DELETE("/:id", h.delete)
}

func (h *TourHandler) list(c echo.Context) error {
	tours, err := h.tours.List(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("tours", tours))
}

func (h *TourHandler) create(c echo.Context) error {
	return h.save(c, "", http.StatusCreated, "Tour added successfully!")
}

func (h *TourHandler) update(c echo.Context) error {
	return h.save(c, c.Param("id"), http.StatusOK, "Tour updated successfully!")
}

// save accepts JSON or multipart; multipart may carry an "image" file that
// replaces imageUrl.
func (h *TourHandler) save(c echo.Context, id string, status int, message string) error {
	var form service.TourForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	image, closeImage, err := formImage(c, "image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("unable to read upload"))
	}
	defer closeImage()

	tour, err := h.tours.Save(c.Request().Context(), id, form, image)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(status, util.Envelope{
		"tour":    tour,
		"message": message,
	})
}

func (h *TourHandler) delete(c echo.Context) error {
	result, err := h.tours.DeleteByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	if !result.ImageRemoved {
		logFrom(c).Warn().Str("tour_id", c.Param("id")).Str("image_url", result.OrphanedImageURL).Msg("tour deleted with orphaned image")
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"result":  result,
		"message": "Tour deleted successfully!",
	})
}
