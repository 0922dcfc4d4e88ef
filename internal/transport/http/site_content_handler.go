package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zachrizzo/hens-travel/internal/service"
	"github.com/zachrizzo/hens-travel/internal/util"
)

type SiteContentHandler struct {
	content *service.SiteContentService
}

func RegisterSiteContent(e *echo.Echo, sessions *service.SessionManager, content *service.SiteContentService) {
	h := &SiteContentHandler{content: content}

	admin := e.Group("/api/v1/admin/site-content", RequireSession(sessions))
	admin.GET("", h.get)
	admin.PUT("", h.update)
}

func (h *SiteContentHandler) get(c echo.Context) error {
	content, exists, err := h.content.Get(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"content": content,
		"exists":  exists,
	})
}

func (h *SiteContentHandler) update(c echo.Context) error {
	var form service.SiteContentForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	hero, closeHero, err := formImage(c, "heroImage")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("unable to read heroImage"))
	}
	defer closeHero()
	about, closeAbout, err := formImage(c, "aboutImage")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("unable to read aboutImage"))
	}
	defer closeAbout()

	content, err := h.content.Save(c.Request().Context(), form, hero, about)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"content": content,
		"message": "Home page content updated successfully!",
	})
}
