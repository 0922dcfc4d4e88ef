package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zachrizzo/hens-travel/internal/service"
)

const (
	tabTours    = "tours"
	tabHome     = "home"
	tabBookings = "bookings"
)

// AdminPageHandler serves the dashboard. Each session works on its own
// service.Workspace; every POST redirects back to its tab, where the
// outcome is shown once.
type AdminPageHandler struct {
	workspaces *service.Workspaces
	now        func() time.Time
}

func RegisterAdminPages(e *echo.Echo, sessions *service.SessionManager, workspaces *service.Workspaces) {
	h := &AdminPageHandler{workspaces: workspaces, now: time.Now}
	guard := RequireAdminPage(sessions)

	e.GET("/admin", h.dashboard, guard)
	e.POST("/admin/tours", h.submitTour, guard)
	e.POST("/admin/tours/:id/delete", h.deleteTour, guard)
	e.POST("/admin/tours/reset", h.resetTour, guard)
	e.POST("/admin/home", h.submitContent, guard)
	e.POST("/admin/bookings/:id/delete", h.deleteBooking, guard)
}

type adminView struct {
	chrome
	Tab      string
	Notices  []*service.Notice
	Tours    service.TourSnapshot
	Content  service.SiteContentSnapshot
	Bookings service.BookingSnapshot
}

func (h *AdminPageHandler) workspace(c echo.Context) *service.Workspace {
	session, _ := CurrentSession(c)
	return h.workspaces.For(session.ID)
}

func (h *AdminPageHandler) dashboard(c echo.Context) error {
	ws := h.workspace(c)
	ctx := c.Request().Context()

	view := adminView{
		chrome: chrome{Lang: "en", Title: "Admin Dashboard", Year: h.now().Year(), Rights: "All rights reserved"},
		Tab:    tabTours,
	}
	var err error
	switch c.QueryParam("tab") {
	case tabHome:
		view.Tab = tabHome
		err = ws.Content.Mount(ctx)
	case tabBookings:
		view.Tab = tabBookings
		err = ws.Bookings.Mount(ctx)
	default:
		err = ws.Tours.Mount(ctx)
	}
	if err != nil {
		logFrom(c).Warn().Err(err).Str("tab", view.Tab).Msg("dashboard fetch failed")
	}

	for _, n := range []*service.Notice{ws.Tours.TakeNotice(), ws.Content.TakeNotice(), ws.Bookings.TakeNotice()} {
		if n != nil {
			view.Notices = append(view.Notices, n)
		}
	}
	view.Tours = ws.Tours.Snapshot()
	if id := c.QueryParam("edit"); id != "" && view.Tab == tabTours {
		if snap, err := ws.Tours.Edit(id); err == nil {
			view.Tours = snap
		} else {
			logFrom(c).Debug().Err(err).Msg("edit of unlisted tour")
		}
	}
	view.Content = ws.Content.Snapshot()
	view.Bookings = ws.Bookings.Snapshot()
	return c.Render(http.StatusOK, "admin.html", view)
}

func (h *AdminPageHandler) submitTour(c echo.Context) error {
	var form service.TourForm
	if err := c.Bind(&form); err != nil {
		return c.String(http.StatusBadRequest, "invalid form")
	}
	image, closeImage, err := formImage(c, "image")
	if err != nil {
		return c.String(http.StatusBadRequest, "unable to read upload")
	}
	defer closeImage()

	if _, err := h.workspace(c).Tours.Submit(c.Request().Context(), c.FormValue("id"), form, image); err != nil {
		if errors.Is(err, service.ErrSubmitInProgress) {
			return c.String(http.StatusConflict, "a submit is already in progress")
		}
		logFrom(c).Warn().Err(err).Msg("tour submit failed")
	}
	return redirectTab(c, tabTours)
}

func (h *AdminPageHandler) resetTour(c echo.Context) error {
	h.workspace(c).Tours.Reset()
	return redirectTab(c, tabTours)
}

func (h *AdminPageHandler) deleteTour(c echo.Context) error {
	result, err := h.workspace(c).Tours.Delete(c.Request().Context(), c.Param("id"))
	switch {
	case err != nil:
		logFrom(c).Warn().Err(err).Str("tour_id", c.Param("id")).Msg("tour delete failed")
	case !result.ImageRemoved:
		logFrom(c).Warn().Str("tour_id", c.Param("id")).Str("image_url", result.OrphanedImageURL).Msg("tour deleted with orphaned image")
	}
	return redirectTab(c, tabTours)
}

func (h *AdminPageHandler) submitContent(c echo.Context) error {
	var form service.SiteContentForm
	if err := c.Bind(&form); err != nil {
		return c.String(http.StatusBadRequest, "invalid form")
	}
	hero, closeHero, err := formImage(c, "heroImage")
	if err != nil {
		return c.String(http.StatusBadRequest, "unable to read heroImage")
	}
	defer closeHero()
	about, closeAbout, err := formImage(c, "aboutImage")
	if err != nil {
		return c.String(http.StatusBadRequest, "unable to read aboutImage")
	}
	defer closeAbout()

	if err := h.workspace(c).Content.Submit(c.Request().Context(), form, hero, about); err != nil {
		if errors.Is(err, service.ErrSubmitInProgress) {
			return c.String(http.StatusConflict, "a submit is already in progress")
		}
		logFrom(c).Warn().Err(err).Msg("home content submit failed")
	}
	return redirectTab(c, tabHome)
}

func (h *AdminPageHandler) deleteBooking(c echo.Context) error {
	if err := h.workspace(c).Bookings.Delete(c.Request().Context(), c.Param("id")); err != nil {
		logFrom(c).Warn().Err(err).Str("booking_id", c.Param("id")).Msg("booking delete failed")
	}
	return redirectTab(c, tabBookings)
}

func redirectTab(c echo.Context, tab string) error {
	return c.Redirect(http.StatusSeeOther, "/admin?tab="+tab)
}
