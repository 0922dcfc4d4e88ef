package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zachrizzo/hens-travel/internal/domain"
	"github.com/zachrizzo/hens-travel/internal/i18n"
	"github.com/zachrizzo/hens-travel/internal/service"
	"github.com/zachrizzo/hens-travel/internal/util"
)

type PublicHandler struct {
	site *service.PublicSiteService
	now  func() time.Time
}

func RegisterPublic(e *echo.Echo, sessions *service.SessionManager, site *service.PublicSiteService) {
	h := &PublicHandler{site: site, now: time.Now}

	e.GET("/", h.home, OptionalSession(sessions))
	e.POST("/book", h.book, OptionalSession(sessions))

	api := e.Group("/api/v1")
	api.GET("/tours", h.listTours)
	api.GET("/site-content", h.siteContent)
	api.POST("/bookings", h.createBooking)
}

type homeView struct {
	chrome
	Page            service.PublicPage
	Form            service.BookingForm
	Notice          *service.Notice
	SignedIn        bool
	OtherLocale     domain.Locale
	OtherLocaleName string
}

func (h *PublicHandler) view(c echo.Context, page service.PublicPage) homeView {
	other := domain.LocalePT
	if page.Locale == domain.LocalePT {
		other = domain.LocaleEN
	}
	_, signedIn := CurrentSession(c)
	return homeView{
		chrome: chrome{
			Lang:   string(page.Locale),
			Title:  page.HeroTitle,
			Year:   h.now().Year(),
			Rights: page.Strings.Footer.Rights,
		},
		Page:            page,
		SignedIn:        signedIn,
		OtherLocale:     other,
		OtherLocaleName: i18n.For(other).LanguageName,
	}
}

func (h *PublicHandler) home(c echo.Context) error {
	locale := domain.ParseLocale(c.QueryParam("lang"))
	page := h.site.Load(c.Request().Context(), locale)
	return c.Render(http.StatusOK, "home.html", h.view(c, page))
}

// book handles the booking form. A failed submit re-renders the page with
// what the visitor typed; a successful one clears the form.
func (h *PublicHandler) book(c echo.Context) error {
	var form service.BookingForm
	bindErr := c.Bind(&form)
	locale := domain.ParseLocale(c.FormValue("lang"))
	ctx := c.Request().Context()

	page := h.site.Load(ctx, locale)
	view := h.view(c, page)

	if bindErr != nil {
		logFrom(c).Warn().Err(bindErr).Msg("booking form unreadable")
		view.Form = service.BookingForm{
			TourID:  c.FormValue("tourId"),
			Name:    c.FormValue("name"),
			Email:   c.FormValue("email"),
			Message: c.FormValue("message"),
			Date:    c.FormValue("date"),
		}
		view.Notice = &service.Notice{Kind: service.NoticeError, Message: service.MsgBookingFailed}
		return c.Render(http.StatusBadRequest, "home.html", view)
	}

	booking, err := h.site.SubmitBooking(ctx, page.Tours, locale, form)
	if err != nil {
		status, _ := statusFor(err)
		logFrom(c).Warn().Err(err).Str("tour_id", form.TourID).Msg("booking rejected")
		view.Form = form
		view.Notice = &service.Notice{Kind: service.NoticeError, Message: service.MsgBookingFailed}
		return c.Render(status, "home.html", view)
	}

	logFrom(c).Info().Str("booking_id", booking.ID).Str("tour_id", booking.TourID).Msg("booking created")
	view.Notice = &service.Notice{Kind: service.NoticeSuccess, Message: service.MsgBookingSucceeded}
	return c.Render(http.StatusOK, "home.html", view)
}

func (h *PublicHandler) listTours(c echo.Context) error {
	locale := domain.ParseLocale(c.QueryParam("lang"))
	page := h.site.Load(c.Request().Context(), locale)
	if failed, resp := sectionFailure(c, page.ToursState); failed {
		return resp
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"locale": page.Locale,
		"tours":  page.Cards,
	})
}

type siteContentResponse struct {
	Locale        domain.Locale `json:"locale"`
	HeroTitle     string        `json:"heroTitle"`
	HeroSubtitle  string        `json:"heroSubtitle"`
	AboutTitle    string        `json:"aboutTitle"`
	AboutContent  string        `json:"aboutContent"`
	HeroImageURL  string        `json:"heroImageUrl"`
	AboutImageURL string        `json:"aboutImageUrl"`
}

func (h *PublicHandler) siteContent(c echo.Context) error {
	locale := domain.ParseLocale(c.QueryParam("lang"))
	page := h.site.Load(c.Request().Context(), locale)
	if failed, resp := sectionFailure(c, page.ContentState); failed {
		return resp
	}
	return c.JSON(http.StatusOK, util.Data("content", siteContentResponse{
		Locale:        page.Locale,
		HeroTitle:     page.HeroTitle,
		HeroSubtitle:  page.HeroSubtitle,
		AboutTitle:    page.AboutTitle,
		AboutContent:  page.AboutContent,
		HeroImageURL:  page.HeroImageURL,
		AboutImageURL: page.AboutImageURL,
	}))
}

type bookingRequest struct {
	service.BookingForm
	Lang string `json:"lang"`
}

func (h *PublicHandler) createBooking(c echo.Context) error {
	var req bookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	locale := domain.ParseLocale(req.Lang)
	ctx := c.Request().Context()

	page := h.site.Load(ctx, locale)
	if failed, resp := sectionFailure(c, page.ToursState); failed {
		return resp
	}
	booking, err := h.site.SubmitBooking(ctx, page.Tours, locale, req.BookingForm)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, util.Envelope{
		"booking": booking,
		"message": service.MsgBookingSucceeded,
	})
}

// sectionFailure turns a failed or unfinished public section into a JSON
// error response.
func sectionFailure(c echo.Context, state service.SectionState) (bool, error) {
	switch {
	case strings.TrimSpace(state.Error) != "":
		return true, c.JSON(http.StatusBadGateway, util.Error(state.Error))
	case state.Loading:
		return true, c.JSON(http.StatusGatewayTimeout, util.Error("still loading, try again"))
	default:
		return false, nil
	}
}
