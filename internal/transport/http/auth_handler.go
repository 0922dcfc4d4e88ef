package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zachrizzo/hens-travel/internal/service"
	"github.com/zachrizzo/hens-travel/internal/util"
)

type AuthHandler struct {
	sessions     *service.SessionManager
	secureCookie bool
	now          func() time.Time
}

func RegisterAuth(e *echo.Echo, sessions *service.SessionManager, secureCookie bool) {
	h := &AuthHandler{sessions: sessions, secureCookie: secureCookie, now: time.Now}

	api := e.Group("/api/v1/auth")
	api.POST("/login", h.login)
	api.POST("/logout", h.logout)
	api.GET("/session", h.session, RequireSession(sessions))

	e.GET("/admin/login", h.loginPage, OptionalSession(sessions))
	e.POST("/admin/login", h.loginForm)
	e.POST("/admin/logout", h.logoutForm)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	result, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, AuthTokenResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.Format(time.RFC3339),
		Session:   buildAuthSession(result.Session),
	})
}

// logout is idempotent: a missing or stale token still answers 204.
func (h *AuthHandler) logout(c echo.Context) error {
	token, _ := bearerToken(c.Request().Header.Get("Authorization"))
	if err := h.sessions.Logout(c.Request().Context(), token); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) session(c echo.Context) error {
	session, ok := CurrentSession(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	return c.JSON(http.StatusOK, util.Data("session", buildAuthSession(*session)))
}

type loginView struct {
	chrome
	Email string
	Error string
}

func (h *AuthHandler) loginView(email, message string) loginView {
	return loginView{
		chrome: chrome{Lang: "en", Title: "Admin Login", Year: h.now().Year(), Rights: "All rights reserved"},
		Email:  email,
		Error:  message,
	}
}

func (h *AuthHandler) loginPage(c echo.Context) error {
	if _, ok := CurrentSession(c); ok {
		return c.Redirect(http.StatusSeeOther, "/admin")
	}
	return c.Render(http.StatusOK, "admin_login.html", h.loginView("", ""))
}

func (h *AuthHandler) loginForm(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, "admin_login.html", h.loginView("", "Invalid form."))
	}
	result, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		status, _ := statusFor(err)
		message := "Invalid email or password."
		if !errors.Is(err, service.ErrAuth) {
			logFrom(c).Error().Err(err).Msg("admin login failed")
			message = "Login is unavailable right now. Please try again."
		}
		return c.Render(status, "admin_login.html", h.loginView(req.Email, message))
	}

	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusSeeOther, "/admin")
}

func (h *AuthHandler) logoutForm(c echo.Context) error {
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		if err := h.sessions.Logout(c.Request().Context(), cookie.Value); err != nil {
			logFrom(c).Warn().Err(err).Msg("logout failed")
		}
	}
	clearSessionCookie(c, h.secureCookie)
	return c.Redirect(http.StatusSeeOther, "/")
}

func clearSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
