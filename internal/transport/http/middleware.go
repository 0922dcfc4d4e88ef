package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/zachrizzo/hens-travel/internal/domain"
	"github.com/zachrizzo/hens-travel/internal/service"
	"github.com/zachrizzo/hens-travel/internal/util"
)

const (
	contextSessionKey = "admin_session"
	contextTokenKey   = "admin_token"

	// SessionCookieName carries the admin JWT for the HTML dashboard.
	SessionCookieName = "hens_admin"
)

// RequireSession guards the JSON admin API with a bearer token.
func RequireSession(sessions *service.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if strings.TrimSpace(authHeader) == "" {
				return c.JSON(http.StatusUnauthorized, util.Error("missing authorization header"))
			}
			token, ok := bearerToken(authHeader)
			if !ok {
				return c.JSON(http.StatusUnauthorized, util.Error("invalid authorization header"))
			}
			session, err := sessions.Current(c.Request().Context(), token)
			if err != nil {
				return writeServiceError(c, err)
			}
			c.Set(contextSessionKey, session)
			c.Set(contextTokenKey, token)
			return next(c)
		}
	}
}

// RequireAdminPage guards the HTML dashboard. Visitors without a live
// session cookie are sent to the login page.
func RequireAdminPage(sessions *service.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !resolveCookieSession(c, sessions) {
				clearSessionCookie(c, false)
				return c.Redirect(http.StatusSeeOther, "/admin/login")
			}
			return next(c)
		}
	}
}

// OptionalSession resolves the cookie session when present so public pages
// can tell a signed-in admin apart. It never rejects.
func OptionalSession(sessions *service.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			resolveCookieSession(c, sessions)
			return next(c)
		}
	}
}

func CurrentSession(c echo.Context) (*domain.AdminSession, bool) {
	session, ok := c.Get(contextSessionKey).(*domain.AdminSession)
	return session, ok && session != nil
}

func currentToken(c echo.Context) string {
	token, _ := c.Get(contextTokenKey).(string)
	return token
}

func resolveCookieSession(c echo.Context, sessions *service.SessionManager) bool {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	session, err := sessions.Current(c.Request().Context(), cookie.Value)
	if err != nil {
		return false
	}
	c.Set(contextSessionKey, session)
	c.Set(contextTokenKey, cookie.Value)
	return true
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
