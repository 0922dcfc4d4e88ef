package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/zachrizzo/hens-travel/internal/domain"
	"github.com/zachrizzo/hens-travel/internal/repository/memory"
	"github.com/zachrizzo/hens-travel/internal/service"
	"github.com/zachrizzo/hens-travel/internal/util"
)

const (
	testAdminEmail    = "sophie@example.com"
	testAdminPassword = "Sup3r-Secret!pass"
)

type testServer struct {
	e          *echo.Echo
	sessions   *service.SessionManager
	workspaces *service.Workspaces
	tours      *memory.Store[domain.Tour]
	content    *memory.Store[domain.SiteContent]
	bookings   *memory.Store[domain.Booking]
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zerolog.Nop()

	s := &testServer{
		tours:    memory.NewStore[domain.Tour](),
		content:  memory.NewStore[domain.SiteContent](),
		bookings: memory.NewStore[domain.Booking](),
	}
	tourSvc := service.NewTourService(s.tours, nil, nil, logger)
	siteSvc := service.NewSiteContentService(s.content, nil, nil, logger)
	bookingSvc := service.NewBookingService(s.bookings, logger)
	public := service.NewPublicSiteService(tourSvc, siteSvc, bookingSvc, nil, service.PublicSiteConfig{}, logger)

	s.sessions = service.NewSessionManager(
		memory.NewStore[domain.AdminUser](),
		memory.NewStore[domain.AdminSession](),
		util.NewJWTManager("test-secret"),
		time.Hour,
	)
	s.workspaces = service.NewWorkspaces(tourSvc, siteSvc, bookingSvc)
	s.sessions.Subscribe(s.workspaces.HandleSessionEvent)
	if _, err := s.sessions.CreateAdmin(context.Background(), testAdminEmail, testAdminPassword); err != nil {
		t.Fatalf("CreateAdmin returned error: %v", err)
	}

	s.e = NewRouter(RouterConfig{AllowOrigins: []string{"*"}, Logger: logger})
	RegisterPublic(s.e, s.sessions, public)
	RegisterAuth(s.e, s.sessions, false)
	RegisterTours(s.e, s.sessions, tourSvc)
	RegisterSiteContent(s.e, s.sessions, siteSvc)
	RegisterBookings(s.e, s.sessions, bookingSvc)
	RegisterAdminPages(s.e, s.sessions, s.workspaces)
	RegisterSwagger(s.e)
	return s
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) seedTour(t *testing.T, tour domain.Tour) string {
	t.Helper()
	id, err := s.tours.Create(context.Background(), tour)
	if err != nil {
		t.Fatalf("seed tour: %v", err)
	}
	return id
}

func (s *testServer) token(t *testing.T) string {
	t.Helper()
	res, err := s.sessions.Login(context.Background(), testAdminEmail, testAdminPassword)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	return res.Token
}

func (s *testServer) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	return &http.Cookie{Name: SessionCookieName, Value: s.token(t)}
}

func cityWalk() domain.Tour {
	return domain.Tour{NameEN: "City Walk", NamePT: "Passeio", Duration: "2 hours", GroupSize: "1-8", Price: 49}
}

func jsonRequest(method, target, body, token string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	return req
}

func formRequest(target string, values url.Values, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func getPage(target string, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func body(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	data, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}
