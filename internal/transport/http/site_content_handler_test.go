package http

import (
	"net/http"
	"strings"
	"testing"
)

func TestSiteContentAPI(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t)

	rec := s.do(jsonRequest(http.MethodGet, "/api/v1/admin/site-content", "", token))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"exists":false`) {
		t.Fatalf("expected absent content, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = s.do(jsonRequest(http.MethodPut, "/api/v1/admin/site-content", `{"heroTitle_en":"Paris by Night","heroTitle_pt":"Paris à Noite"}`, token))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = s.do(getPage("/api/v1/site-content?lang=en", nil))
	if !strings.Contains(rec.Body.String(), "Paris by Night") {
		t.Fatalf("expected stored hero title, got %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "About Your Guide") {
		t.Fatalf("expected unset about title to fall back, got %s", rec.Body.String())
	}
}

func TestBookingAPI_ListAndDelete(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t)
	id := s.seedTour(t, cityWalk())

	rec := s.do(jsonRequest(http.MethodPost, "/api/v1/bookings", `{"tourId":"`+id+`","name":"Ana","email":"ana@example.com"}`, ""))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec = s.do(jsonRequest(http.MethodGet, "/api/v1/admin/bookings", "", token))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ana@example.com") {
		t.Fatalf("expected booking in list, got %d: %s", rec.Code, rec.Body.String())
	}

	records, _ := s.bookings.ListAll(t.Context())
	for i := 0; i < 2; i++ {
		rec = s.do(jsonRequest(http.MethodDelete, "/api/v1/admin/bookings/"+records[0].ID, "", token))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("delete %d: expected 204, got %d", i, rec.Code)
		}
	}
	if s.bookings.Len() != 0 {
		t.Fatalf("expected booking removed")
	}
}
