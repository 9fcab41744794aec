package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoginHandlerMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rr := httptest.NewRecorder()

	Config{}.loginHandler(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestLoginHandlerBadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("not json"))
	rr := httptest.NewRecorder()

	Config{}.loginHandler(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestLoginHandlerEmptyCredentials(t *testing.T) {
	// Empty credentials short-circuit to the same 401 as a failed lookup.
	tests := []string{
		`{}`,
		`{"username":"alice"}`,
		`{"password":"pw1"}`,
		`{"username":"  ","password":"pw1"}`,
	}

	for _, body := range tests {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		rr := httptest.NewRecorder()

		Config{}.loginHandler(nil).ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("body %s: expected 401, got %d", body, rr.Code)
		}
		if got := strings.TrimSpace(rr.Body.String()); got != "invalid credentials" {
			t.Fatalf("body %s: expected uniform message, got %q", body, got)
		}
	}
}
