package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDownloadHandlerRequiresAuth(t *testing.T) {
	cfg := Config{Auth: AuthConfig{TokenSecret: "s"}}

	req := httptest.NewRequest(http.MethodPost, "/download", strings.NewReader(`{"code":"abc123"}`))
	rr := httptest.NewRecorder()

	cfg.downloadHandler(nil, nil, "bucket").ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without token, got %d", rr.Code)
	}
}

func TestDownloadHandlerMethodNotAllowed(t *testing.T) {
	cfg := Config{Auth: AuthConfig{TokenSecret: "s"}}
	tok, _, err := cfg.Auth.issueToken("user-1")
	if err != nil {
		t.Fatalf("issueToken error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/download", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()

	cfg.downloadHandler(nil, nil, "bucket").ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestDownloadHandlerMissingCode(t *testing.T) {
	cfg := Config{Auth: AuthConfig{TokenSecret: "s"}}
	tok, _, err := cfg.Auth.issueToken("user-1")
	if err != nil {
		t.Fatalf("issueToken error: %v", err)
	}

	for _, body := range []string{`{}`, `{"code":""}`, `{"code":"   "}`} {
		req := httptest.NewRequest(http.MethodPost, "/download", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+tok)
		rr := httptest.NewRecorder()

		cfg.downloadHandler(nil, nil, "bucket").ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rr.Code)
		}
	}
}

func TestDownloadHandlerBadJSON(t *testing.T) {
	cfg := Config{Auth: AuthConfig{TokenSecret: "s"}}
	tok, _, err := cfg.Auth.issueToken("user-1")
	if err != nil {
		t.Fatalf("issueToken error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/download", strings.NewReader("{"))
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()

	cfg.downloadHandler(nil, nil, "bucket").ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
