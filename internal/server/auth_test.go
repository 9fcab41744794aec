package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"missing header", "", "", true},
		{"wrong scheme", "Basic abc", "", true},
		{"bearer only", "Bearer ", "", true},
		{"ok", "Bearer tok123", "tok123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/files", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			got, err := bearerToken(r)
			if tt.wantErr {
				if err != errTokenMissing {
					t.Fatalf("expected errTokenMissing, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("bearerToken = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequireAuthMissingToken(t *testing.T) {
	cfg := AuthConfig{TokenSecret: "s"}

	req := httptest.NewRequest(http.MethodGet, "/files", nil)
	rr := httptest.NewRecorder()

	cfg.requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	cfg := AuthConfig{TokenSecret: "s"}

	req := httptest.NewRequest(http.MethodGet, "/files", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rr := httptest.NewRecorder()

	cfg.requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	cfg := AuthConfig{TokenSecret: "s", TokenTTL: time.Hour}
	tok, _, err := cfg.issueToken("user-42")
	if err != nil {
		t.Fatalf("issueToken error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/files", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()

	var gotUserID string
	cfg.requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if gotUserID != "user-42" {
		t.Fatalf("context user id = %q, want user-42", gotUserID)
	}
}

func TestUserIDFromContextEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := UserIDFromContext(req.Context()); got != "" {
		t.Fatalf("expected empty user id, got %q", got)
	}
}
