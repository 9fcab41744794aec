package server

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// loginHandler handles POST /login. An unknown username and a wrong password
// produce the identical response, so callers cannot probe which usernames
// exist.
func (cfg Config) loginHandler(db *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		req.Password = strings.TrimSpace(req.Password)
		if req.Username == "" || req.Password == "" {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		var userID string
		var passwordHash string
		err := db.QueryRowContext(r.Context(),
			`SELECT id, password_hash FROM users WHERE username = $1`,
			req.Username,
		).Scan(&userID, &passwordHash)
		if err != nil {
			if err != sql.ErrNoRows {
				rid := RequestIDFromContext(r.Context())
				log.Printf("rid=%s msg=login_query err=%v", rid, err)
			}
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		if !verifyPassword(req.Password, passwordHash) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		token, exp, err := cfg.Auth.issueToken(userID)
		if err != nil {
			rid := RequestIDFromContext(r.Context())
			log.Printf("rid=%s msg=token_issue err=%v", rid, err)
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(loginResp{
			Token:     token,
			ExpiresAt: exp.Format(time.RFC3339),
		})
	})
}
