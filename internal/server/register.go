package server

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// registerReq is the JSON payload for user registration.
type registerReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// registerResp is the JSON response after successful registration.
type registerResp struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// validateUsername checks username requirements.
func validateUsername(username string) (bool, string) {
	if username == "" {
		return false, "username is required"
	}
	if len(username) > 50 {
		return false, "username must be at most 50 characters"
	}
	return true, ""
}

// validatePassword checks password requirements.
func validatePassword(password string) (bool, string) {
	if password == "" {
		return false, "password is required"
	}
	if len(password) > 128 {
		return false, "password must be at most 128 characters"
	}
	return true, ""
}

// hashPassword generates a bcrypt hash of the password. bcrypt salts each
// hash itself, so no separate salt column is needed.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword compares a password with its hash.
func verifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// registerHandler handles POST /register. Username uniqueness is enforced
// by the users_username_key constraint, not by a lookup-then-insert, so two
// concurrent registrations of the same name cannot both succeed.
func (cfg Config) registerHandler(db *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req registerReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		req.Password = strings.TrimSpace(req.Password)

		if ok, msg := validateUsername(req.Username); !ok {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		if ok, msg := validatePassword(req.Password); !ok {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		passwordHash, err := hashPassword(req.Password)
		if err != nil {
			rid := RequestIDFromContext(r.Context())
			log.Printf("rid=%s msg=hash_failed err=%v", rid, err)
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}

		userID := uuid.New()
		_, err = db.ExecContext(r.Context(),
			`INSERT INTO users (id, username, password_hash) VALUES ($1, $2, $3)`,
			userID, req.Username, passwordHash,
		)
		if err != nil {
			if isUniqueViolation(err, "users_username_key") {
				http.Error(w, "username already registered", http.StatusConflict)
				return
			}
			rid := RequestIDFromContext(r.Context())
			log.Printf("rid=%s msg=register_insert err=%v", rid, err)
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(registerResp{
			ID:       userID.String(),
			Username: req.Username,
		})
	})
}
