package server

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// fileEntry is one element of the GET /files response.
type fileEntry struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// listFilesHandler handles GET /files, returning every file owned by the
// caller in upload order.
func (cfg Config) listFilesHandler(db *sql.DB) http.Handler {
	return cfg.Auth.requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID := UserIDFromContext(r.Context())

		rows, err := db.QueryContext(r.Context(),
			`SELECT code, orig_name, content_type, size_bytes, created_at
			 FROM files
			 WHERE owner_id = $1
			 ORDER BY created_at, code`,
			userID,
		)
		if err != nil {
			rid := RequestIDFromContext(r.Context())
			log.Printf("rid=%s msg=list_files err=%v", rid, err)
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		defer func() { _ = rows.Close() }()

		entries := []fileEntry{}
		for rows.Next() {
			var e fileEntry
			if err := rows.Scan(&e.Code, &e.Name, &e.ContentType, &e.SizeBytes, &e.UploadedAt); err != nil {
				rid := RequestIDFromContext(r.Context())
				log.Printf("rid=%s msg=list_files_scan err=%v", rid, err)
				http.Error(w, "db error", http.StatusInternalServerError)
				return
			}
			entries = append(entries, e)
		}
		if err := rows.Err(); err != nil {
			rid := RequestIDFromContext(r.Context())
			log.Printf("rid=%s msg=list_files_rows err=%v", rid, err)
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(entries)
	}))
}
