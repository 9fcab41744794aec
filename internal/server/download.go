package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

type downloadReq struct {
	Code string `json:"code"`
}

// downloadHandler handles POST /download with a JSON {code} body. The code
// lookup and the ownership check are a single predicate: a code that does
// not exist and a code owned by someone else produce the identical 404, so
// callers cannot probe for foreign codes.
func (cfg Config) downloadHandler(db *sql.DB, mc *minio.Client, bucket string) http.Handler {
	return cfg.Auth.requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req downloadReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		req.Code = strings.TrimSpace(req.Code)
		if req.Code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		userID := UserIDFromContext(r.Context())

		var (
			objectKey   string
			origName    string
			contentType string
			sizeBytes   int64
		)
		err := db.QueryRowContext(r.Context(),
			`SELECT object_key, orig_name, content_type, size_bytes
			 FROM files
			 WHERE code = $1 AND owner_id = $2`,
			req.Code, userID,
		).Scan(&objectKey, &origName, &contentType, &sizeBytes)
		if err != nil {
			if err == sql.ErrNoRows {
				http.Error(w, "file not found", http.StatusNotFound)
				return
			}
			rid := RequestIDFromContext(r.Context())
			log.Printf("rid=%s msg=download_query err=%v", rid, err)
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
		defer cancel()

		obj, err := mc.GetObject(ctx, bucket, objectKey, minio.GetObjectOptions{})
		if err != nil {
			rid := RequestIDFromContext(r.Context())
			log.Printf("rid=%s msg=getobject err=%v", rid, err)
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}
		defer func() { _ = obj.Close() }()

		// Force an early error for missing object / auth issues.
		if _, statErr := obj.Stat(); statErr != nil {
			rid := RequestIDFromContext(r.Context())
			log.Printf("rid=%s msg=statobject err=%v", rid, statErr)
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}

		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		} else {
			w.Header().Set("Content-Type", "application/octet-stream")
		}
		if sizeBytes > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(sizeBytes, 10))
		}

		// Encourage safe download behavior in browsers.
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, origName))

		w.WriteHeader(http.StatusOK)

		_, _ = io.Copy(w, obj)
	}))
}
