package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// uploadResp is the JSON response after a successful upload. The code is
// the only artifact a client needs for later retrieval.
type uploadResp struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// safeExt returns a lowercased, purely alphanumeric extension of name, or
// "" when the extension is absent, oversized, or contains anything else.
// The extension is the only part of the client-supplied filename that ever
// reaches an object key.
func safeExt(name string) string {
	ext := path.Ext(path.Base(name))
	if ext == "" || ext == "." || len(ext) > 10 {
		return ""
	}
	out := make([]byte, 0, len(ext))
	out = append(out, '.')
	for i := 1; i < len(ext); i++ {
		c := ext[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			out = append(out, c)
		case c >= 'A' && c <= 'Z':
			out = append(out, c+('a'-'A'))
		default:
			return ""
		}
	}
	return string(out)
}

// uploadHandler handles POST /upload requests with a multipart "file" part.
// The bytes are streamed to the content store under a random object key,
// then the registry entry is inserted with a freshly allocated access code.
// If registration fails, the just-written object is deleted best-effort; a
// crash between the two steps can orphan a blob, which is accepted because
// an unregistered object is unreachable.
func (cfg Config) uploadHandler(db *sql.DB, mc *minio.Client, bucket string) http.Handler {
	return cfg.Auth.requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if cfg.MaxUploadBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes)
		}

		userID := UserIDFromContext(r.Context())

		mr, err := r.MultipartReader()
		if err != nil {
			http.Error(w, "bad multipart", http.StatusBadRequest)
			return
		}

		var filePart io.Reader
		var origName string
		var contentType string

		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				http.Error(w, "bad multipart", http.StatusBadRequest)
				return
			}
			defer func() { _ = part.Close() }()

			if part.FormName() != "file" {
				continue
			}

			filePart = part
			origName = path.Base(part.FileName())
			contentType = part.Header.Get("Content-Type")
			break
		}

		if filePart == nil {
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		if origName == "" || origName == "." || origName == "/" {
			origName = "upload"
		}

		// Object keys are random per call, never derived from the client
		// filename beyond its extension. Concurrent uploads cannot collide.
		id := uuid.New()
		objectKey := "uploads/" + id.String() + safeExt(origName)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
		defer cancel()

		info, err := mc.PutObject(
			ctx,
			bucket,
			objectKey,
			filePart,
			-1,
			minio.PutObjectOptions{ContentType: contentType},
		)
		if err != nil {
			rid := RequestIDFromContext(r.Context())
			log.Printf("rid=%s msg=putobject err=%v", rid, err)

			// If MaxBytesReader tripped, surface 413.
			if _, ok := err.(*http.MaxBytesError); ok {
				http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}

		code, err := registerFile(ctx, db, fileRecord{
			ID:          id,
			ObjectKey:   objectKey,
			OrigName:    origName,
			ContentType: contentType,
			SizeBytes:   info.Size,
			OwnerID:     userID,
		})
		if err != nil {
			rid := RequestIDFromContext(r.Context())
			log.Printf("rid=%s msg=register_file err=%v", rid, err)
			// Best-effort cleanup of the now-unreachable object.
			_ = mc.RemoveObject(ctx, bucket, objectKey, minio.RemoveObjectOptions{})
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(uploadResp{
			Code: code,
			Name: origName,
		})
	}))
}
