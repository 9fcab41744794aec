package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
)

type healthResp struct {
	Status     string            `json:"status"`
	Version    string            `json:"version,omitempty"`
	Commit     string            `json:"commit,omitempty"`
	Components map[string]string `json:"components"`
}

// healthHandler reports liveness of the two external collaborators: the
// database and the content store. Any component down makes the whole
// response 503.
func (cfg Config) healthHandler(db *sql.DB, mc *minio.Client, bucket string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		components := map[string]string{
			"database": "up",
			"storage":  "up",
		}

		if db == nil {
			components["database"] = "down"
		} else if err := db.PingContext(ctx); err != nil {
			components["database"] = "down"
		}

		if mc == nil {
			components["storage"] = "down"
		} else if ok, err := mc.BucketExists(ctx, bucket); err != nil || !ok {
			components["storage"] = "down"
		}

		status := "ok"
		statusCode := http.StatusOK
		for _, s := range components {
			if s != "up" {
				status = "unhealthy"
				statusCode = http.StatusServiceUnavailable
				break
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(healthResp{
			Status:     status,
			Version:    cfg.Build.Version,
			Commit:     cfg.Build.Commit,
			Components: components,
		})
	})
}
