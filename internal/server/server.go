// Package server implements the HTTP surface of the file-sharing backend:
// registration, login, authenticated uploads, file listing, and retrieval
// of uploaded files by access code.
package server

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
)

// BuildInfo identifies the running binary in health output and logs.
type BuildInfo struct {
	Version string
	Commit  string
}

// Config carries everything the HTTP layer needs. The token secret and the
// storage settings are set once at startup and never mutated, so handlers
// may read them concurrently without locking.
type Config struct {
	Addr           string // e.g. ":8080"
	Build          BuildInfo
	Auth           AuthConfig
	DB             *sql.DB
	Minio          *minio.Client
	Bucket         string
	MaxUploadBytes int64 // 0 = unlimited
}

type Server struct {
	httpServer *http.Server
}

func New(cfg Config) *Server {
	mux := http.NewServeMux()

	mux.Handle("/health", cfg.healthHandler(cfg.DB, cfg.Minio, cfg.Bucket))
	mux.Handle("/register", cfg.registerHandler(cfg.DB))
	mux.Handle("/login", cfg.loginHandler(cfg.DB))
	mux.Handle("/upload", cfg.uploadHandler(cfg.DB, cfg.Minio, cfg.Bucket))
	mux.Handle("/files", cfg.listFilesHandler(cfg.DB))
	mux.Handle("/download", cfg.downloadHandler(cfg.DB, cfg.Minio, cfg.Bucket))

	// Wrap middleware: requestID -> logging -> mux
	var handler http.Handler = mux
	handler = loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)

	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{httpServer: s}
}

// Handler exposes the fully wired handler chain, mainly for tests that want
// to drive the server through httptest instead of a real listener.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
