// codes.go - Access code generation and registration.
//
// Every uploaded file gets a short shareable code, unique across all files.
// Uniqueness rests on the files_code_key constraint: registration is a
// single INSERT carrying the code, retried with a fresh code on conflict.
// There is deliberately no lookup-then-insert anywhere.
package server

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeAlphabet    = "abcdefghijklmnopqrstuvwxyz0123456789"
	codeLength      = 6
	maxCodeAttempts = 5
)

var errCodeCollisions = errors.New("could not allocate a unique access code")

// fileRecord is a registry entry for one uploaded file.
type fileRecord struct {
	ID          uuid.UUID
	ObjectKey   string
	OrigName    string
	ContentType string
	SizeBytes   int64
	OwnerID     string
}

// generateAccessCode returns a random 6-character lowercase-alphanumeric
// code from crypto/rand.
func generateAccessCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}

// registerFile persists the registry entry under a freshly generated code
// and returns the code. A code collision triggers a retry with a new code;
// any other error is terminal.
func registerFile(ctx context.Context, db *sql.DB, rec fileRecord) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generateAccessCode()
		if err != nil {
			return "", err
		}

		_, err = db.ExecContext(ctx,
			`INSERT INTO files (id, object_key, orig_name, content_type, size_bytes, owner_id, code)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			rec.ID, rec.ObjectKey, rec.OrigName, rec.ContentType, rec.SizeBytes, rec.OwnerID, code,
		)
		if err == nil {
			return code, nil
		}
		if isUniqueViolation(err, "files_code_key") {
			continue
		}
		return "", err
	}
	return "", errCodeCollisions
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation, optionally restricted to one named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
