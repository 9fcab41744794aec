// Package config loads typed service configuration from the environment,
// with optional .env file support for local development.
package config

import (
	"errors"
	"strings"
	"time"

	env "github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds every knob the backend reads at startup. All values come
// from environment variables; an optional .env file is merged in first.
type Config struct {
	Addr           string        `env:"SB_ADDR" envDefault:":8080"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	TokenSecret    string        `env:"SB_TOKEN_SECRET"`
	TokenTTL       time.Duration `env:"SB_TOKEN_TTL" envDefault:"1h"`
	S3Endpoint     string        `env:"SB_S3_ENDPOINT"`
	S3AccessKey    string        `env:"SB_S3_ACCESS_KEY"`
	S3SecretKey    string        `env:"SB_S3_SECRET_KEY"`
	Bucket         string        `env:"SB_BUCKET"`
	MaxUploadBytes int64         `env:"SB_MAX_UPLOAD_BYTES" envDefault:"0"`
	Version        string        `env:"SB_VERSION" envDefault:"dev"`
	Commit         string        `env:"SB_COMMIT" envDefault:"unknown"`
}

// Load reads the environment into a Config. A missing .env file is not an
// error; explicit environment variables always win over .env contents.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every required setting that is still empty, so a broken
// deployment fails fast with one actionable message.
func (c Config) Validate() error {
	var missing []string
	required := []struct {
		key string
		val string
	}{
		{"DATABASE_URL", c.DatabaseURL},
		{"SB_TOKEN_SECRET", c.TokenSecret},
		{"SB_S3_ENDPOINT", c.S3Endpoint},
		{"SB_S3_ACCESS_KEY", c.S3AccessKey},
		{"SB_S3_SECRET_KEY", c.S3SecretKey},
		{"SB_BUCKET", c.Bucket},
	}
	for _, r := range required {
		if strings.TrimSpace(r.val) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return errors.New("missing required settings: " + strings.Join(missing, ", "))
	}
	return nil
}
