// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MaxBodyBytes caps the size of a request body. Deal creation carries up
	// to four images, so the default is 20 MiB.
	MaxBodyBytes int64

	// MigrateOnStart applies pending migrations before serving. Defaults to true.
	MigrateOnStart bool

	Cloudinary Cloudinary
	SMTP       SMTP

	// UploadAttempts is how many times one image upload is tried. Defaults to 3.
	UploadAttempts int

	// DealNotifyTo receives an email for every new deal. Empty disables it.
	DealNotifyTo string
}

// Cloudinary holds the media host credentials. All fields are required.
type Cloudinary struct {
	CloudName string
	APIKey    string
	APISecret string
}

// SMTP holds the outgoing mail relay settings. Username and Password are
// required; the username doubles as the default sender address.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is loaded first if present; variables
// already set in the environment win. Returns an error listing any required
// variables that are not set, or naming a variable with a malformed value.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CORSOrigins:  splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		DealNotifyTo: os.Getenv("DEAL_NOTIFY_TO"),
	}

	var missing []string
	required := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg.DatabaseURL = required("DATABASE_URL")
	cfg.Cloudinary = Cloudinary{
		CloudName: required("CLOUDINARY_CLOUD_NAME"),
		APIKey:    required("CLOUDINARY_API_KEY"),
		APISecret: required("CLOUDINARY_API_SECRET"),
	}
	cfg.SMTP = SMTP{
		Host:     getEnv("SMTP_HOST", "smtp.mail.yahoo.com"),
		Username: required("EMAIL_USER"),
		Password: required("EMAIL_PASS"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	var err error
	if cfg.SMTP.Port, err = getInt("SMTP_PORT", 465); err != nil {
		return Config{}, err
	}
	if cfg.UploadAttempts, err = getInt("UPLOAD_ATTEMPTS", 3); err != nil {
		return Config{}, err
	}
	if cfg.UploadAttempts < 1 {
		return Config{}, fmt.Errorf("UPLOAD_ATTEMPTS must be at least 1, got %d", cfg.UploadAttempts)
	}
	maxBody, err := getInt("MAX_BODY_BYTES", 20<<20)
	if err != nil {
		return Config{}, err
	}
	if maxBody < 1 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", maxBody)
	}
	cfg.MaxBodyBytes = int64(maxBody)
	if cfg.MigrateOnStart, err = getBool("MIGRATE_ON_START", true); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
