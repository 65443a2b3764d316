// Package config loads the API server's configuration from the
// environment.
package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/evcraddock/litetravel/internal/analyze"
	"github.com/evcraddock/litetravel/internal/db"
)

const (
	DefaultAppName  = "LiteTravel"
	DefaultPort     = 8080
	DefaultTokenTTL = 24 * time.Hour

	// DefaultRateLimit is requests per minute per IP on login, register
	// and analysis routes.
	DefaultRateLimit = 30
)

// Version is the application version, overridden at build time.
var Version = "0.1.0"

var defaultCORSOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"http://127.0.0.1:5173",
	"http://127.0.0.1:3000",
}

// Config holds server configuration.
type Config struct {
	Port       int
	DBPath     string
	JWTSecret  []byte
	TokenTTL   time.Duration
	DevMode    bool
	AppName    string
	AppVersion string

	AMapKey      string
	AMapKeyWebJS string

	LLMProvider    string
	LLMAPIKey      string
	LLMModel       string
	LLMBaseURL     string
	LLMConcurrency int

	CORSOrigins        []string
	RateLimitPerMinute int
}

// PublicConfig is the subset of configuration exposed to clients.
type PublicConfig struct {
	AMapKeyWebJS string `json:"amap_key_web_js,omitempty"`
	AppName      string `json:"app_name"`
	AppVersion   string `json:"app_version"`
}

// Load reads a .env file from the working directory, if present, and then
// the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv()
}

// FromEnv creates a Config from LT_* environment variables.
func FromEnv() (Config, error) {
	cfg := Config{
		DBPath:       os.Getenv("LT_DB_PATH"),
		DevMode:      os.Getenv("LT_DEV_MODE") == "true",
		AppName:      envOrDefault("LT_APP_NAME", DefaultAppName),
		AppVersion:   envOrDefault("LT_APP_VERSION", Version),
		AMapKey:      os.Getenv("LT_AMAP_KEY"),
		AMapKeyWebJS: os.Getenv("LT_AMAP_KEY_WEB_JS"),
		LLMProvider:  envOrDefault("LT_LLM_PROVIDER", analyze.ProviderVolcengine),
		LLMAPIKey:    os.Getenv("LT_LLM_API_KEY"),
		LLMModel:     os.Getenv("LT_LLM_MODEL"),
		LLMBaseURL:   os.Getenv("LT_LLM_BASE_URL"),
		CORSOrigins:  defaultCORSOrigins,
	}

	var err error
	if cfg.Port, err = envInt("LT_PORT", DefaultPort); err != nil {
		return Config{}, err
	}
	if cfg.LLMConcurrency, err = envInt("LT_LLM_CONCURRENCY", analyze.DefaultConcurrency); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitPerMinute, err = envInt("LT_RATE_LIMIT", DefaultRateLimit); err != nil {
		return Config{}, err
	}
	if cfg.TokenTTL, err = envDuration("LT_TOKEN_TTL", DefaultTokenTTL); err != nil {
		return Config{}, err
	}

	if cfg.DBPath == "" {
		if cfg.DBPath, err = db.DefaultPath(); err != nil {
			return Config{}, err
		}
	}

	switch cfg.LLMProvider {
	case analyze.ProviderVolcengine, analyze.ProviderGemini, analyze.ProviderMock:
	default:
		return Config{}, fmt.Errorf("LT_LLM_PROVIDER: unknown provider %q", cfg.LLMProvider)
	}

	if v := os.Getenv("LT_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	if secret := os.Getenv("LT_JWT_SECRET"); secret != "" {
		cfg.JWTSecret = []byte(secret)
	} else if cfg.DevMode {
		cfg.JWTSecret = make([]byte, 32)
		if _, err := rand.Read(cfg.JWTSecret); err != nil {
			return Config{}, fmt.Errorf("generating jwt secret: %w", err)
		}
		slog.Warn("LT_JWT_SECRET not set, using a random secret; tokens will not survive a restart")
	} else {
		return Config{}, errors.New("LT_JWT_SECRET is required unless LT_DEV_MODE=true")
	}

	return cfg, nil
}

// Public returns the client-visible configuration.
func (c Config) Public() PublicConfig {
	return PublicConfig{
		AMapKeyWebJS: c.AMapKeyWebJS,
		AppName:      c.AppName,
		AppVersion:   c.AppVersion,
	}
}

// LLM returns the analysis provider settings.
func (c Config) LLM() analyze.ProviderConfig {
	return analyze.ProviderConfig{
		Name:    c.LLMProvider,
		APIKey:  c.LLMAPIKey,
		Model:   c.LLMModel,
		BaseURL: c.LLMBaseURL,
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: %q is not a positive integer", key, v)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: %q is not a positive duration", key, v)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
