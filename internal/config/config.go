package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	ListenAddr  string
	LogLevel    slog.Level
	DatabaseURL string
	RedisURL    string
	CacheTTL    time.Duration
	ScanWorkers int

	// SigningKey is a base64 Ed25519 seed. Empty means an ephemeral key is
	// generated at startup, which is only acceptable outside production.
	SigningKey    string
	SigningKeyID  string
	Issuer        string
	PublicBaseURL string
	AssessmentTTL time.Duration

	FetchTimeout time.Duration

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
	LLMTimeout    time.Duration
	HybridEnabled bool

	RateLimitRPS   float64
	RateLimitBurst int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads configuration from the environment, after applying a .env file
// in the working directory when present. Variables already set win over the file.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:            getenv("APP_ENV", "development"),
		ListenAddr:     getenv("LISTEN_ADDR", ":8080"),
		LogLevel:       getenvLevel("LOG_LEVEL", slog.LevelInfo),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		CacheTTL:       getenvDuration("CACHE_TTL", time.Hour),
		ScanWorkers:    getenvInt("SCAN_WORKERS", 0),
		SigningKey:     os.Getenv("SIGNING_KEY"),
		SigningKeyID:   os.Getenv("SIGNING_KEY_ID"),
		Issuer:         getenv("ISSUER", "clausegrade"),
		PublicBaseURL:  getenv("PUBLIC_BASE_URL", "http://localhost:8080"),
		AssessmentTTL:  getenvDuration("ASSESSMENT_TTL", 5*time.Minute),
		FetchTimeout:   getenvDuration("FETCH_TIMEOUT", 10*time.Second),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    getenv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),
		LLMTimeout:     getenvDuration("LLM_TIMEOUT", 20*time.Second),
		HybridEnabled:  getenvBool("HYBRID_ENABLED", false),
		RateLimitRPS:   getenvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getenvInt("RATE_LIMIT_BURST", 10),
	}
	return cfg, cfg.validate()
}

func (c Config) Production() bool { return c.Env == "production" }

func (c Config) validate() error {
	var errs []error
	if c.Production() && c.SigningKey == "" {
		errs = append(errs, errors.New("SIGNING_KEY is required in production"))
	}
	if c.AssessmentTTL <= 0 {
		errs = append(errs, errors.New("ASSESSMENT_TTL must be positive"))
	}
	if c.HybridEnabled && c.OpenAIKey == "" {
		errs = append(errs, errors.New("HYBRID_ENABLED requires OPENAI_API_KEY"))
	}
	if c.ScanWorkers > 0 && c.DatabaseURL == "" {
		errs = append(errs, errors.New("SCAN_WORKERS requires DATABASE_URL"))
	}
	return errors.Join(errs...)
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if out, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return out
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if out, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return out
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if out, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return out
		}
	}
	return def
}

// getenvDuration accepts Go durations ("90s") or a bare number of seconds.
func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}

func getenvLevel(key string, def slog.Level) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(os.Getenv(key))); err != nil {
		return def
	}
	return l
}
