package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

type Config struct {
	Port            string
	Env             string
	DatabaseURL     string
	DBMaxConns      int
	JWTSecret       string
	JWTExpiresIn    time.Duration
	CORSOrigins     []string
	MaxUploadBytes  int64
	BcryptCost      int
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	OTLPEndpoint    string
	OTLPInsecure    bool
}

// Load reads the process environment, optionally seeded from a .env file.
// All invalid variables are reported together.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	r := reader{lookup: lookup}

	var missing []string
	databaseURL := r.str("DATABASE_URL", "")
	if databaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	secret := r.str("JWT_SECRET", "")
	if secret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	cfg := Config{
		Port:            strconv.Itoa(r.positiveInt("PORT", 8080)),
		Env:             r.oneOf("APP_ENV", EnvDevelopment, EnvDevelopment, EnvProduction, EnvTest),
		DatabaseURL:     databaseURL,
		DBMaxConns:      r.positiveInt("DB_MAX_CONNS", 10),
		JWTSecret:       secret,
		JWTExpiresIn:    r.duration("JWT_EXPIRES_IN", time.Hour),
		CORSOrigins:     r.list("CORS_ORIGINS", []string{"*"}),
		MaxUploadBytes:  int64(r.positiveInt("MAX_UPLOAD_BYTES", 5*1024*1024)),
		BcryptCost:      r.intRange("BCRYPT_COST", 10, 4, 31),
		LogLevel:        r.str("LOG_LEVEL", "info"),
		LogFormat:       r.oneOf("LOG_FORMAT", "json", "json", "console"),
		ShutdownTimeout: time.Duration(r.positiveInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		OTLPEndpoint:    r.str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:    r.boolean("OTEL_EXPORTER_OTLP_INSECURE", false),
	}
	if len(r.errs) > 0 {
		return Config{}, errors.Join(r.errs...)
	}
	return cfg, nil
}

type reader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (r *reader) str(key, fallback string) string {
	raw, ok := r.lookup(key)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return fallback
	}
	return raw
}

func (r *reader) positiveInt(key string, fallback int) int {
	raw := r.str(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		r.errs = append(r.errs, fmt.Errorf("%s must be a positive integer, got %q", key, raw))
		return fallback
	}
	return value
}

func (r *reader) intRange(key string, fallback, lo, hi int) int {
	raw := r.str(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < lo || value > hi {
		r.errs = append(r.errs, fmt.Errorf("%s must be an integer between %d and %d, got %q", key, lo, hi, raw))
		return fallback
	}
	return value
}

func (r *reader) boolean(key string, fallback bool) bool {
	raw := r.str(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be a boolean, got %q", key, raw))
		return fallback
	}
	return value
}

func (r *reader) oneOf(key, fallback string, allowed ...string) string {
	raw := r.str(key, fallback)
	for _, candidate := range allowed {
		if raw == candidate {
			return raw
		}
	}
	r.errs = append(r.errs, fmt.Errorf("%s must be one of %s, got %q", key, strings.Join(allowed, ", "), raw))
	return fallback
}

func (r *reader) list(key string, fallback []string) []string {
	raw := r.str(key, "")
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func (r *reader) duration(key string, fallback time.Duration) time.Duration {
	raw := r.str(key, "")
	if raw == "" {
		return fallback
	}
	value, err := ParseExpiry(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return value
}

var expiryPattern = regexp.MustCompile(`^(\d+)(ms|s|m|h|d|w|y)$`)

// ParseExpiry accepts Go durations ("90m", "1h30m") and the short
// day/week/year forms ("7d", "2w", "1y").
func ParseExpiry(raw string) (time.Duration, error) {
	if match := expiryPattern.FindStringSubmatch(raw); match != nil {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", raw)
		}
		unit := map[string]time.Duration{
			"ms": time.Millisecond,
			"s":  time.Second,
			"m":  time.Minute,
			"h":  time.Hour,
			"d":  24 * time.Hour,
			"w":  7 * 24 * time.Hour,
			"y":  365 * 24 * time.Hour,
		}[match[2]]
		if n == 0 {
			return 0, fmt.Errorf("duration must be positive, got %q", raw)
		}
		return time.Duration(n) * unit, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	if value <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %q", raw)
	}
	return value, nil
}
