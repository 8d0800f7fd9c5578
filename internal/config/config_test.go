package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"DATABASE_URL": "postgres://localhost/crm",
		"JWT_SECRET":   "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, int64(5242880), cfg.MaxUploadBytes)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestFromLookupMissingRequired(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{}))
	require.Error(t, err)
	assert.Equal(t, "missing required environment variables: DATABASE_URL, JWT_SECRET", err.Error())
}

func TestFromLookupRejectsInvalidValues(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{
		"DATABASE_URL":   "postgres://localhost/crm",
		"JWT_SECRET":     "secret",
		"PORT":           "-1",
		"APP_ENV":        "staging",
		"JWT_EXPIRES_IN": "soon",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT must be a positive integer")
	assert.Contains(t, err.Error(), "APP_ENV must be one of")
	assert.Contains(t, err.Error(), "JWT_EXPIRES_IN")
}

func TestFromLookupOrigins(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"DATABASE_URL": "postgres://localhost/crm",
		"JWT_SECRET":   "secret",
		"CORS_ORIGINS": "https://app.example.com, https://admin.example.com,",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
}

func TestParseExpiry(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
		ok   bool
	}{
		{"1h", time.Hour, true},
		{"1d", 24 * time.Hour, true},
		{"2w", 14 * 24 * time.Hour, true},
		{"500ms", 500 * time.Millisecond, true},
		{"1h30m", 90 * time.Minute, true},
		{"0s", 0, false},
		{"abc", 0, false},
		{"-5m", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseExpiry(tc.raw)
			if !tc.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
