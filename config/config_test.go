package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PUBLIC_BASE_URL", "https://ids.example.com/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("JWT_EXPIRY", "")
	t.Setenv("TIMEZONE", "")
	t.Setenv("CONTENT_STORE", "")
	t.Setenv("EVENT_PROFILE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://ids.example.com", cfg.PublicBaseURL)
	assert.Equal(t, []string{"https://ids.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 12*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, "postgres", cfg.ContentStore)
	assert.Equal(t, "NEPDENT", cfg.Profile.AttendeeIDPrefix)
	assert.Len(t, cfg.Profile.Interests, 6)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad jwt expiry", map[string]string{"JWT_EXPIRY": "soon"}},
		{"bad timezone", map[string]string{"TIMEZONE": "Mars/Olympus"}},
		{"unknown content store", map[string]string{"CONTENT_STORE": "redis"}},
		{"mongo without uri", map[string]string{"CONTENT_STORE": "mongo", "MONGO_URI": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GO_ENV", "production")
			t.Setenv("EVENT_PROFILE", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestRequireJWTSecret(t *testing.T) {
	assert.Error(t, (&Config{}).RequireJWTSecret())
	assert.Error(t, (&Config{Environment: "production", JWTSecret: "short"}).RequireJWTSecret())
	assert.NoError(t, (&Config{Environment: "development", JWTSecret: "short"}).RequireJWTSecret())
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "event.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
name = "Kathmandu Dental Expo"
attendee_id_prefix = "kde"
interests = ["Implants", "Orthodontics"]
`), 0o600))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "Kathmandu Dental Expo", p.Name)
	assert.Equal(t, "KDE", p.AttendeeIDPrefix)
	assert.Equal(t, []string{"Implants", "Orthodontics"}, p.Interests)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte(`attendee_id_prefix = "no-dashes-allowed"`), 0o600))
	_, err = LoadProfile(bad)
	require.Error(t, err)

	_, err = LoadProfile(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "production", "warn")
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "eventpass", line["service"])
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}
