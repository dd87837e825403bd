package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/school-tournament/models"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"DATABASE_URL":   "postgres://localhost/games",
		"JWT_SECRET_KEY": "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 30*time.Minute, cfg.SlotDuration)
	assert.Equal(t, 5, cfg.GenderBlockSize)
	assert.Equal(t, 1000, cfg.MaxSlots)
	assert.Equal(t, models.GenderFemale, cfg.StartGenders["futsal"])
	assert.False(t, cfg.R2.Enabled())
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"DATABASE_URL":           "postgres://localhost/games",
		"JWT_SECRET_KEY":         "secret",
		"SERVER_PORT":            "9090",
		"LOG_LEVEL":              "debug",
		"SLOT_DURATION":          "45m",
		"GENDER_BLOCK_SIZE":      "3",
		"MODALITY_START_GENDERS": "Futsal=male, chess=f",
		"CORS_ALLOWED_ORIGINS":   "https://a.example, https://b.example",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 45*time.Minute, cfg.SlotDuration)
	assert.Equal(t, 3, cfg.GenderBlockSize)
	assert.Equal(t, models.GenderMale, cfg.StartGenders["futsal"])
	assert.Equal(t, models.GenderFemale, cfg.StartGenders["chess"])
	assert.Equal(t, models.GenderMale, cfg.StartGenders["volleyball"])
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	base := map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET_KEY": "k"}
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"missing database", "DATABASE_URL", ""},
		{"missing jwt", "JWT_SECRET_KEY", ""},
		{"port out of range", "SERVER_PORT", "70000"},
		{"port not a number", "SERVER_PORT", "eighty"},
		{"bad duration", "SLOT_DURATION", "half an hour"},
		{"negative duration", "ELIMINATION_SPACING", "-5m"},
		{"zero block", "GENDER_BLOCK_SIZE", "0"},
		{"bad start gender", "MODALITY_START_GENDERS", "futsal=mixed"},
		{"malformed start gender", "MODALITY_START_GENDERS", "futsal"},
		{"bad log level", "LOG_LEVEL", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := make(map[string]string, len(base)+1)
			for k, v := range base {
				env[k] = v
			}
			env[tt.key] = tt.value
			_, err := FromEnv(envOf(env))
			assert.Error(t, err)
		})
	}
}
