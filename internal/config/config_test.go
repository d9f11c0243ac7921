package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, StoreDriverBadger, cfg.Store.Driver)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.BaseURL)
	assert.Equal(t, time.Second, cfg.GitHub.InitialBackoff)
	assert.Equal(t, time.Minute, cfg.GitHub.MaxBackoff)
	assert.Equal(t, uint(3), cfg.GitHub.MaxRetries)
	assert.Equal(t, "llama4:latest", cfg.LLM.Model)
	assert.Equal(t, 0.5, cfg.Scoring.SizeFloor)
	assert.Zero(t, cfg.Scoring.MetricTimeout)
	assert.Equal(t, 30*time.Second, cfg.Analysis.LintTimeout)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("SCORING_RAMP_UP_MODE", "documentation")
	t.Setenv("SCORING_METRIC_TIMEOUT", "45s")
	t.Setenv("LOG_FILE", "/tmp/scorer.log")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "documentation", cfg.Scoring.RampUpMode)
	assert.Equal(t, 45*time.Second, cfg.Scoring.MetricTimeout)
	assert.Equal(t, "/tmp/scorer.log", cfg.Logger.File)
}

func TestLoad_NumericLogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{value: "0", want: "panic"},
		{value: "1", want: "info"},
		{value: "2", want: "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("LOGGER_LEVEL", "warn")
			t.Setenv("LOG_LEVEL", tt.value)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Logger.Level)
		})
	}
}

func TestLoad_UnknownStoreDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mysql")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "scores", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/scores?sslmode=disable", d.DSN())
}
