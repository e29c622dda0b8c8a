package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()

	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("UPSTREAM_URL", "https://store.example.com")
	t.Setenv("UPSTREAM_ANON_KEY", "anon-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.ServerPort)
	require.Equal(t, 24*time.Hour, cfg.TokenTTL)
	require.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.Equal(t, 100, cfg.RateLimitRPM)
	require.Equal(t, 10, cfg.AuthRateLimitRPM)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("CORS_ORIGINS", "https://market.uni.edu, https://staging.market.uni.edu")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, time.Hour, cfg.TokenTTL)
	require.Equal(t, []string{"https://market.uni.edu", "https://staging.market.uni.edu"}, cfg.CORSOrigins)
}

func TestLoadRequiredSettings(t *testing.T) {
	cases := []string{"JWT_SECRET", "UPSTREAM_URL", "UPSTREAM_ANON_KEY"}

	for _, missing := range cases {
		t.Run(missing, func(t *testing.T) {
			setRequired(t)
			t.Setenv(missing, "")

			_, err := Load()
			require.Error(t, err)
			require.Contains(t, err.Error(), missing)
		})
	}
}

func TestInvalidDurationFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("TOKEN_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 24*time.Hour, cfg.TokenTTL)
}
