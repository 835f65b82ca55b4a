package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DemoAuto, cfg.DemoMode)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 12, cfg.Listing.PageSize)
	assert.Equal(t, 50, cfg.Listing.MaxPageSize)
	assert.Equal(t, int64(5<<20), cfg.Storage.MaxBytes)
	assert.Equal(t, time.Minute, cfg.AnalyticsFlushInterval)
	assert.True(t, cfg.DemoFallbackAllowed())
	assert.False(t, cfg.StorageConfigured())
	assert.Equal(t, "https://gitlab.com", cfg.GitLabURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ENV", "production")
	t.Setenv("DEMO_MODE", "OFF")
	t.Setenv("LISTING_PAGE_SIZE", "20")
	t.Setenv("JWT_ACCESS_EXPIRY", "not-a-duration")
	t.Setenv("S3_BUCKET", "tapri-assets")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, DemoOff, cfg.DemoMode)
	assert.False(t, cfg.DemoFallbackAllowed())
	assert.Equal(t, 20, cfg.Listing.PageSize)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.True(t, cfg.StorageConfigured())
}

func TestLoad_PanicsWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	assert.Panics(t, func() { _, _ = Load() })
}

func TestParseDemoMode(t *testing.T) {
	assert.Equal(t, DemoOn, parseDemoMode(" on "))
	assert.Equal(t, DemoOff, parseDemoMode("off"))
	assert.Equal(t, DemoAuto, parseDemoMode("sometimes"))
}
