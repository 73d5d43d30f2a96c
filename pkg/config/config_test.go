package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFallsBackToEnv(t *testing.T) {
	// off GCP, Load resolves every value from the environment
	t.Setenv("CONFIG_SECRET_NAME", "")
	t.Setenv("DB_NAME", "ppv")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USERNAME", "ppv")
	t.Setenv("DB_PASSWORD", "secret")

	cfg := Load(context.Background())
	require.NotNil(t, cfg)
	assert.Equal(t, "ppv", cfg.Database.Name)
	assert.Equal(t, 7, cfg.Access.TokenTTLDays)
	assert.Equal(t, 2, cfg.Access.DeviceLimit)
}
