package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	conf, err := Load("./testdata/config.yml")
	require.NoError(t, err)

	assert.Equal(t, "production", conf.API.Environment)
	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, "release", conf.Gin.Mode)
	assert.Equal(t, "db.internal", conf.Postgres.Host)
	assert.Equal(t, "disable", conf.Postgres.SSLMode)
	assert.Equal(t, 2*time.Second, conf.Timeouts.Dependency)
	assert.Equal(t, 30*time.Second, conf.Timeouts.Storage)
	assert.Equal(t, 30, conf.API.RateLimitPerMinute)
	assert.True(t, conf.Redis.Enabled())
	assert.False(t, conf.Storage.Enabled())
	assert.Equal(t, "host=db.internal port=5433 user=quest password=secret dbname=quests sslmode=disable", conf.Postgres.DSN())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "override.internal")
	t.Setenv("STORAGE_BUCKET", "proofs")

	conf, err := Load("./testdata/config.yml")
	require.NoError(t, err)

	assert.Equal(t, "override.internal", conf.Postgres.Host)
	assert.True(t, conf.Storage.Enabled())
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load("./testdata/invalid.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conf.Validate")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("./testdata/nope.yml")
	require.Error(t, err)
}
