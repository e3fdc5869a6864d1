package infra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("RECORD_STORE", "")
	t.Setenv("VARIANT_COUNT", "")
	t.Setenv("VARIANT_SPACING_SECONDS", "")
	t.Setenv("OBJECT_STORE", "")
	t.Setenv("IMAGE_PROVIDER", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, RecordStorePostgres, cfg.RecordStore)
	assert.Equal(t, ObjectStoreFilesystem, cfg.ObjectStore)
	assert.Equal(t, 4, cfg.VariantCount)
	assert.Equal(t, 7*time.Second, cfg.VariantSpacing)
	assert.Equal(t, 3, cfg.RetryMaxAttempts)
	assert.Equal(t, time.Second, cfg.RetryInitialDelay)
	assert.Equal(t, 9*time.Minute, cfg.JobTimeout)
}

func TestLoadConfigRequiresDatabaseForPostgres(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RECORD_STORE", "postgres")

	_, err := LoadConfig()
	require.EqualError(t, err, "DATABASE_URL is required")
}

func TestLoadConfigMemoryStoreNeedsNoDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RECORD_STORE", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, RecordStoreMemory, cfg.RecordStore)
	assert.True(t, cfg.EmbeddedWorker)
}

func TestLoadConfigValidatesProviders(t *testing.T) {
	t.Setenv("RECORD_STORE", "memory")

	t.Setenv("OBJECT_STORE", "s3")
	t.Setenv("S3_BUCKET", "")
	_, err := LoadConfig()
	require.EqualError(t, err, "S3_BUCKET is required")

	t.Setenv("OBJECT_STORE", "filesystem")
	t.Setenv("IMAGE_PROVIDER", "imagen")
	t.Setenv("VERTEX_PROJECT_ID", "")
	_, err = LoadConfig()
	require.EqualError(t, err, "VERTEX_PROJECT_ID is required")

	t.Setenv("IMAGE_PROVIDER", "dall-e")
	_, err = LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("RECORD_STORE", "memory")
	t.Setenv("VARIANT_COUNT", "2")
	t.Setenv("RETRY_INITIAL_DELAY_MS", "250")
	t.Setenv("S3_FORCE_PATH_STYLE", "true")
	t.Setenv("MAX_CONCURRENT_JOBS", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.VariantCount)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryInitialDelay)
	assert.True(t, cfg.S3ForcePathStyle)
	assert.Equal(t, 4, cfg.MaxConcurrentJobs)
}

func TestLoadConfigRejectsZeroVariants(t *testing.T) {
	t.Setenv("RECORD_STORE", "memory")
	t.Setenv("VARIANT_COUNT", "0")

	_, err := LoadConfig()
	require.EqualError(t, err, "VARIANT_COUNT must be positive")
}
