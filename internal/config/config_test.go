package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REMOVEBG_API_KEY", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("R2_ACCOUNT_ID", "")
	t.Setenv("R2_S3_ENDPOINT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	for _, key := range []string{"PORT", "UPLOAD_MAX_BYTES", "REMOVEBG_ENDPOINT", "REMOVEBG_MAX_BYTES", "REMOVEBG_TIMEOUT",
		"STORAGE_BUCKET", "STORAGE_PREFIX", "MIRROR_BACKEND"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://api.remove.bg/v1.0/removebg", cfg.RemoveBGEndpoint)
	assert.Equal(t, int64(10*1024*1024), cfg.RemoveBGMaxBytes)
	assert.Equal(t, int64(32*1024*1024), cfg.UploadMaxBytes)
	assert.Equal(t, 60*time.Second, cfg.RemoveBGTimeout)
	assert.Equal(t, StorageDriverR2, cfg.StorageDriver)
	assert.Equal(t, "processed-images", cfg.StorageBucket)
	assert.Equal(t, "processed", cfg.StoragePrefix)
	assert.Equal(t, "vips", cfg.MirrorBackend)
	assert.Equal(t, []string{cfg.AppBaseURL}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.RemoveBGConfigured())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REMOVEBG_API_KEY", "secret")
	t.Setenv("REMOVEBG_TIMEOUT", "15s")
	t.Setenv("REMOVEBG_MAX_BYTES", "2048")
	t.Setenv("UPLOAD_MAX_BYTES", "4096")
	t.Setenv("MIRROR_BACKEND", "IMAGING")
	t.Setenv("STORAGE_PREFIX", "/cutouts/")
	t.Setenv("R2_ACCOUNT_ID", "abc123")
	t.Setenv("R2_S3_ENDPOINT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg := Load()

	assert.True(t, cfg.RemoveBGConfigured())
	assert.Equal(t, 15*time.Second, cfg.RemoveBGTimeout)
	assert.Equal(t, int64(2048), cfg.RemoveBGMaxBytes)
	assert.Equal(t, int64(4096), cfg.UploadMaxBytes)
	assert.Equal(t, "imaging", cfg.MirrorBackend)
	assert.Equal(t, "cutouts", cfg.StoragePrefix)
	assert.Equal(t, "https://abc123.r2.cloudflarestorage.com", cfg.R2S3Endpoint)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("REMOVEBG_MAX_BYTES", "ten megabytes")
	t.Setenv("REMOVEBG_RATE_LIMIT_RPS", "fast")
	t.Setenv("DATABASE_MIGRATE", "maybe")

	cfg := Load()

	assert.Equal(t, int64(10*1024*1024), cfg.RemoveBGMaxBytes)
	assert.Equal(t, 0, cfg.RemoveBGRateLimitRPS)
	assert.True(t, cfg.DatabaseMigrate)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			DatabaseURL:       "postgres://localhost/cutout",
			UploadMaxBytes:    4096,
			RemoveBGMaxBytes:  1024,
			MirrorBackend:     "imaging",
			StorageDriver:     StorageDriverR2,
			R2AccessKeyID:     "id",
			R2SecretAccessKey: "secret",
			R2S3Endpoint:      "https://r2.example",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid r2", func(c *Config) {}, ""},
		{"missing r2 credentials", func(c *Config) { c.R2SecretAccessKey = "" }, "R2 credentials are required"},
		{"missing r2 endpoint", func(c *Config) { c.R2S3Endpoint = "" }, "R2_S3_ENDPOINT"},
		{"valid local", func(c *Config) { c.StorageDriver = StorageDriverLocal; c.LocalStorageDir = "/tmp/x" }, ""},
		{"minio without keys", func(c *Config) { c.StorageDriver = StorageDriverMinio }, "MinIO credentials are required"},
		{"unknown driver", func(c *Config) { c.StorageDriver = "ftp" }, `unknown STORAGE_DRIVER "ftp"`},
		{"unknown mirror backend", func(c *Config) { c.MirrorBackend = "sharp" }, `unknown MIRROR_BACKEND "sharp"`},
		{"missing database", func(c *Config) { c.DatabaseURL = "" }, "DATABASE_URL is required"},
		{"non-positive max bytes", func(c *Config) { c.RemoveBGMaxBytes = 0 }, "REMOVEBG_MAX_BYTES"},
		{"non-positive upload max bytes", func(c *Config) { c.UploadMaxBytes = -1 }, "UPLOAD_MAX_BYTES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
