package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 3000, APIPrefix: "api/v1", Environment: "development"},
		JWT: JWTConfig{
			AccessSecret:      "access-secret",
			RefreshSecret:     "refresh-secret",
			AccessExpiration:  15 * time.Minute,
			RefreshExpiration: 168 * time.Hour,
		},
		Upload:  UploadConfig{Dir: "./uploads", MaxSize: 5 << 20},
		Storage: StorageConfig{Driver: "local"},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"empty access secret", func(c *Config) { c.JWT.AccessSecret = "" }, "are required"},
		{"empty refresh secret", func(c *Config) { c.JWT.RefreshSecret = "" }, "are required"},
		{"equal secrets", func(c *Config) { c.JWT.RefreshSecret = c.JWT.AccessSecret }, "must differ"},
		{"zero access expiration", func(c *Config) { c.JWT.AccessExpiration = 0 }, "must be positive"},
		{"unknown environment", func(c *Config) { c.Server.Environment = "staging" }, "invalid NODE_ENV"},
		{"s3 without bucket", func(c *Config) { c.Storage.Driver = "s3" }, "S3_BUCKET is required"},
		{"unknown storage driver", func(c *Config) { c.Storage.Driver = "gcs" }, "invalid STORAGE_DRIVER"},
		{"non-positive upload size", func(c *Config) { c.Upload.MaxSize = 0 }, "MAX_FILE_SIZE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_RejectsEqualSecrets(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "same-secret")
	t.Setenv("JWT_REFRESH_SECRET", "same-secret")

	_, err := Load(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestServerConfig_Prefix(t *testing.T) {
	assert.Equal(t, "/api/v1", (&ServerConfig{APIPrefix: "/api/v1/"}).Prefix())
	assert.Equal(t, "", (&ServerConfig{APIPrefix: "/"}).Prefix())
	assert.Equal(t, "0.0.0.0:3000", (&ServerConfig{Host: "0.0.0.0", Port: 3000}).Addr())
}
