package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://dine@localhost/dine")
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, 5*time.Minute, cfg.ReportCacheTTL)
	assert.Equal(t, 15*time.Minute, cfg.LowStockInterval)
	assert.Equal(t, "receipts", cfg.ReceiptsBucket)
	assert.True(t, cfg.AutoMigrate)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", testSecret)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestLoad_UnsetDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	require.NoError(t, os.Unsetenv("DATABASE_URL"))
	t.Setenv("JWT_SECRET", testSecret)

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoad_RequiresAVerifier(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://dine@localhost/dine")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWKS_URL", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET or JWKS_URL")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"short secret", Config{JWTSecret: "short", DBMaxConns: 5}, "at least 32 bytes"},
		{"pool bounds", Config{JWTSecret: testSecret, DBMinConns: 8, DBMaxConns: 4}, "cannot exceed"},
		{"minio creds", Config{JWKSURL: "https://idp/jwks", DBMaxConns: 4, MinioEndpoint: "minio:9000"}, "MINIO_ACCESS_KEY"},
		{"jwks only", Config{JWKSURL: "https://idp/jwks", DBMaxConns: 4}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParseEnv_BadDuration(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://dine@localhost/dine")
	t.Setenv("REPORT_CACHE_TTL", "soon")

	var cfg Config
	err := ParseEnv(&cfg)
	assert.ErrorContains(t, err, "parse env:")
}
