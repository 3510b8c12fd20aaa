package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "tindaph.db", cfg.SQLitePath)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, ImageStoreInline, cfg.ImageStore)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "sqlite")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDatabaseSkipsSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/cli.db")
	cfg, err := LoadDatabase()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cli.db", cfg.SQLitePath)

	t.Setenv("DB_DRIVER", "postgres")
	_, err = LoadDatabase()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"sqlite ok", Config{DBDriver: DriverSQLite, ImageStore: ImageStoreInline, JWTSecret: secret}, ""},
		{"mysql missing host", Config{DBDriver: DriverMySQL, DBUser: "u", DBName: "d", ImageStore: ImageStoreInline, JWTSecret: secret}, "DB_HOST"},
		{"mysql cloud sql", Config{DBDriver: DriverMySQL, DBUser: "u", DBName: "d", InstanceConnectionName: "p:r:i", ImageStore: ImageStoreInline, JWTSecret: secret}, ""},
		{"postgres needs url", Config{DBDriver: DriverPostgres, ImageStore: ImageStoreInline, JWTSecret: secret}, "DATABASE_URL"},
		{"unknown driver", Config{DBDriver: "oracle", ImageStore: ImageStoreInline, JWTSecret: secret}, "DB_DRIVER"},
		{"gcs needs bucket", Config{DBDriver: DriverSQLite, ImageStore: ImageStoreGCS, JWTSecret: secret}, "STORAGE_BUCKET"},
		{"gridfs needs uri", Config{DBDriver: DriverSQLite, ImageStore: ImageStoreGridFS, JWTSecret: secret}, "MONGO_URI"},
		{"short secret", Config{DBDriver: DriverSQLite, ImageStore: ImageStoreInline, JWTSecret: "short"}, "JWT_SECRET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
