package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("reports every missing required variable", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		t.Setenv("DATABASE_URL", "")
		t.Setenv("DB_DRIVER", "pgx")
		t.Setenv("DB_USER", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("DATABASE_URL", "postgres://u:p@localhost/site")
		t.Setenv("DB_DRIVER", "")
		t.Setenv("APP_PORT", "")
		t.Setenv("STORAGE_BUCKET", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "pgx", cfg.DBDriver)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "postgres://u:p@localhost/site", cfg.DatabaseURL)
		assert.Equal(t, 15, cfg.AccessTTLMin)
		assert.Equal(t, "uploads", cfg.Storage.Prefix)
		assert.False(t, cfg.Storage.Configured())
	})

	t.Run("mysql parts build a DSN", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("DATABASE_URL", "")
		t.Setenv("DB_DRIVER", "mysql")
		t.Setenv("DB_USER", "site")
		t.Setenv("DB_PASS", "pw")
		t.Setenv("DB_HOST", "db")
		t.Setenv("DB_PORT", "")
		t.Setenv("DB_NAME", "studio")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "site:pw@tcp(db:3306)/studio?charset=utf8mb4&parseTime=true&loc=UTC", cfg.DatabaseURL)
	})

	t.Run("postgres parts are escaped", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("DATABASE_URL", "")
		t.Setenv("DB_DRIVER", "pgx")
		t.Setenv("DB_USER", "site")
		t.Setenv("DB_PASS", "p@ss")
		t.Setenv("DB_HOST", "db")
		t.Setenv("DB_PORT", "6543")
		t.Setenv("DB_NAME", "studio")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "postgres://site:p%40ss@db:6543/studio?sslmode=disable", cfg.DatabaseURL)
	})

	t.Run("contact address falls back to the pitch address", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("DATABASE_URL", "postgres://localhost/site")
		t.Setenv("PITCH_EMAIL_TO", "pitches@example.com")
		t.Setenv("CONTACT_EMAIL_TO", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "pitches@example.com", cfg.Mail.ContactTo)
	})
}

func TestLoadDatabase_SQLite(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/site.db")

	driver, dsn, err := LoadDatabase()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", driver)
	assert.Equal(t, "/tmp/site.db", dsn)
}

func TestLoadRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "10s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	rl := LoadRateLimitConfig()
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 10*time.Second, rl.RefillInterval)
	assert.Equal(t, 50*time.Second, rl.TTL)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "")
	t.Setenv("CACHE_METHODS", "get, head")

	cc := LoadCacheConfig()
	assert.False(t, cc.Enabled)
	assert.True(t, cc.Methods["GET"])
	assert.True(t, cc.Methods["HEAD"])
	assert.Equal(t, 30*time.Second, cc.TTL)
}

func TestLoadRedisConfig(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_TLS", "1")

	rc := LoadRedisConfig()
	assert.Equal(t, "redis:6380", rc.Addr)
	assert.True(t, rc.TLS)
	assert.Nil(t, NewRedisClient(RedisConfig{}))
}
