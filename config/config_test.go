package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ordering-api/cart"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "memory", cfg.SessionBackend)
	assert.Equal(t, cart.PolicyMultiRestaurant, cfg.Policy())
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yaml")
	yml := "port: \"9000\"\ncart_policy: single\ncart_ttl: 2h\nsession_backend: redis\nredis_db: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, cart.PolicySingleRestaurant, cfg.Policy())
	assert.Equal(t, 2*time.Hour, cfg.CartTTL)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, "redis", cfg.SessionBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LOG_LEVEL") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"CART_POLICY":     "both",
		"DB_DRIVER":       "oracle",
		"SESSION_BACKEND": "cookie",
		"JWT_TTL":         "forever",
		"REDIS_DB":        "zero",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestOpenDBMigrates(t *testing.T) {
	cfg := defaults()
	cfg.DBSource = "file:config_test?mode=memory&cache=shared"

	db, err := OpenDB(cfg)
	require.NoError(t, err)
	for _, table := range []string{"users", "restaurants", "menu_items", "orders", "order_items", "comments"} {
		assert.Truef(t, db.Migrator().HasTable(table), "table %s", table)
	}
}
