package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("ENABLE_SWAGGER", "false")
	t.Setenv("APP_ENV", "Staging")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.EnableSwagger)
	assert.Equal(t, EnvStaging, cfg.Env)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "APP_ENV", "CORS_ALLOWED_ORIGINS", "LOG_FORMAT", "MAX_REQUEST_SIZE"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "3737", cfg.Port)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 262144, cfg.MaxRequestSize)
}

func TestValidate(t *testing.T) {
	valid := func() *AppConfig {
		return &AppConfig{
			Env:      EnvDevelopment,
			Port:     "3737",
			Database: DatabaseConfig{MaxOpenConns: 10, MaxIdleConns: 5},
			CORS:     CORSConfig{AllowedOrigins: []string{"*"}},
		}
	}

	t.Run("valid development config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("wildcard cors in production", func(t *testing.T) {
		c := valid()
		c.Env = EnvProduction
		assert.Error(t, c.Validate())

		c.CORS.AllowedOrigins = []string{"https://memo.example"}
		assert.NoError(t, c.Validate())
	})

	t.Run("zero port", func(t *testing.T) {
		c := valid()
		c.Port = "0"
		assert.Error(t, c.Validate())
	})

	t.Run("no connections", func(t *testing.T) {
		c := valid()
		c.Database.MaxOpenConns = 0
		assert.Error(t, c.Validate())
	})

	t.Run("no idle connections", func(t *testing.T) {
		c := valid()
		c.Database.MaxIdleConns = 0
		assert.Error(t, c.Validate())

		c.Database.MaxIdleConns = -1
		assert.Error(t, c.Validate())
	})
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvList(t *testing.T) {
	key := "TEST_LIST_VAR"

	t.Setenv(key, " , ")
	assert.Equal(t, []string{"x"}, getEnvList(key, []string{"x"}))

	t.Setenv(key, "a,b")
	assert.Equal(t, []string{"a", "b"}, getEnvList(key, nil))
}
