package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnvForTest(t *testing.T, key, value string) {
	t.Helper()

	original, had := os.LookupEnv(key)
	require.NoError(t, os.Setenv(key, value))
	t.Cleanup(func() {
		if had {
			os.Setenv(key, original)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestLoad(t *testing.T) {
	setEnvForTest(t, "MONGO_URI", "mongodb://localhost:27017")
	setEnvForTest(t, "JWT_SECRET", "load-test-secret")
	setEnvForTest(t, "JWT_EXPIRES_IN_HOURS", "12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "load-test-secret", cfg.JWTSecret)
	assert.Equal(t, 12, cfg.JWTExpiresInHours)
	assert.Equal(t, "skillhub", cfg.MongoDatabase, "Database name defaults")
	assert.Equal(t, "8080", cfg.Port, "Port defaults")
	assert.Same(t, cfg, GetConfig(), "Load stores the instance")
}

func TestValidate(t *testing.T) {
	cfg := &Config{MongoURI: "mongodb://localhost:27017", JWTSecret: "s"}
	assert.NoError(t, cfg.Validate())

	assert.Error(t, (&Config{JWTSecret: "s"}).Validate())
	assert.Error(t, (&Config{MongoURI: "mongodb://localhost:27017"}).Validate())
}

func TestGetEnvInt(t *testing.T) {
	setEnvForTest(t, "TEST_INT_VALUE", "42")
	assert.Equal(t, 42, getEnvInt("TEST_INT_VALUE", 7))

	setEnvForTest(t, "TEST_INT_VALUE", "not-a-number")
	assert.Equal(t, 7, getEnvInt("TEST_INT_VALUE", 7), "Malformed values fall back to the default")

	assert.Equal(t, 7, getEnvInt("TEST_INT_UNSET", 7))
}

func TestEnvironmentHelpers(t *testing.T) {
	assert.True(t, (&Config{GoEnv: "production"}).IsProduction())
	assert.True(t, (&Config{GoEnv: "test"}).IsTest())
	assert.True(t, (&Config{GoEnv: "development"}).IsDevelopment())
	assert.False(t, (&Config{GoEnv: "development"}).IsProduction())
}
