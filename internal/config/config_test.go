// ABOUTME: Tests for configuration loading and validation
// ABOUTME: Covers YAML parsing, env var expansion, defaults, and the env-only fallback

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret-that-is-32-b"

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fashiond.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoad_Full(t *testing.T) {
	path := writeConfigFile(t, `
server:
  addr: ":8080"
database:
  uri: "mongodb://localhost:27017"
  name: "testdb"
auth:
  jwt_secret: "`+testSecret+`"
payments:
  stripe_secret_key: "sk_test_123"
logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	assert.Equal(t, "testdb", cfg.Database.Name)
	assert.Equal(t, testSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, "sk_test_123", cfg.Payments.StripeSecretKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_FASHION_SECRET", testSecret)
	t.Setenv("TEST_FASHION_URI", "mongodb://db.example:27017")

	path := writeConfigFile(t, `
database:
  uri: "${TEST_FASHION_URI}"
auth:
  jwt_secret: "${TEST_FASHION_SECRET}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mongodb://db.example:27017", cfg.Database.URI)
	assert.Equal(t, testSecret, cfg.Auth.JWTSecret)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfigFile(t, `
database:
  uri: "mongodb://localhost:27017"
auth:
  jwt_secret: "`+testSecret+`"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, "sarkerDB", cfg.Database.Name)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_MissingURI(t *testing.T) {
	path := writeConfigFile(t, `
auth:
  jwt_secret: "`+testSecret+`"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "database.uri"))
}

func TestLoad_ShortSecret(t *testing.T) {
	path := writeConfigFile(t, `
database:
  uri: "mongodb://localhost:27017"
auth:
  jwt_secret: "too-short"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "jwt_secret"))
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MONGODB_URI", "mongodb://env.example:27017")
	t.Setenv("DB_NAME", "envdb")
	t.Setenv("ACCESS_TOKEN_SECRET", testSecret)
	t.Setenv("PAYMENT_SECRET_KEY", "sk_test_env")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "mongodb://env.example:27017", cfg.Database.URI)
	assert.Equal(t, "envdb", cfg.Database.Name)
	assert.Equal(t, testSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, "sk_test_env", cfg.Payments.StripeSecretKey)
}

func TestFromEnv_MissingSecret(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://env.example:27017")
	t.Setenv("ACCESS_TOKEN_SECRET", "")

	_, err := FromEnv()
	require.Error(t, err)
}
