package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets a variable for the test and restores it afterward, so a
// developer's real environment never leaks into assertions.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if v, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, v) })
			require.NoError(t, os.Unsetenv(key))
		}
	}
}

func writeDotEnv(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))
	t.Chdir(dir)
}

func TestLoad_ReadsDotEnvFile(t *testing.T) {
	clearEnv(t, "LLM_MODEL", "LLM_BASE_URL", "LLM_API_KEY")
	writeDotEnv(t, "LLM_MODEL=mistral:latest\nLLM_BASE_URL=http://localhost:11434\n")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mistral:latest", cfg.LLM.Model)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.BaseURL)
}

func TestLoad_EnvironmentWinsOverDotEnv(t *testing.T) {
	clearEnv(t, "LLM_BASE_URL", "LLM_API_KEY")
	writeDotEnv(t, "LLM_MODEL=file-model\nLLM_BASE_URL=http://localhost:11434\n")
	t.Setenv("LLM_MODEL", "env-model")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env-model", cfg.LLM.Model)
}

func TestLoad_RequiredValues(t *testing.T) {
	t.Run("model is required", func(t *testing.T) {
		clearEnv(t, "LLM_MODEL", "LLM_BASE_URL", "LLM_API_KEY")
		t.Chdir(t.TempDir())

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LLM_MODEL")
	})

	t.Run("key or base URL is required", func(t *testing.T) {
		clearEnv(t, "LLM_BASE_URL", "LLM_API_KEY")
		t.Chdir(t.TempDir())
		t.Setenv("LLM_MODEL", "mistral:latest")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LLM_API_KEY")
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "reader",
		Password: "secret",
		Database: "warehouses",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=reader password=secret dbname=warehouses sslmode=require",
		cfg.DSN())
}
