package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_ADDRESS", "APP_ENV", "AI_PROVIDER", "GEMINI_API_KEY", "GEMINI_MODEL_ID", "GEMINI_BASE_URL",
		"OPENAI_API_KEY", "OPENAI_MODEL_ID", "OPENAI_BASE_URL", "API_KEY",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("SERVER_ADDRESS", ":9090")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "g-key", cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModelID)
}

func TestLoadConfigAPIKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "legacy-key")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.GeminiAPIKey)
	assert.Equal(t, ":8080", cfg.ServerAddress)
}

func TestLoadConfigMissingCredential(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig(t.TempDir())
	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "GEMINI_API_KEY", ce.Key)
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yaml := "AI_PROVIDER: OpenAI\nOPENAI_API_KEY: o-key\nOPENAI_BASE_URL: http://localhost:11434/v1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "o-key", cfg.OpenAIKey)
	assert.Equal(t, "http://localhost:11434/v1", cfg.OpenAIBaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModelID)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantKey string
	}{
		{"gemini ok", Config{Provider: ProviderGemini, GeminiAPIKey: "k", ServerAddress: ":1"}, ""},
		{"openai missing key", Config{Provider: ProviderOpenAI, GeminiAPIKey: "k"}, "OPENAI_API_KEY"},
		{"unknown provider", Config{Provider: "bard", GeminiAPIKey: "k"}, "AI_PROVIDER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantKey == "" {
				assert.NoError(t, err)
				return
			}
			var ce *ConfigurationError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.wantKey, ce.Key)
		})
	}
}
