package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds all configuration for the application.
// Mapstructure tags are used to map environment variables and config file keys.
type Config struct {
	// Server Configuration
	ServerAddress string `mapstructure:"SERVER_ADDRESS"` // e.g., ":8080"
	AppEnv        string `mapstructure:"APP_ENV"`        // "production" switches gin to release mode

	// AI Configuration
	Provider      string `mapstructure:"AI_PROVIDER"`     // "gemini" or "openai"
	GeminiAPIKey  string `mapstructure:"GEMINI_API_KEY"`  // falls back to API_KEY
	GeminiModelID string `mapstructure:"GEMINI_MODEL_ID"` // e.g., "gemini-2.5-flash"
	GeminiBaseURL string `mapstructure:"GEMINI_BASE_URL"` // optional proxy endpoint

	OpenAIKey     string `mapstructure:"OPENAI_API_KEY"`
	OpenAIModelID string `mapstructure:"OPENAI_MODEL_ID"` // e.g., "gpt-4o-mini"
	OpenAIBaseURL string `mapstructure:"OPENAI_BASE_URL"` // optional, any OpenAI-compatible endpoint
}

// ConfigurationError means the process cannot start with the given settings.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Key, e.Reason)
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)     // Path to look for the config file in
	v.SetConfigName("config") // Name of config file (without extension)
	v.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("AI_PROVIDER", ProviderGemini)
	v.SetDefault("GEMINI_MODEL_ID", "gemini-2.5-flash")
	v.SetDefault("OPENAI_MODEL_ID", "gpt-4o-mini")
	// Keys without a default must still be known to viper for
	// Unmarshal to pick them up from the environment.
	for _, key := range []string{"APP_ENV", "GEMINI_API_KEY", "GEMINI_BASE_URL", "OPENAI_API_KEY", "OPENAI_BASE_URL", "API_KEY"} {
		v.SetDefault(key, "")
	}

	v.AutomaticEnv() // Read environment variables that match keys

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file ('config.yaml') not found in specified path, relying solely on environment variables.")
		} else {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Printf("Using configuration file: %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = v.GetString("API_KEY")
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the selected provider has a credential. A missing
// credential is fatal: the backend client is never constructed without one.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return &ConfigurationError{Key: "GEMINI_API_KEY", Reason: "is not set (API_KEY is also accepted)"}
		}
	case ProviderOpenAI:
		if c.OpenAIKey == "" {
			return &ConfigurationError{Key: "OPENAI_API_KEY", Reason: "is not set"}
		}
	default:
		return &ConfigurationError{Key: "AI_PROVIDER", Reason: fmt.Sprintf("has unsupported value %q (expected %q or %q)", c.Provider, ProviderGemini, ProviderOpenAI)}
	}
	if c.ServerAddress == "" {
		log.Println("WARN: SERVER_ADDRESS is empty, the server will listen on :http.")
	}
	return nil
}
