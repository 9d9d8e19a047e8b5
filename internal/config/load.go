package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DefaultPath is the config file looked up when --config is not given.
var DefaultPath = filepath.Join(".coursellm", "config.json")

// DotEnvFiles are loaded in order; variables already set are never overridden.
var DotEnvFiles = []string{".env.local", ".env"}

// ConfigurationError reports a missing or invalid setting.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Key == "" {
		return "configuration: " + e.Reason
	}
	return fmt.Sprintf("configuration: %s: %s", e.Key, e.Reason)
}

// IsConfigurationError reports whether err is or wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var cErr *ConfigurationError
	return errors.As(err, &cErr)
}

var envBindings = map[string][]string{
	"environment":            {"ENVIRONMENT"},
	"llm.provider":           {"LLM_PROVIDER"},
	"llm.model":              {"GEMINI_MODEL_NAME"},
	"llm.temperature":        {"GEMINI_TEMPERATURE"},
	"llm.api_key":            {"GOOGLE_GENAI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY"},
	"llm.base_url":           {"LLM_BASE_URL"},
	"llm.timeout_seconds":    {"LLM_TIMEOUT_SECONDS"},
	"store.driver":           {"STORE_DRIVER"},
	"store.path":             {"STORE_PATH"},
	"store.project_id":       {"FIREBASE_PROJECT_ID"},
	"server.addr":            {"SERVER_ADDR"},
	"server.allowed_origins": {"ALLOWED_ORIGINS"},
	"log.format":             {"LOG_FORMAT"},
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("llm.provider", "google")
	v.SetDefault("llm.model", "gemini-2.0-flash-exp")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.timeout_seconds", 60)
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.path", filepath.Join(".coursellm", "coursellm.db"))
	v.SetDefault("server.addr", ":8001")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:9002", "http://localhost:3000"})
}

// LoadDotEnv loads files into the process environment. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", file, err)
		}
		log.Debug().Str("file", file).Msg("loaded env file")
	}
	return nil
}

// Load reads defaults, the optional JSON config file at path and environment
// variables, in increasing precedence. A missing file is only an error when
// required is set.
func Load(v *viper.Viper, path string, required bool) (Config, error) {
	SetDefaults(v)
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return Config{}, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		} else if required || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.Log.Format == "" {
		cfg.Log.Format = FormatConsole
		if cfg.Environment == EnvProduction {
			cfg.Log.Format = FormatJSON
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
