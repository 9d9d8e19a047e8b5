// Package config provides configuration loading and management for coursellm.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Environment string       `json:"environment" mapstructure:"environment"`
	LLM         LLMConfig    `json:"llm"         mapstructure:"llm"`
	Store       StoreConfig  `json:"store"       mapstructure:"store"`
	Server      ServerConfig `json:"server"      mapstructure:"server"`
	Log         LogConfig    `json:"log"         mapstructure:"log"`
}

// LLMConfig selects and configures the model provider.
type LLMConfig struct {
	Provider       string  `json:"provider"           mapstructure:"provider"`
	Model          string  `json:"model"              mapstructure:"model"`
	APIKey         string  `json:"api_key,omitempty"  mapstructure:"api_key"`
	BaseURL        string  `json:"base_url,omitempty" mapstructure:"base_url"`
	Temperature    float64 `json:"temperature"        mapstructure:"temperature"`
	TimeoutSeconds int     `json:"timeout_seconds"    mapstructure:"timeout_seconds"`
}

// Timeout returns the per-call timeout.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Driver    string `json:"driver"               mapstructure:"driver"`
	Path      string `json:"path,omitempty"       mapstructure:"path"`
	ProjectID string `json:"project_id,omitempty" mapstructure:"project_id"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `json:"addr"            mapstructure:"addr"`
	AllowedOrigins []string `json:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Format string `json:"format" mapstructure:"format"`
}

// Store drivers.
const (
	DriverSQLite    = "sqlite"
	DriverFirestore = "firestore"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// EnvProduction is the environment name that switches logging to JSON.
const EnvProduction = "production"
