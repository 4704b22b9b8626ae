package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	CORS   CORSConfig
	Data   DataConfig
	Report ReportConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// DataConfig holds reference-data intake configuration.
type DataConfig struct {
	// Dir is the directory containing the reference GeoJSON files.
	Dir string
	// DefaultCapacity is the district capacity, in acres, used when no
	// region zone exists for a district.
	DefaultCapacity float64
}

// ReportConfig holds compliance-report generation configuration.
// An empty APIKey disables report generation entirely.
type ReportConfig struct {
	OpenAIAPIKey    string
	Model           string
	TimeoutSeconds  int
	MaxTokens       int
	CacheTTLMinutes int
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("DEFAULT_DISTRICT_CAPACITY", 500.0)
	v.SetDefault("OPENAI_MODEL", "")
	v.SetDefault("REPORT_TIMEOUT_SECONDS", 30)
	v.SetDefault("REPORT_MAX_TOKENS", 1000)
	v.SetDefault("REPORT_CACHE_TTL_MINUTES", 15)

	// Bind environment variables
	v.AutomaticEnv()

	// Build configuration
	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
		Data: DataConfig{
			Dir:             v.GetString("DATA_DIR"),
			DefaultCapacity: v.GetFloat64("DEFAULT_DISTRICT_CAPACITY"),
		},
		Report: ReportConfig{
			OpenAIAPIKey:    v.GetString("OPENAI_API_KEY"),
			Model:           v.GetString("OPENAI_MODEL"),
			TimeoutSeconds:  v.GetInt("REPORT_TIMEOUT_SECONDS"),
			MaxTokens:       v.GetInt("REPORT_MAX_TOKENS"),
			CacheTTLMinutes: v.GetInt("REPORT_CACHE_TTL_MINUTES"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	if c.Data.Dir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.Data.DefaultCapacity <= 0 {
		return fmt.Errorf("DEFAULT_DISTRICT_CAPACITY must be positive")
	}

	if c.Report.TimeoutSeconds <= 0 {
		return fmt.Errorf("REPORT_TIMEOUT_SECONDS must be positive")
	}
	if c.Report.MaxTokens <= 0 {
		return fmt.Errorf("REPORT_MAX_TOKENS must be positive")
	}
	if c.Report.CacheTTLMinutes <= 0 {
		return fmt.Errorf("REPORT_CACHE_TTL_MINUTES must be positive")
	}

	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
