package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the engine and its HTTP surface
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	USDA          USDAConfig
	OpenFoodFacts OpenFoodFactsConfig
	Discovery     DiscoveryConfig
	RateLimit     RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds relational store configuration
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite" or "postgres"
	DSN    string `mapstructure:"dsn"`
}

// USDAConfig holds USDA FoodData Central API configuration
type USDAConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// OpenFoodFactsConfig holds Open Food Facts API configuration
type OpenFoodFactsConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
}

// DiscoveryConfig holds ingestion pipeline configuration
type DiscoveryConfig struct {
	DefaultPriority int           `mapstructure:"default_priority"`
	BatchSize       int           `mapstructure:"batch_size"`
	SearchLimit     int           `mapstructure:"search_limit"`
	ItemTimeout     time.Duration `mapstructure:"item_timeout"`
}

// RateLimitConfig holds external API rate limiting configuration
type RateLimitConfig struct {
	USDA          int `mapstructure:"usda"`            // requests per hour
	OpenFoodFacts int `mapstructure:"open_food_facts"` // requests per minute
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/platewise/")

	v.SetEnvPrefix("PLATEWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "platewise.db")

	v.SetDefault("usda.base_url", "https://api.nal.usda.gov/fdc")

	v.SetDefault("openfoodfacts.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("openfoodfacts.user_agent", "Platewise/1.0 (nutrition-engine)")

	v.SetDefault("discovery.default_priority", 5)
	v.SetDefault("discovery.batch_size", 50)
	v.SetDefault("discovery.search_limit", 5)
	v.SetDefault("discovery.item_timeout", "45s")

	v.SetDefault("ratelimit.usda", 1000)
	v.SetDefault("ratelimit.open_food_facts", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.USDA.APIKey == "" {
		return fmt.Errorf("USDA API key is required (set PLATEWISE_USDA_API_KEY)")
	}

	if config.Database.Driver != "sqlite" && config.Database.Driver != "postgres" {
		return fmt.Errorf("database driver must be 'sqlite' or 'postgres', got: %s", config.Database.Driver)
	}

	if config.Database.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}

	if config.Discovery.BatchSize <= 0 {
		return fmt.Errorf("discovery batch size must be positive, got: %d", config.Discovery.BatchSize)
	}

	if config.Discovery.SearchLimit <= 0 {
		return fmt.Errorf("discovery search limit must be positive, got: %d", config.Discovery.SearchLimit)
	}

	return nil
}
