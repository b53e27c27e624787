package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("PLATEWISE_SERVER_PORT")
		os.Unsetenv("PLATEWISE_SERVER_ENVIRONMENT")
		os.Unsetenv("PLATEWISE_DATABASE_DRIVER")
		os.Unsetenv("PLATEWISE_DATABASE_DSN")
		os.Unsetenv("PLATEWISE_USDA_API_KEY")
		os.Unsetenv("PLATEWISE_USDA_BASE_URL")
		os.Unsetenv("PLATEWISE_OPENFOODFACTS_BASE_URL")
		os.Unsetenv("PLATEWISE_DISCOVERY_BATCH_SIZE")
		os.Unsetenv("PLATEWISE_DISCOVERY_SEARCH_LIMIT")
		os.Unsetenv("PLATEWISE_DISCOVERY_ITEM_TIMEOUT")
		os.Unsetenv("PLATEWISE_RATELIMIT_USDA")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PLATEWISE_USDA_API_KEY", "test-key")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Database.Driver != "sqlite" {
			t.Errorf("Database.Driver = %s, want sqlite", cfg.Database.Driver)
		}
		if cfg.USDA.BaseURL != "https://api.nal.usda.gov/fdc" {
			t.Errorf("USDA.BaseURL = %s, want https://api.nal.usda.gov/fdc", cfg.USDA.BaseURL)
		}
		if cfg.OpenFoodFacts.BaseURL != "https://world.openfoodfacts.org" {
			t.Errorf("OpenFoodFacts.BaseURL = %s, want https://world.openfoodfacts.org", cfg.OpenFoodFacts.BaseURL)
		}
		if cfg.Discovery.DefaultPriority != 5 {
			t.Errorf("Discovery.DefaultPriority = %d, want 5", cfg.Discovery.DefaultPriority)
		}
		if cfg.Discovery.BatchSize != 50 {
			t.Errorf("Discovery.BatchSize = %d, want 50", cfg.Discovery.BatchSize)
		}
		if cfg.Discovery.SearchLimit != 5 {
			t.Errorf("Discovery.SearchLimit = %d, want 5", cfg.Discovery.SearchLimit)
		}
		if cfg.Discovery.ItemTimeout != 45*time.Second {
			t.Errorf("Discovery.ItemTimeout = %v, want 45s", cfg.Discovery.ItemTimeout)
		}
		if cfg.RateLimit.USDA != 1000 {
			t.Errorf("RateLimit.USDA = %d, want 1000", cfg.RateLimit.USDA)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PLATEWISE_SERVER_PORT", "9090")
		os.Setenv("PLATEWISE_SERVER_ENVIRONMENT", "production")
		os.Setenv("PLATEWISE_USDA_API_KEY", "custom-api-key")
		os.Setenv("PLATEWISE_USDA_BASE_URL", "https://custom.api.com")
		os.Setenv("PLATEWISE_DATABASE_DRIVER", "postgres")
		os.Setenv("PLATEWISE_DATABASE_DSN", "postgres://localhost:5432/platewise")
		os.Setenv("PLATEWISE_DISCOVERY_BATCH_SIZE", "25")
		os.Setenv("PLATEWISE_DISCOVERY_ITEM_TIMEOUT", "10s")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.USDA.APIKey != "custom-api-key" {
			t.Errorf("USDA.APIKey = %s, want custom-api-key", cfg.USDA.APIKey)
		}
		if cfg.Database.Driver != "postgres" {
			t.Errorf("Database.Driver = %s, want postgres", cfg.Database.Driver)
		}
		if cfg.Database.DSN != "postgres://localhost:5432/platewise" {
			t.Errorf("Database.DSN = %s, want postgres DSN", cfg.Database.DSN)
		}
		if cfg.Discovery.BatchSize != 25 {
			t.Errorf("Discovery.BatchSize = %d, want 25", cfg.Discovery.BatchSize)
		}
		if cfg.Discovery.ItemTimeout != 10*time.Second {
			t.Errorf("Discovery.ItemTimeout = %v, want 10s", cfg.Discovery.ItemTimeout)
		}
	})

	t.Run("fails without USDA API key", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Fatal("Load() expected error for missing API key, got nil")
		}
	})

	t.Run("fails with unknown database driver", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("PLATEWISE_USDA_API_KEY", "test-key")
		os.Setenv("PLATEWISE_DATABASE_DRIVER", "oracle")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Fatal("Load() expected error for unknown driver, got nil")
		}
	})
}
