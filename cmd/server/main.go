package main

import (
	"context"
	"fmt"
	"log"

	"github.com/platewise/nutrition-engine/config"
	httpDelivery "github.com/platewise/nutrition-engine/internal/delivery/http"
	"github.com/platewise/nutrition-engine/internal/domain"
	"github.com/platewise/nutrition-engine/internal/infrastructure/cache"
	"github.com/platewise/nutrition-engine/internal/infrastructure/openfoodfacts"
	"github.com/platewise/nutrition-engine/internal/infrastructure/store"
	"github.com/platewise/nutrition-engine/internal/infrastructure/usda"
	"github.com/platewise/nutrition-engine/internal/platform/logger"
	"github.com/platewise/nutrition-engine/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logg.Sync()

	logg.Info("starting nutrition engine",
		"environment", cfg.Server.Environment, "port", cfg.Server.Port, "database", cfg.Database.Driver)

	// Database and reference data
	db, err := store.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logg.Fatal("failed to open database", "error", err)
	}
	if err := store.Migrate(db); err != nil {
		logg.Fatal("failed to migrate database", "error", err)
	}

	ingredients := store.NewIngredientRepo(db)
	conversionRepo := store.NewConversionRepo(db)
	densityRepo := store.NewDensityRepo(db)
	overrideRepo := store.NewOverrideRepo(db)
	queueRepo := store.NewQueueRepo(db)
	jobRepo := store.NewJobRepo(db)

	if err := store.SeedReferenceData(context.Background(), conversionRepo, densityRepo); err != nil {
		logg.Fatal("failed to seed reference data", "error", err)
	}

	// External sources, in preference order
	usdaClient := usda.NewClient(cfg.USDA.APIKey, cfg.USDA.BaseURL, cfg.RateLimit.USDA, logg)
	offClient := openfoodfacts.NewClient(cfg.OpenFoodFacts.BaseURL, cfg.OpenFoodFacts.UserAgent,
		cfg.RateLimit.OpenFoodFacts, logg)
	adapters := []domain.SourceAdapter{usdaClient, offClient}

	// Usecase layer
	factorCache := cache.NewFactorCache()
	conversions := usecase.NewConversionService(conversionRepo, factorCache)
	densities := usecase.NewDensityService(densityRepo, conversions, factorCache)
	overrides := usecase.NewOverrideService(overrideRepo)
	calculator := usecase.NewCalculationEngine(ingredients, conversions, densities, overrides, logg)
	discovery := usecase.NewDiscoveryService(ingredients, queueRepo, cfg.Discovery.DefaultPriority, logg)
	runner := usecase.NewEtlRunner(queueRepo, jobRepo, ingredients, adapters, usecase.RunnerConfig{
		SearchLimit: cfg.Discovery.SearchLimit,
		ItemTimeout: cfg.Discovery.ItemTimeout,
	}, logg)

	// HTTP surface
	handler := httpDelivery.NewHandler(calculator, discovery, runner, cfg.Discovery.BatchSize, logg)
	router := httpDelivery.SetupRouter(cfg, handler, logg)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logg.Info("server listening", "addr", addr)
	if err := router.Run(addr); err != nil {
		logg.Fatal("server exited", "error", err)
	}
}
