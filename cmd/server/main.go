package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pricescout/backend/config"
	httpDelivery "github.com/pricescout/backend/internal/delivery/http"
	"github.com/pricescout/backend/internal/domain"
	"github.com/pricescout/backend/internal/infrastructure/cache"
	"github.com/pricescout/backend/internal/infrastructure/serper"
	"github.com/pricescout/backend/internal/infrastructure/variants"
	"github.com/pricescout/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting PriceScout Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	defer memoryCache.Close()

	searchClient := serper.NewClient(serper.Options{
		APIKey:        cfg.Serper.APIKey,
		BaseURL:       cfg.Serper.BaseURL,
		NumResults:    cfg.Serper.NumResults,
		Timeout:       cfg.Serper.Timeout,
		RatePerSecond: cfg.Serper.RatePerSecond,
		Burst:         cfg.Serper.Burst,
	})

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		searchClient.SetDebug(true)
		log.Printf("Search client debug mode enabled")
	}

	if cfg.Serper.APIKey != "" {
		log.Printf("Search API configured: %s", cfg.Serper.BaseURL)
	} else {
		log.Printf("WARNING: Search API configured: %s (key: NOT CONFIGURED - comparisons will fail, other pipelines return empty results)", cfg.Serper.BaseURL)
	}

	variantExtractor := variants.NewCachedExtractor(newVariantExtractor(cfg.Variants), memoryCache, cfg.Variants.CacheTTL)
	log.Printf("Variants: mode=%s, cache ttl=%s", cfg.Variants.Mode, cfg.Variants.CacheTTL)

	// Initialize usecase layer
	priceService := usecase.NewPriceService(
		searchClient,
		variantExtractor,
		usecase.PriceServiceConfig{
			AnomalyThreshold:   cfg.Pipeline.AnomalyThreshold,
			ArbitrageThreshold: cfg.Pipeline.ArbitrageThreshold,
			MaxConcurrency:     cfg.Pipeline.MaxConcurrency,
		},
	)

	log.Printf("Pipelines: anomaly threshold=%.0f%%, arbitrage threshold=₹%.2f, concurrency=%d",
		cfg.Pipeline.AnomalyThreshold*100,
		cfg.Pipeline.ArbitrageThreshold,
		cfg.Pipeline.MaxConcurrency)

	if cfg.Auth.Enabled() {
		log.Printf("Basic auth enabled for /api/v1")
	}

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(priceService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newVariantExtractor picks the extractor named by variants.mode
func newVariantExtractor(cfg config.VariantsConfig) domain.VariantExtractor {
	if cfg.Mode == "ollama" {
		return variants.NewOllamaExtractor(cfg.OllamaURL, cfg.Model, 0)
	}
	return variants.NewRuleExtractor()
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
