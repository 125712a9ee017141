package main

import (
	"fmt"
	"log"

	"github.com/feedlink/backend/config"
	httpDelivery "github.com/feedlink/backend/internal/delivery/http"
	"github.com/feedlink/backend/internal/infrastructure/baselinker"
	"github.com/feedlink/backend/internal/infrastructure/xmlfeed"
	"github.com/feedlink/backend/internal/logger"
	"github.com/feedlink/backend/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	sources := cfg.FeedSources()
	zl.Info("starting FeedLink backend",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.Int("feeds", len(sources)),
		zap.String("language", cfg.Parsing.PreferredLanguage),
	)

	// Initialize infrastructure dependencies
	feedClient := xmlfeed.NewClient(xmlfeed.ClientConfig{
		Timeout:      cfg.Fetch.Timeout,
		UserAgent:    cfg.Fetch.UserAgent,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
	}, zl)
	parser := xmlfeed.NewParser(cfg.Parsing.PreferredLanguage)

	blClient := baselinker.NewClient(baselinker.Config{
		Token:             cfg.BaseLinker.Token,
		BaseURL:           cfg.BaseLinker.BaseURL,
		RequestsPerMinute: cfg.BaseLinker.RequestsPerMinute,
		Timeout:           cfg.BaseLinker.Timeout,
	}, zl)
	if blClient.Configured() {
		zl.Info("BaseLinker API configured",
			zap.String("base_url", cfg.BaseLinker.BaseURL),
			zap.Int("inventory_id", cfg.BaseLinker.InventoryID),
		)
	} else {
		zl.Warn("BaseLinker API token not configured (set FEEDLINK_BASELINKER_TOKEN) - command execution will fail")
	}
	if cfg.Auth.Password == "" {
		zl.Warn("no access password configured - API is open")
	}

	// Initialize usecase layer
	feedService := usecase.NewFeedService(feedClient, parser, sources, zl)
	commandService := usecase.NewCommandService(
		usecase.NewCommandTranslator(cfg.BaseLinker.InventoryID),
		blClient,
		zl,
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(feedService, commandService, zl)
	router := httpDelivery.SetupRouter(cfg, handler, zl)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zl.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		zl.Fatal("failed to start server", zap.Error(err))
	}
}
