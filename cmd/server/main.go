package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/api"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/config"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/database"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/quotes"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/quotes/yahoo"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/repository"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection and run migrations
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	referenceRepo := repository.NewReferencePriceRepository(db)

	// Load the resolver's reference tier from the database
	referenceTable := quotes.NewReferenceTable()
	referencePrices, err := referenceRepo.GetAll()
	if err != nil {
		log.Fatalf("Failed to load reference prices: %v", err)
	}
	for _, rp := range referencePrices {
		referenceTable.Add(rp.Symbol, rp.Date, rp.Price)
	}
	log.Printf("Loaded %d reference prices", len(referencePrices))

	// Build the market-data core
	provider := yahoo.NewClient(
		yahoo.WithBaseURL(cfg.MarketData.ProviderBaseURL),
		yahoo.WithTimeout(cfg.MarketData.ProviderTimeout),
		yahoo.WithRateLimit(cfg.MarketData.RequestsPerSecond),
	)
	quoteService := quotes.NewService(provider, referenceTable, quotes.ServiceConfig{
		PriceTTL:        cfg.MarketData.PriceTTL,
		HistoricalTTL:   cfg.MarketData.HistoricalTTL,
		DividendTTL:     cfg.MarketData.DividendTTL,
		BatchGroupSize:  cfg.MarketData.BatchGroupSize,
		GroupsPerMinute: cfg.MarketData.GroupsPerMinute,
	})

	// Create services
	portfolioService := service.NewPortfolioService(portfolioRepo)
	valuationService := service.NewValuationService(quoteService, service.TierLadder{
		S: cfg.Leaderboard.TierSThreshold,
		A: cfg.Leaderboard.TierAThreshold,
		B: cfg.Leaderboard.TierBThreshold,
	})
	leaderboardService := service.NewLeaderboardService(
		portfolioRepo,
		valuationService,
		quoteService,
		cfg.Leaderboard.PageCacheTTL,
	)

	// Periodic jobs: cache sweep and leaderboard warm. The scheduler is
	// stopped on shutdown so no timer outlives the process.
	scheduler := cron.New()
	sweepSpec := fmt.Sprintf("@every %s", cfg.MarketData.SweepInterval)
	if _, err := scheduler.AddFunc(sweepSpec, func() {
		if removed := quoteService.SweepExpired(); removed > 0 {
			log.Printf("Cache sweep removed %d expired entries", removed)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule cache sweep: %v", err)
	}
	warmSpec := fmt.Sprintf("@every %s", cfg.Leaderboard.WarmInterval)
	if _, err := scheduler.AddFunc(warmSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		leaderboardService.WarmCache(ctx)
	}); err != nil {
		log.Fatalf("Failed to schedule leaderboard warm: %v", err)
	}
	scheduler.Start()

	// Create router
	router := api.NewRouter(db, quoteService, portfolioService, valuationService, leaderboardService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Stop periodic jobs and wait for any running job to finish
	<-scheduler.Stop().Done()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
