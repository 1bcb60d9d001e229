package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/api/handlers"
	custommiddleware "github.com/somesh-13/leaderBoardProject-sub001/internal/api/middleware"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/config"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/quotes"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	db *sql.DB,
	quoteService *quotes.Service,
	portfolioService *service.PortfolioService,
	valuationService *service.ValuationService,
	leaderboardService *service.LeaderboardService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(custommiddleware.NewCORS(cfg.CORS.AllowedOrigins))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(db, quoteService)
			r.Get("/health", systemHandler.Health)
		})

		r.Route("/prices", func(r chi.Router) {
			pricesHandler := handlers.NewPricesHandler(quoteService)
			r.Get("/", pricesHandler.Prices)
			r.Get("/{symbol}", pricesHandler.Price)
			r.Get("/{symbol}/dividends", pricesHandler.Dividends)
		})

		r.Route("/leaderboard", func(r chi.Router) {
			leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
			r.Get("/", leaderboardHandler.Leaderboard)
		})

		r.Route("/users", func(r chi.Router) {
			userHandler := handlers.NewUserHandler(portfolioService)
			r.Get("/", userHandler.Users)
			r.Post("/", userHandler.CreateUser)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(portfolioService, valuationService)
			r.Post("/", portfolioHandler.CreatePortfolio)
			r.Get("/{portfolioId}", portfolioHandler.Portfolio)
			r.Get("/{portfolioId}/valuation", portfolioHandler.Valuation)
			r.Post("/{portfolioId}/buy", portfolioHandler.Buy)
			r.Post("/{portfolioId}/sell", portfolioHandler.Sell)
		})
	})

	return r
}
