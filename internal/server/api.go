package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/desertthunder/gamelists/internal/shared"
)

// NewAPI assembles the middleware stack and every endpoint of the game list API.
func NewAPI(cfg shared.ServerConfig, games GameFinder, lists ListService, logger *log.Logger) http.Handler {
	router := NewChiRouter()

	router.Use(
		middleware.RealIP,
		RequestID(),
		RequestLogger(logger),
		middleware.Recoverer,
	)
	if len(cfg.CORSOrigins) > 0 {
		router.Use(CORS(cfg.CORSOrigins))
	}
	if cfg.RateLimit > 0 {
		burst := max(cfg.RateBurst, 1)
		router.Use(RateLimit(NewKeyedRateLimiter(cfg.RateLimit, burst), logger))
	}

	router.Handle(http.MethodGet, "/health", http.HandlerFunc(health))
	router.Handler(NewGameHandler(games, logger))
	router.Handler(NewListHandler(lists, NewValidator(), logger))

	return router
}
