package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pantrypilot/backend/config"
	"github.com/pantrypilot/backend/internal/middleware"
	"github.com/pantrypilot/backend/internal/router"
	"github.com/pantrypilot/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	engine *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New wires the services and builds the server. The services are stateless;
// every request is an independent round trip to the hosted platforms.
func New(cfg *config.Config, logger *zap.Logger) *Server {
	authService := service.NewAuthService(cfg, logger)
	storeService := service.NewStoreService(cfg, logger)
	llmService := service.NewLLMService(cfg, logger)

	var limiter *middleware.RateLimiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		limiter = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     20,
			KeyPrefix: "ratelimit:chat",
		})
	}

	engine := router.SetupRouter(router.Options{
		Auth:        authService,
		Store:       storeService,
		LLM:         llmService,
		RateLimiter: limiter,
		Origins:     cfg.CORSOrigins(),
		Logger:      logger,
	})

	return &Server{
		engine: engine,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: engine,
		},
		logger: logger,
	}
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
