package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pantrypilot/backend/internal/api"
	"github.com/pantrypilot/backend/internal/middleware"
	"github.com/pantrypilot/backend/internal/service"
)

// Options carries the collaborators the router wires together.
type Options struct {
	Auth        service.IAuthService
	Store       service.IStoreService
	LLM         service.ILLMService
	RateLimiter *middleware.RateLimiter
	Origins     []string
	Logger      *zap.Logger
}

// SetupRouter configures the application routes
func SetupRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(middleware.CORS(opts.Origins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := api.NewAuthHandler(opts.Auth, opts.Logger)
	pantryHandler := api.NewPantryHandler(opts.Store, opts.Logger)
	ingredientHandler := api.NewIngredientHandler(opts.Store, opts.Logger)
	chatHandler := api.NewChatHandler(opts.Store, opts.LLM, opts.Logger)
	historyHandler := api.NewHistoryHandler(opts.Store, opts.Logger)

	authHandler.RegisterRoutes(router.Group(""))

	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware(opts.Auth))
	{
		pantryHandler.RegisterRoutes(protected)
		ingredientHandler.RegisterRoutes(protected)
		historyHandler.RegisterRoutes(protected)

		// LLM endpoints are the only metered ones; the limiter guards them
		// when Redis is configured.
		chat := protected.Group("")
		if opts.RateLimiter != nil {
			chat.Use(opts.RateLimiter.RateLimitMiddleware())
		}
		chatHandler.RegisterRoutes(chat)
	}

	return router
}
