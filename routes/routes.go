// Package routes assembles the HTTP surface: middleware chain, handlers and
// the mapping from service errors to status codes.
package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"medmind-server/config"
	"medmind-server/metrics"
	"medmind-server/middleware"
	"medmind-server/repository"
	"medmind-server/services"
	ws "medmind-server/websocket"
)

// Dependencies is everything the router needs. Hub, Assistant and Metrics
// are optional.
type Dependencies struct {
	Config    *config.Config
	Logger    *slog.Logger
	Auth      *services.AuthService
	Feedback  *services.FeedbackService
	Assistant *services.AssistantService
	Store     repository.Pinger
	Hub       *ws.Hub
	Metrics   *metrics.Metrics
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	// ClientIP falls back to the socket address unless the hop is trusted
	if err := router.SetTrustedProxies(deps.Config.Server.TrustedProxies); err != nil {
		deps.Logger.Error("invalid trusted proxies, trusting none", "error", err)
		router.SetTrustedProxies(nil)
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.Logger(deps.Logger))
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
	}
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(deps.Config.CORS.AllowedOrigins))
	router.Use(middleware.InputValidationMiddleware(middleware.MaxBodyBytes))

	r := responder{production: deps.Config.IsProduction(), logger: deps.Logger}

	router.GET("/", healthCheck(deps.Store, deps.Config.Server.Version))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := router.Group("/api")
	{
		RegisterAuthRoutes(api, deps.Auth, r)
		RegisterFeedbackRoutes(api, deps.Feedback, deps.Auth, deps.Hub, deps.Config.CORS.AllowedOrigins, r)
		if deps.Assistant != nil {
			RegisterAssistantRoutes(api, deps.Assistant, deps.Auth, r)
		}
	}

	router.NoRoute(notFound)
	return router
}
