package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pairwire/pairwire-server/internal/auth"
	"github.com/pairwire/pairwire-server/internal/config"
	"github.com/pairwire/pairwire-server/internal/core"
	"github.com/pairwire/pairwire-server/internal/discovery"
	"github.com/pairwire/pairwire-server/internal/store"
)

// NewServer builds the HTTP server: REST API plus the WebSocket endpoint.
func NewServer(hub *core.Hub, authService *auth.Service, disco *discovery.Service, st store.Store, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, authService, logger)))

	authHandlers := NewAuthHandlers(authService, logger)
	api := router.Group("/api")
	api.POST("/auth/register", authHandlers.Register)
	api.POST("/auth/login", authHandlers.Login)
	api.POST("/auth/guest", authHandlers.Guest)

	discoveryHandlers := NewDiscoveryHandlers(disco, st, logger)
	protected := api.Group("")
	protected.Use(AuthMiddleware(authService, logger))
	protected.PUT("/profile/interests", discoveryHandlers.UpdateInterests)
	protected.GET("/matches", discoveryHandlers.FindMatches)
	protected.GET("/matches/random", discoveryHandlers.RandomPick)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
