package http

import (
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/beaconchat/beacon-server/internal/auth"
	"github.com/beaconchat/beacon-server/internal/config"
	"github.com/beaconchat/beacon-server/internal/core"
	"github.com/beaconchat/beacon-server/internal/store"
)

// NewServer builds the HTTP server: auth and messaging REST endpoints, the
// WebSocket endpoint and a health probe.
func NewServer(hub *core.Hub, authService *auth.Service, st store.Store, unread *core.UnreadTracker, zone *time.Location, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	wsHandler := NewWSHandler(hub, authService, logger)
	router.GET("/ws", func(c *gin.Context) {
		wsHandler.ServeHTTP(c.Writer, c.Request)
	})

	apiHandlers := NewAPIHandlers(authService, logger)
	messageHandlers := NewMessageHandlers(st, unread, zone, logger)

	api := router.Group("/api")
	api.POST("/register", apiHandlers.Register)
	api.POST("/login", apiHandlers.Login)

	authorized := api.Group("", AuthMiddleware(authService, logger))
	authorized.GET("/users", messageHandlers.ListPeers)
	authorized.GET("/messages/:peer", messageHandlers.GetMessages)
	authorized.POST("/mark_read", messageHandlers.MarkRead)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
