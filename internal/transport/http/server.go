package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/shortify/shortify/internal/auth"
	"github.com/shortify/shortify/internal/ratelimit"
	"github.com/shortify/shortify/internal/requestmeta"
	"github.com/shortify/shortify/internal/service"
)

// RouterConfig wires the handlers, middleware and their dependencies.
type RouterConfig struct {
	Shortener service.Shortener
	Analytics service.Analytics
	Extractor *requestmeta.Extractor
	Tokens    *auth.TokenManager
	Google    *auth.GoogleHandler
	Limiter   ratelimit.Limiter
	BaseURL   string
	Log       *logrus.Logger
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	handler := NewHandler(cfg.Shortener, cfg.Analytics, cfg.Extractor, cfg.BaseURL, cfg.Log)

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(cfg.Log), Metrics())

	throttle := func(c *gin.Context) { c.Next() }
	if cfg.Limiter != nil {
		throttle = ratelimit.Middleware(cfg.Limiter, cfg.Log)
	}

	router.POST("/shorten", auth.OptionalAuth(cfg.Tokens), throttle, handler.CreateShortLink)
	router.GET("/shorten/:alias", handler.Redirect)

	analytics := router.Group("/analytics", auth.RequireAuth(cfg.Tokens))
	analytics.GET("/overall", handler.AnalyticsOverall)
	analytics.GET("/topic/:topic", handler.AnalyticsByTopic)
	analytics.GET("/:alias", handler.AnalyticsByAlias)

	if cfg.Google != nil {
		google := router.Group("/auth/google", throttle)
		google.GET("/login", cfg.Google.Login)
		google.GET("/callback", cfg.Google.Callback)
		google.GET("/logout", cfg.Google.Logout)
	}

	router.GET("/healthz", handler.Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// Server wraps the HTTP server with graceful shutdown.
type Server struct {
	server *http.Server
	log    *logrus.Logger
}

// NewServer creates a server listening on the given port.
func NewServer(router *gin.Engine, port string, log *logrus.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:         ":" + port,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		log: log,
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.log.WithField("addr", s.server.Addr).Info("server starting")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("server shutting down")
	return s.server.Shutdown(ctx)
}
