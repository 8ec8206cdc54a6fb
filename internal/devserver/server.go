// Package devserver is an in-memory implementation of the membership
// backend's REST contract. It lets the app run end-to-end without the
// production deployment and serves as the integration-test fixture.
package devserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"annfsu/app/internal/config"
)

type Server struct {
	engine *gin.Engine
	server *http.Server
	store  *memStore
	cfg    *config.AppConfig
	log    zerolog.Logger
}

func New(cfg *config.AppConfig, logger zerolog.Logger) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.TestMode)
	}

	s := &Server{
		store: newMemStore(),
		cfg:   cfg,
		log:   logger,
	}

	engine := gin.New()
	engine.RedirectTrailingSlash = true
	engine.Use(
		requestID(),
		requestLogger(logger),
		recovery(logger),
		cors(cfg.AllowCORSOrigins),
	)

	s.engine = engine
	s.registerRoutes(engine.Group("/api"))
	s.seed()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return s
}

func (s *Server) registerRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	auth.POST("/signup", s.Signup)
	auth.POST("/login", s.Login)
	auth.POST("/request-otp", s.RequestOTP)
	auth.POST("/verify-otp", s.VerifyOTP)
	auth.GET("/me", s.auth(), s.Me)

	router.GET("/content/:type", s.ListContent)
	router.GET("/contacts", s.ListContacts)
	router.GET("/songs", s.ListSongs)
	router.GET("/songs/:id/audio", s.SongAudio)

	authed := router.Group("")
	authed.Use(s.auth())
	authed.PUT("/profile/update", s.UpdateProfile)
	authed.POST("/membership/apply", s.Apply)

	admin := router.Group("")
	admin.Use(s.auth(), requireAdmin())
	admin.PUT("/members/:id", s.UpdateMember)
	admin.POST("/content", s.CreateContent)
	admin.DELETE("/content/:id", s.DeleteContent)
	admin.GET("/admin/dashboard/stats", s.DashboardStats)
	admin.GET("/admin/users", s.AdminListUsers)
	admin.PUT("/admin/users/:id/:action", s.AdminUserAction)
	admin.GET("/admin/activities", s.AdminActivities)
}

// Handler exposes the router for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("dev backend starting")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("dev backend shutting down")
	return s.server.Shutdown(ctx)
}
