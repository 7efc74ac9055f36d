// Package rest exposes the session lifecycle over HTTP: registration,
// login, refresh-token rotation, and logout, with the refresh secret
// carried in an HttpOnly cookie.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avetrovs/sessionkeeper/internal/logging"
	"github.com/avetrovs/sessionkeeper/internal/server/config"
	"github.com/avetrovs/sessionkeeper/internal/server/services"
)

type Server struct {
	address string
	logger  logging.Logger
	handler *Handler
}

func NewServer(cfg *config.Config, l logging.Logger, users *services.UserService, sessions *services.SessionService, authenticator *services.Authenticator) *Server {
	return &Server{
		address: cfg.EndpointAddr,
		logger:  l.With("module", "rest_server"),
		handler: NewHandler(cfg, l, users, sessions, authenticator),
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	s.handler.RegisterRoutes(engine)

	srv := &http.Server{Addr: s.address, Handler: engine}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
