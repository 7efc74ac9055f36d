// Package server wires the application together: it opens the database,
// runs migrations, builds the services, starts the HTTP endpoint and the
// background token cleanup, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/avetrovs/sessionkeeper/internal/logging"
	"github.com/avetrovs/sessionkeeper/internal/server/config"
	"github.com/avetrovs/sessionkeeper/internal/server/repositories/repomanager"
	"github.com/avetrovs/sessionkeeper/internal/server/rest"
	"github.com/avetrovs/sessionkeeper/internal/server/services"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	sessions      *services.SessionService
	users         *services.UserService
	authenticator *services.Authenticator
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	sessions := services.NewSessionService(db, m, cfg)
	users := services.NewUserService(db, m, sessions)
	authenticator := services.NewAuthenticator(db, m, cfg.SecretKey)

	return &App{
		config:        cfg,
		logger:        logger,
		db:            db,
		sessions:      sessions,
		users:         users,
		authenticator: authenticator,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := rest.NewServer(app.config, app.logger, app.users, app.sessions, app.authenticator)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// startCleanupLoop purges expired and revoked refresh tokens on a timer.
// Breach detection only needs revoked rows until they expire, so anything
// both dead and past its lifetime is safe to drop.
func (app *App) startCleanupLoop(ctx context.Context) {

	log := app.logger.With("module", "cleanup")

	ticker := time.NewTicker(app.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.sessions.Cleanup(ctx)
			if err != nil {
				log.Error(ctx, "token cleanup failed", "error", err.Error())
				continue
			}
			log.Info(ctx, "token cleanup finished", "deleted", n)
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startCleanupLoop(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
