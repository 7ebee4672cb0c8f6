package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"blog/app/config"
	"blog/app/controllers"
	"blog/app/database"
	"blog/app/repositories"
	"blog/app/routes"
	"blog/app/security"
	"blog/app/seed"
	"blog/app/services"
	"blog/app/sessions"
	"blog/app/views"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Domain is the storage and service layer shared by every command.
type Domain struct {
	DB       *gorm.DB
	Gate     *services.Gate
	Accounts *services.AccountService
	Posts    *services.PostService
	Comments *services.CommentService
}

// OpenDomain connects to the database, migrates it and builds the services.
func OpenDomain(cfg *config.Config, log *zap.Logger) (*Domain, error) {
	db, err := database.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		closeDB(db)
		return nil, err
	}

	hasher, err := security.NewHasher(cfg.PasswordScheme, cfg.PBKDF2Iterations)
	if err != nil {
		closeDB(db)
		return nil, err
	}

	postRepo := repositories.NewPostRepository(db)
	gate := services.NewGate(cfg.AdminUserID)
	return &Domain{
		DB:       db,
		Gate:     gate,
		Accounts: services.NewAccountService(repositories.NewUserRepository(db), hasher),
		Posts:    services.NewPostService(postRepo, gate),
		Comments: services.NewCommentService(repositories.NewCommentRepository(db), postRepo, gate),
	}, nil
}

func (d *Domain) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Domain) Seeder(log *zap.Logger) *seed.Seeder {
	return seed.New(d.Accounts, d.Posts, d.Gate, log)
}

// App is the fully wired web application.
type App struct {
	*Domain
	Handler http.Handler
	closers []func() error
}

// Build wires configuration into a ready-to-serve handler.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	domain, err := OpenDomain(cfg, log)
	if err != nil {
		return nil, err
	}
	app := &App{Domain: domain, closers: []func() error{domain.Close}}

	revoker, closeRevoker, err := openRevoker(ctx, cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.closers = append(app.closers, closeRevoker)

	tokens, err := sessions.NewTokens(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	manager := sessions.NewManager(tokens, revoker, cfg.CookieSecure, log)

	renderer, err := views.NewRenderer()
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	base := controllers.NewBase(renderer, views.NewFlasher(cfg.SessionSecret, cfg.CookieSecure), domain.Gate, log)

	app.Handler = routes.SetupRoutes(routes.Dependencies{
		Log:      log,
		Sessions: manager,
		Gate:     domain.Gate,
		Posts:    controllers.NewPostController(base, domain.Posts),
		Comments: controllers.NewCommentController(base, domain.Comments, domain.Posts),
		Auth:     controllers.NewAuthController(base, domain.Accounts, manager),
		Pages:    controllers.NewPageController(base),
	})
	return app, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func openRevoker(ctx context.Context, cfg *config.Config) (sessions.Revoker, func() error, error) {
	switch cfg.RevocationStore {
	case "redis":
		client, err := sessions.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return sessions.NewRedisRevoker(client), client.Close, nil
	case "badger":
		db, err := sessions.OpenBadger(cfg.BadgerPath, false)
		if err != nil {
			return nil, nil, err
		}
		return sessions.NewBadgerRevoker(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported revocation store %q", cfg.RevocationStore)
	}
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// RunAppServer serves the blog until SIGINT or SIGTERM.
func RunAppServer(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("close resources", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Info("starting blog server",
		zap.String("addr", srv.Addr),
		zap.String("env", cfg.Env),
		zap.String("db_driver", cfg.DBDriver),
		zap.String("revocation_store", cfg.RevocationStore),
	)
	return runServer(ctx, srv, log)
}

// runServer blocks until srv fails or ctx is done, then shuts it down gracefully.
func runServer(ctx context.Context, srv *http.Server, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
