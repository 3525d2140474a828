// Package server wires the dependency graph and owns the HTTP lifecycle:
// router, middleware, routes, graceful shutdown and the database handle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"schoolyard/internal/auth"
	"schoolyard/internal/catalog"
	"schoolyard/internal/config"
	"schoolyard/internal/handler"
	"schoolyard/internal/middleware"
	"schoolyard/internal/moderation"
	sqliteRepo "schoolyard/internal/repository/sqlite"
	"schoolyard/internal/service"
)

// Server holds the router and the resources it must release on shutdown.
type Server struct {
	router *chi.Mux
	cfg    config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain: database, content catalog,
// services, handlers, routes. This is the composition root; nothing else in
// the codebase constructs cross-layer dependencies.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}
	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenService(s.cfg.JWTSecret)
	if err != nil {
		return err
	}
	passwords := auth.NewPasswordService(s.cfg.BcryptCost)

	schoolService := service.NewSchoolService(s.db.Schools(), s.db.Accounts(), cat, s.logger)
	accountService := service.NewAccountService(s.db.Accounts(), schoolService, passwords, tokens, s.logger)
	playerService := service.NewPlayerService(s.db.Players(), s.logger)
	rewardService := service.NewRewardService(s.db.Rewards(), s.logger)
	worldService := service.NewWorldService(s.db.World(), moderation.New(cat.Denylist), cat, s.logger)

	accounts := handler.NewAccountHandler(accountService, s.logger)
	schools := handler.NewSchoolHandler(schoolService, s.logger)
	players := handler.NewPlayerHandler(playerService, s.logger)
	rewards := handler.NewRewardHandler(rewardService, s.logger)
	world := handler.NewWorldHandler(worldService, s.logger)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/accounts", accounts.HandleCreate)
		r.Post("/auth/login", accounts.HandleLogin)
		r.Get("/accounts/{id}", accounts.HandleGet)
		r.Delete("/accounts/{id}", accounts.HandleDelete)
		r.Put("/accounts/{id}/cosmetic", accounts.HandleSetCosmetic)

		r.Get("/schools", schools.HandleList)
		r.Put("/schools", schools.HandleBatchReplace)
		r.Delete("/schools/{id}", schools.HandleDelete)
		r.Post("/schools/reconcile", schools.HandleReconcile)

		r.Get("/world", world.HandleGet)
		r.Put("/world", world.HandleReplace)
		r.Post("/world/graffiti", world.HandleAddGraffiti)

		r.Post("/rewards", rewards.HandleEnqueue)
		r.Post("/players/{id}/rewards/claim", rewards.HandleClaim)
		r.Put("/players/{id}", players.HandleSave)
		r.Get("/players/{id}", players.HandleGet)
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then drains in-flight requests
// for up to 30 seconds and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Port),
			slog.String("database", s.cfg.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
