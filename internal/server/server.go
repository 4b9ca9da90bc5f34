// Package server is the composition root: it wires the repositories,
// services, handlers and middleware together and owns the HTTP
// lifecycle.
//
// Each layer only receives what it needs. Services get repository
// interfaces, handlers get services, and nothing below this package
// ever touches the router.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/educast/studio/internal/apperror"
	"github.com/educast/studio/internal/auth"
	"github.com/educast/studio/internal/chat"
	"github.com/educast/studio/internal/config"
	"github.com/educast/studio/internal/generator"
	"github.com/educast/studio/internal/handler"
	"github.com/educast/studio/internal/middleware"
	"github.com/educast/studio/internal/model"
	sqliteRepo "github.com/educast/studio/internal/repository/sqlite"
	"github.com/educast/studio/internal/service"
	"github.com/educast/studio/internal/speech"
)

// Server owns the router, the database connection and the generation
// pool, and closes them in the right order on shutdown.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	pool   *generator.Pool
}

// New assembles the full dependency chain:
//
//	sqlite.DB → repositories → services → handlers → routes
//
// The speech engine is injected rather than constructed here so main
// can decide which binaries to probe for, and tests can swap in a fake.
func New(cfg *config.Config, engine speech.Engine, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	users := db.Users()
	podcasts := db.Podcasts()
	favorites := db.Favorites()
	chatHistory := db.Chat()

	seed := time.Now().UnixNano()
	scripts := generator.NewScriptWriter(seed)
	responder := chat.NewResponder(seed)

	pool := generator.NewPool(generator.Config{
		Workers:    cfg.Generation.Workers,
		QueueSize:  cfg.Generation.QueueSize,
		JobTimeout: cfg.Generation.JobTimeout,
		UploadDir:  cfg.UploadDir,
	}, engine, scripts, podcasts, logger)

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
		pool:   pool,
	}

	authSvc := service.NewAuthService(users, tokens, passwords, logger)
	podcastSvc := service.NewPodcastService(podcasts, pool, scripts, cfg.UploadDir, logger)
	favoriteSvc := service.NewFavoriteService(favorites, logger)
	chatSvc := service.NewChatService(chatHistory, responder, logger)
	adminSvc := service.NewAdminService(users, podcasts, logger)

	authHandler := handler.NewAuthHandler(authSvc, logger)
	bookHandler := handler.NewBookHandler(favoriteSvc)
	podcastHandler := handler.NewPodcastHandler(podcastSvc)
	favoriteHandler := handler.NewFavoriteHandler(favoriteSvc)
	chatHandler := handler.NewChatHandler(chatSvc)
	adminHandler := handler.NewAdminHandler(adminSvc)
	systemHandler := handler.NewSystemHandler(db, users, podcasts, cfg.UploadDir)

	authMW := auth.NewMiddleware(tokens, users, logger)

	s.routes(authMW, authHandler, bookHandler, podcastHandler,
		favoriteHandler, chatHandler, adminHandler, systemHandler)

	if cfg.AdminEmail != "" && cfg.AdminPass != "" {
		if err := s.seedAdmin(users, passwords); err != nil {
			db.Close()
			return nil, fmt.Errorf("seeding admin account: %w", err)
		}
	}

	return s, nil
}

func (s *Server) routes(
	authMW *auth.Middleware,
	authH *handler.AuthHandler,
	bookH *handler.BookHandler,
	podcastH *handler.PodcastHandler,
	favoriteH *handler.FavoriteHandler,
	chatH *handler.ChatHandler,
	adminH *handler.AdminHandler,
	systemH *handler.SystemHandler,
) {
	r := s.router

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(s.logger))

	r.Get("/static/audio/{filename}", systemH.HandleAudio)

	r.Route("/api", func(r chi.Router) {
		// Public routes.
		r.Post("/register", authH.HandleRegister)
		r.Post("/login", authH.HandleLogin)
		r.Post("/validate-token", authH.HandleValidateToken)
		r.Post("/check-email", authH.HandleCheckEmail)

		r.Get("/health", systemH.HandleHealth)
		r.Get("/status", systemH.HandleStatus)

		// Book browsing is public but marks favorites for logged-in
		// callers, so it runs behind OptionalAuth.
		r.Group(func(r chi.Router) {
			r.Use(authMW.OptionalAuth)
			r.Get("/books", bookH.HandleList)
			r.Get("/books/genres", bookH.HandleGenres)
			r.Get("/books/{id}", bookH.HandleGet)
		})

		// Authenticated routes.
		r.Group(func(r chi.Router) {
			r.Use(authMW.RequireAuth)

			r.Post("/logout", authH.HandleLogout)
			r.Get("/profile", authH.HandleGetProfile)
			r.Put("/profile", authH.HandleUpdateProfile)
			r.Post("/change-password", authH.HandleChangePassword)

			r.Post("/generate-podcast", podcastH.HandleCreate)
			r.Get("/podcasts", podcastH.HandleList)
			r.Get("/podcast/{id}", podcastH.HandleGet)
			r.Delete("/podcast/{id}", podcastH.HandleDelete)
			r.Post("/podcast/{id}/like", podcastH.HandleLike)
			r.Post("/podcast/{id}/cancel", podcastH.HandleCancel)

			r.Get("/favorites/books", favoriteH.HandleList)
			r.Post("/favorites/books/{id}", favoriteH.HandleAdd)
			r.Delete("/favorites/books/{id}", favoriteH.HandleRemove)

			r.Post("/chat", chatH.HandleSend)
			r.Get("/chat/history", chatH.HandleHistory)
			r.Delete("/chat/history/{session}", chatH.HandleClearSession)
		})

		// Admin routes.
		r.Group(func(r chi.Router) {
			r.Use(authMW.RequireAdmin)
			r.Get("/admin/users", adminH.HandleListUsers)
			r.Get("/admin/podcasts", adminH.HandleListPodcasts)
			r.Get("/admin/stats", adminH.HandleStats)
		})
	})
}

// seedAdmin ensures the configured admin account exists and carries the
// admin role. Runs once at startup, before the listener opens.
func (s *Server) seedAdmin(users *sqliteRepo.UserRepo, passwords *auth.PasswordService) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	existing, err := users.GetUserByEmail(ctx, s.cfg.AdminEmail)
	switch {
	case err == nil:
		if existing.Role == model.RoleAdmin {
			return nil
		}
		existing.Role = model.RoleAdmin
		if err := users.Update(ctx, existing); err != nil {
			return err
		}
		s.logger.Info("promoted existing account to admin", slog.String("email", existing.Email))
		return nil

	case errors.Is(err, apperror.ErrNotFound):
		hash, err := passwords.Hash(s.cfg.AdminPass)
		if err != nil {
			return err
		}
		admin := &model.User{
			Name:         "Administrator",
			Email:        s.cfg.AdminEmail,
			PasswordHash: hash,
			Role:         model.RoleAdmin,
			IsActive:     true,
			IsVerified:   true,
		}
		if err := users.Create(ctx, admin); err != nil {
			return err
		}
		s.logger.Info("seeded admin account", slog.String("email", admin.Email))
		return nil

	default:
		return err
	}
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down in
// dependency order: drain HTTP, stop the generation pool, close the DB.
func (s *Server) Start() error {
	defer s.db.Close()

	s.pool.Start()
	defer s.pool.Stop()

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
			slog.String("uploads", s.cfg.UploadDir),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
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
