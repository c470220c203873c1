package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photoshare-backend/internal/config"
	"photoshare-backend/internal/handlers"
	"photoshare-backend/internal/middleware"
	"photoshare-backend/internal/repository"
	"photoshare-backend/internal/services"
	"photoshare-backend/internal/storage"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Apply schema and seed the admin account
	if err := repository.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}
	if cfg.Admin.Username != "" && cfg.Admin.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to hash admin password")
		}
		if err := repository.SeedAdmin(context.Background(), db, cfg.Admin.Username, cfg.Admin.Email, string(hash)); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed admin account")
		}
	}

	// Connect to Redis for sessions
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping Redis")
	}
	log.Info().Msg("Redis connection established")

	// Blob store
	blobs, err := storage.NewS3Store(
		context.Background(),
		cfg.AWS.Region,
		cfg.AWS.S3Bucket,
		cfg.AWS.AccessKey,
		cfg.AWS.SecretKey,
		cfg.AWS.Endpoint,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create S3 store")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	albumRepo := repository.NewAlbumRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize services
	sessions := services.NewSessionStore(rdb, cfg.Session.Secret, cfg.Session.TTL())
	quota := services.NewQuotaTracker(mediaRepo, cfg.Upload.QuotaBytes)
	mediaService := services.NewMediaService(mediaRepo, albumRepo, blobs, quota)
	albumService := services.NewAlbumService(albumRepo, mediaService)
	userService := services.NewUserService(userRepo, albumRepo, mediaService)
	hub := services.NewNotificationHub()
	push, err := services.NewPushSender(cfg.APNS.CertPath, cfg.APNS.CertPassword, cfg.APNS.Topic, cfg.APNS.Production)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create push sender")
	}
	notificationService := services.NewNotificationService(mediaRepo, notificationRepo, userRepo, hub, push)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, sessions)
	adminHandler := handlers.NewAdminHandler(userService)
	albumHandler := handlers.NewAlbumHandler(albumService, sessions)
	mediaHandler := handlers.NewMediaHandler(mediaService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	requireAuth := middleware.RequireAuth(sessions)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/user", authHandler.CurrentUser)
			r.Put("/me/push-token", authHandler.UpdatePushToken)

			r.Post("/albums", albumHandler.Create)
			r.Get("/albums/{albumID}", mediaHandler.ListAlbumMedia)
			r.Patch("/albums/{albumID}", albumHandler.Update)
			r.Delete("/albums/{albumID}", albumHandler.Delete)
			r.Post("/albums/{albumID}/access", albumHandler.Unlock)
			r.Post("/albums/{albumID}/media", mediaHandler.Upload)

			r.Delete("/media/{mediaID}", mediaHandler.Delete)
			r.Post("/media/{mediaID}/like", notificationHandler.Like)
			r.Delete("/media/{mediaID}/like", notificationHandler.Unlike)

			r.Get("/notifications", notificationHandler.List)
			r.Post("/notifications/read", notificationHandler.MarkRead)

			r.Get("/search", albumHandler.Search)

			// Admin routes
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/requests", adminHandler.ListSignupRequests)
				r.Post("/requests/{requestID}/approve", adminHandler.ApproveSignup)
				r.Post("/requests/{requestID}/reject", adminHandler.RejectSignup)
				r.Get("/users", adminHandler.ListUsers)
				r.Delete("/users/{userID}", adminHandler.DeleteUser)
			})
		})
	})

	// WebSocket route
	r.With(requireAuth).Get("/ws", wsHandler.Serve)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS. The origin is echoed back because the
// session cookie requires credentialed requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
