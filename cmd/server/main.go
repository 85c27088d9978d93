// MindCraft - learning game server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/mindcraft-labs/internal/api"
	"github.com/ashureev/mindcraft-labs/internal/challenge"
	"github.com/ashureev/mindcraft-labs/internal/config"
	"github.com/ashureev/mindcraft-labs/internal/engine"
	"github.com/ashureev/mindcraft-labs/internal/identity"
	"github.com/ashureev/mindcraft-labs/internal/middleware"
	"github.com/ashureev/mindcraft-labs/internal/play"
	"github.com/ashureev/mindcraft-labs/internal/playlog"
	"github.com/ashureev/mindcraft-labs/internal/remote"
	"github.com/ashureev/mindcraft-labs/internal/store"
	"github.com/ashureev/mindcraft-labs/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"google.golang.org/grpc"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	// Challenge service: built-in unless a remote one is configured.
	var challenges play.Challenges = challenge.NewService(repo, nil, nil)
	if cfg.ChallengeAddr != "" {
		slog.Info("Connecting to remote challenge service", "address", cfg.ChallengeAddr)
		client, err := remote.Dial(remote.DefaultClientConfig(cfg.ChallengeAddr), logger)
		if err != nil {
			slog.Error("Failed to connect to challenge service", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		challenges = client
	}

	playLog, err := playlog.New(playlog.Config{
		Enabled:   cfg.PlayLog.Enabled,
		Dir:       cfg.PlayLog.Dir,
		QueueSize: cfg.PlayLog.QueueSize,
	}, logger)
	if err != nil {
		slog.Error("Failed to initialize play logger", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := playLog.Close(); closeErr != nil {
			slog.Error("Failed to close play logger", "error", closeErr)
		}
	}()

	// Initialize services.
	sm := play.NewManager(play.ManagerConfig{
		Repo:       repo,
		Challenges: challenges,
		Timing: engine.Timing{
			Correct: cfg.Timing.Correct,
			Retry:   cfg.Timing.Retry,
			Reveal:  cfg.Timing.Reveal,
		},
		PlayLog: playLog,
		Logger:  logger,
	})

	// Initialize handlers.
	baseHandler := api.NewHandler(repo, challenges)
	healthHandler := api.NewHealthHandler(repo)
	healthHandler.Sessions = sm.Count
	wsHandler := play.NewWebSocketHandler(sm, repo, cfg.AllowedOrigins, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(identity.Middleware(repo, cfg.IsDevelopment()))

	// Public routes.
	healthHandler.RegisterHealth(r)

	// All routes use identity middleware (no auth needed).
	api.NewGameHandler(baseHandler).RegisterRoutes(r)
	api.NewUserHandler(baseHandler).RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/play", wsHandler.ServeHTTP)

	// Serve embedded game client (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// Create server.
	// Play WebSockets are long-lived, so there is no write timeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start idle session sweeper.
	sm.StartSweeper(ctx, cfg.SessionTTL)

	// Optionally expose the challenge service over gRPC.
	var grpcSrv *grpc.Server
	if cfg.GRPCPort != "" {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			slog.Error("Failed to listen for gRPC", "error", err, "port", cfg.GRPCPort)
			os.Exit(1)
		}
		grpcSrv = remote.NewServer(challenges, logger)
		go func() {
			slog.Info("Challenge service listening", "addr", lis.Addr().String())
			if err := grpcSrv.Serve(lis); err != nil {
				slog.Error("gRPC server failed", "error", err)
			}
		}()
	}

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Closing sessions first unblocks play WebSocket handlers.
	sm.CloseAll()
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return
	}

	slog.Info("Server stopped successfully")
}
