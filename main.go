// Package main our entry point.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/banterhq/banter/internal/ai"
	"github.com/banterhq/banter/internal/config"
	"github.com/banterhq/banter/internal/database"
	"github.com/banterhq/banter/internal/handler"
	"github.com/banterhq/banter/internal/presence"
	"github.com/banterhq/banter/internal/ratelimiter"
	"github.com/banterhq/banter/internal/relay"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %+v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB. Serving traffic against a store we cannot initialize is
	// pointless, so failures here are fatal.
	slog.Info("initializing database connection")

	if cfg.DatabaseURL == "" {
		log.Fatal("DB_URL environment variable is not set")
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("could not connect to the postgresql database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("could not reach the postgresql database: %v", err)
	}

	if err := database.Migrate(pool); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	queries := database.New(pool)
	registry := presence.NewRegistry()

	// hub.Run is our central loop that is always listening for client
	// related events.
	hub := relay.NewHub(queries, registry)
	go hub.Run(ctx)

	var completer ai.Completer = ai.NewMock()
	if cfg.GeminiAPIKey != "" {
		gemini, err := ai.NewGemini(ctx, cfg.GeminiAPIKey, cfg.AIModel)
		if err != nil {
			slog.Error("ai bridge unavailable, falling back to mock", "error", err)
		} else {
			completer = gemini
		}
	} else {
		slog.Info("GEMINI_API_KEY not set, ai replies are mocked")
	}

	apiLimiter := ratelimiter.NewIPRateLimiter(cfg.APIRate, cfg.APIWindow, ratelimiter.CleanupOpts{
		TTL:      10 * time.Minute,
		Interval: time.Minute,
	})
	defer apiLimiter.Cancel()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/ws", handler.ServeWs(hub, cfg))

	r.Route("/api", func(r chi.Router) {
		r.Use(apiLimiter.Middleware)
		r.Get("/health", handler.Health(registry))
		r.Get("/stats", handler.Stats(queries, registry))
		r.Post("/ai-chat", handler.AIChat(completer, queries))
	})

	fs := http.FileServer(http.Dir("static"))
	r.Handle("/static/*", http.StripPrefix("/static/", fs))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/static/index.html", http.StatusSeeOther)
	})

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	pool.Close()

	slog.Info("server stopped")
}
