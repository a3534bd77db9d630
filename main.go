package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"medmind-server/cache"
	"medmind-server/config"
	"medmind-server/jobs"
	"medmind-server/logger"
	"medmind-server/metrics"
	"medmind-server/routes"
	"medmind-server/services"
	"medmind-server/storage"
	ws "medmind-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logg := logger.New("medmind-server", cfg.Log.Level)
	if err := run(cfg, logg); err != nil {
		logg.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.Database, logg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logg.Error("close store", "error", err)
		}
	}()

	analyticsCache := openCache(cfg, logg)
	defer analyticsCache.Close()

	tokens, err := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	m := metrics.New()
	hub := ws.NewHub(logg)
	auth := services.NewAuthService(store, tokens, cfg.Security.BcryptCost, logg, m)
	feedback := services.NewFeedbackService(store, analyticsCache, hub, logg, m)
	health := jobs.NewHealthJob(store, m, logg, cfg.Server.HealthInterval)
	assistant := services.NewAssistantService(openGenerator(cfg, logg), logg, m)

	// background workers stop with ctx; wg lets shutdown wait for them
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); hub.Run(ctx) }()
	go func() { defer wg.Done(); health.Run(ctx) }()
	defer wg.Wait()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.NewRouter(routes.Dependencies{
		Config:    cfg,
		Logger:    logg,
		Auth:      auth,
		Feedback:  feedback,
		Assistant: assistant,
		Store:     store,
		Hub:       hub,
		Metrics:   m,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("server starting", "port", cfg.Server.Port, "driver", cfg.Database.Driver, "version", cfg.Server.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			stop()
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	logg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openCache falls back to no caching when Redis is unset or unreachable.
func openCache(cfg *config.Config, logg *slog.Logger) cache.AnalyticsCache {
	if cfg.Redis.URL == "" {
		return cache.Noop{}
	}
	c, err := cache.NewRedis(cfg.Redis.URL, cfg.Redis.AnalyticsCacheTTL, logg)
	if err != nil {
		logg.Warn("analytics cache disabled", "error", err)
		return cache.Noop{}
	}
	logg.Info("analytics cache enabled", "ttl", cfg.Redis.AnalyticsCacheTTL.String())
	return c
}

// openGenerator returns nil when no Gemini key is configured; the symptom
// checker then runs on keyword matching and fixed templates.
func openGenerator(cfg *config.Config, logg *slog.Logger) services.TextGenerator {
	a := cfg.Assistant
	if a.GeminiAPIKey == "" {
		logg.Warn("GEMINI_API_KEY not set, symptom checker runs without a language model")
		return nil
	}
	client, err := services.NewGeminiClient(a.GeminiAPIKey, a.Model, a.BaseURL, a.Timeout)
	if err != nil {
		logg.Warn("symptom checker language model disabled", "error", err)
		return nil
	}
	logg.Info("symptom checker language model enabled", "model", a.Model)
	return client
}
