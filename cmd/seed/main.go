// Command seed fills an empty store with sample feedback and, optionally, a
// demo account for local development.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"medmind-server/cache"
	"medmind-server/config"
	"medmind-server/logger"
	"medmind-server/storage"
)

func main() {
	count := flag.Int("feedback", 25, "number of sample feedback records")
	email := flag.String("user-email", "", "demo account email; password is read from SEED_USER_PASSWORD")
	timeout := flag.Duration("timeout", time.Minute, "overall timeout")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logg := logger.New("seed", slog.LevelInfo)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, err := storage.Open(ctx, cfg.Database, logg)
	if err != nil {
		logg.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer store.Close(context.Background())

	// seeded feedback must not leave a stale analytics report behind
	var analyticsCache cache.AnalyticsCache = cache.Noop{}
	if cfg.Redis.URL != "" {
		if c, err := cache.NewRedis(cfg.Redis.URL, cfg.Redis.AnalyticsCacheTTL, logg); err == nil {
			analyticsCache = c
		} else {
			logg.Warn("analytics cache unavailable", "error", err)
		}
	}
	defer analyticsCache.Close()

	s, err := newSeeder(cfg, store, analyticsCache, logg)
	if err != nil {
		logg.Error("failed to build seeder", "error", err)
		os.Exit(1)
	}

	if *email != "" {
		if err := s.seedUser(ctx, *email, os.Getenv("SEED_USER_PASSWORD")); err != nil {
			logg.Error("failed to seed user", "error", err)
			os.Exit(1)
		}
	}
	if _, err := s.seedFeedback(ctx, *count); err != nil {
		logg.Error("failed to seed feedback", "error", err)
		os.Exit(1)
	}
	logg.Info("seeding completed")
}
