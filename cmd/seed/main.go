package main

import (
	"context"
	"os"
	"strings"

	"github.com/nimasrn/transaction-dashboard/internal/cache"
	"github.com/nimasrn/transaction-dashboard/internal/config"
	"github.com/nimasrn/transaction-dashboard/internal/feed"
	"github.com/nimasrn/transaction-dashboard/internal/repository"
	"github.com/nimasrn/transaction-dashboard/internal/services"
	"github.com/nimasrn/transaction-dashboard/pkg/logger"
)

// seed replaces the stored transactions with the upstream feed once and exits.
func main() {
	defer logger.Sync()

	cfg, err := config.Load(getEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := repository.Open(cfg)
	if err != nil {
		logger.Error("failed connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	aggCache, err := cache.FromConfig(cfg)
	if err != nil {
		logger.Warn("cache unavailable, cached aggregates will expire by ttl", "error", err)
	}
	var invalidator services.CacheInvalidator
	if aggCache != nil {
		invalidator = aggCache
	}

	feedClient := feed.NewClient(feed.Config{URL: cfg.FeedURL, Timeout: cfg.FeedTimeout})
	seedService := services.NewSeedService(feedClient, repository.NewTransactionRepository(db), invalidator)

	n, err := seedService.Seed(context.Background())
	if err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	logger.Info("seeding finished", "records", n)
}

func getEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.SplitN(v, "=", 2)
			if _, err := os.Stat(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	if _, err := os.Stat(".env"); err != nil {
		return ""
	}
	return ".env"
}
