package main

import (
	"os"
	"strings"

	"github.com/nimasrn/transaction-dashboard/internal/config"
	"github.com/nimasrn/transaction-dashboard/pkg/logger"
	"github.com/nimasrn/transaction-dashboard/pkg/pg"
)

func main() {
	defer logger.Sync()

	cfg, err := config.Load(getEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	// main.go --dir=./migrations
	if err := pg.Migrate(cfg.PostgresWrite(), getMigrationPath()); err != nil {
		logger.Error("migration: error running migrations", "error", err)
		os.Exit(1)
	}
}

func getEnvPath() string {
	if p := argValue("--env="); p != "" {
		return p
	}
	if _, err := os.Stat(".env"); err != nil {
		return ""
	}
	return ".env"
}

func getMigrationPath() string {
	if p := argValue("--dir="); p != "" {
		return p
	}
	return "./migrations"
}

func argValue(prefix string) string {
	for _, v := range os.Args {
		if strings.HasPrefix(v, prefix) {
			p := strings.TrimPrefix(v, prefix)
			if _, err := os.Stat(p); err != nil {
				logger.Error("failed to open the passed path, got error" + err.Error())
				return ""
			}
			return p
		}
	}
	return ""
}
