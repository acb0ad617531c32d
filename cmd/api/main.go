package main

import (
	"os"
	"strings"

	"github.com/nimasrn/transaction-dashboard/internal/cache"
	"github.com/nimasrn/transaction-dashboard/internal/config"
	"github.com/nimasrn/transaction-dashboard/internal/feed"
	"github.com/nimasrn/transaction-dashboard/internal/handlers"
	"github.com/nimasrn/transaction-dashboard/internal/repository"
	"github.com/nimasrn/transaction-dashboard/internal/services"
	xhttp "github.com/nimasrn/transaction-dashboard/pkg/http"
	"github.com/nimasrn/transaction-dashboard/pkg/logger"
	"github.com/nimasrn/transaction-dashboard/pkg/prom"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	defer logger.Sync()

	cfg, err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	logger.Info("starting api", "version", version, "commit", commit, "date", date, "env", cfg.AppEnv)

	hostname, _ := os.Hostname()
	if err := prom.Create(hostname, cfg.AppEnv, cfg.PromNamespace); err != nil {
		logger.Error("failed to create prometheus metrics", "error", err)
	}
	if cfg.AppDebugMetricsAddr != "" {
		go prom.ListenAndServer(cfg.AppDebugMetricsAddr, cfg.AppDebugMetricsURI)
	}

	// transport
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.RecoverMiddleware)
	s.Use(xhttp.CORSMiddleware(cfg.HttpCorsAllowOrigin))
	s.Use(xhttp.MetricsMiddleware(prom.ObserveHTTPRequest))
	s.Use(xhttp.RequestLoggerMiddleware)
	// seeding is bounded by FEED_TIMEOUT instead
	s.Use(xhttp.TimeoutMiddleware(cfg.HttpRequestTimeout, "/api/seed"))
	s.Use(xhttp.CompressMiddleware(6))
	s.Router = xhttp.CreateDefaultRouter()

	db, err := repository.Open(cfg)
	if err != nil {
		logger.Error("failed connecting to database", "error", err)
		return
	}
	defer db.Close()

	aggCache, err := cache.FromConfig(cfg)
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	// interface values stay nil when the cache is disabled
	var (
		readCache   services.AggregateCache
		invalidator services.CacheInvalidator
		pingers     = []services.Pinger{db}
	)
	if aggCache != nil {
		readCache = aggCache
		invalidator = aggCache
		pingers = append(pingers, aggCache)
	}

	transactionRepo := repository.NewTransactionRepository(db)
	feedClient := feed.NewClient(feed.Config{URL: cfg.FeedURL, Timeout: cfg.FeedTimeout})

	// services
	transactionService := services.NewTransactionService(transactionRepo)
	aggregationService := services.NewAggregationService(transactionRepo, readCache)
	dashboardService := services.NewDashboardService(transactionService, aggregationService)
	seedService := services.NewSeedService(feedClient, transactionRepo, invalidator)
	healthService := services.NewHealthService(pingers...)

	// handlers
	transactionHandler := handlers.NewTransactionHandler(transactionService, aggregationService, dashboardService)
	seedHandler := handlers.NewSeedHandler(seedService)
	healthHandler := handlers.NewHealthHandler(healthService)

	g := s.Router.Group("/api")
	handlers.RegisterSeedRoutes(g, seedHandler)
	handlers.RegisterTransactionRoutes(g, transactionHandler)
	handlers.RegisterHealthRoutes(g, healthHandler)

	done := s.CloseOnSignal()

	if err := s.ListenAndServe(cfg.HttpListenAddr); err != nil {
		logger.Error("error in running http-server", "error", err)
		return
	}
	<-done
}

func argContainsEnvPath() string {
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
	return ""
}
