package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// FeedItem mirrors one element of the upstream product transaction feed.
type FeedItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Sold        bool      `json:"sold"`
	DateOfSale  time.Time `json:"dateOfSale"`
	Image       string    `json:"image"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	FeedID    string    `json:"feed_id"`
	Timestamp time.Time `json:"timestamp"`
	Items     int       `json:"items"`
}

var catalog = []struct {
	category string
	titles   []string
}{
	{"men's clothing", []string{"Slim Fit T-Shirt", "Cotton Jacket", "Foldsack Backpack", "Casual Shirt"}},
	{"women's clothing", []string{"Rain Jacket", "Short Sleeve Top", "Snowboard Jacket", "Moto Biker Jacket"}},
	{"jewelery", []string{"Gold Plated Ring", "Rose Gold Earrings", "Micropave Bracelet", "Silver Necklace"}},
	{"electronics", []string{"Portable Hard Drive", "SSD 1TB", "Gaming Monitor", "USB Flash Drive"}},
}

// MockFeed generates a deterministic product feed. The same seed and size
// always produce the same items.
type MockFeed struct {
	mu          sync.RWMutex
	feedID      string
	seed        int64
	size        int
	failureRate float64
	items       []FeedItem
	rng         *rand.Rand
}

func NewMockFeed(seed int64, size int, failureRate float64) *MockFeed {
	f := &MockFeed{
		feedID:      "MOCK_FEED_" + uuid.New().String()[:8],
		failureRate: failureRate,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	f.regenerate(seed, size)
	return f
}

func (f *MockFeed) regenerate(seed int64, size int) {
	rng := rand.New(rand.NewSource(seed))
	start := time.Date(2021, time.June, 1, 0, 0, 0, 0, time.UTC)

	items := make([]FeedItem, 0, size)
	for i := 0; i < size; i++ {
		c := catalog[rng.Intn(len(catalog))]
		title := c.titles[rng.Intn(len(c.titles))]
		// mostly under 1000 with a long tail above
		price := math.Round(rng.ExpFloat64()*250*100) / 100
		items = append(items, FeedItem{
			ID:          int64(i + 1),
			Title:       title,
			Description: fmt.Sprintf("%s from the %s collection", title, c.category),
			Price:       price,
			Category:    c.category,
			Sold:        rng.Float64() < 0.5,
			DateOfSale:  start.Add(time.Duration(rng.Int63n(int64(365*24*time.Hour)))).Truncate(time.Second),
			Image:       fmt.Sprintf("https://img.example/%d.jpg", i+1),
		})
	}

	f.mu.Lock()
	f.seed = seed
	f.size = size
	f.items = items
	f.mu.Unlock()
}

func (f *MockFeed) shouldFail() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rng.Float64() < f.failureRate
}

// Handler struct holds the mock feed and routes
type Handler struct {
	feed *MockFeed
}

func NewHandler(feed *MockFeed) *Handler {
	return &Handler{feed: feed}
}

// GetFeed serves the whole feed as one JSON array.
func (h *Handler) GetFeed(c *gin.Context) {
	if h.feed.shouldFail() {
		log.Warn().Msg("Simulating feed outage")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Feed temporarily unavailable",
		})
		return
	}

	h.feed.mu.RLock()
	items := h.feed.items
	h.feed.mu.RUnlock()

	log.Info().Int("items", len(items)).Msg("Serving feed")
	c.JSON(http.StatusOK, items)
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(c *gin.Context) {
	h.feed.mu.RLock()
	defer h.feed.mu.RUnlock()

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		FeedID:    h.feed.feedID,
		Timestamp: time.Now(),
		Items:     len(h.feed.items),
	})
}

// UpdateConfig regenerates the feed or changes the failure rate at runtime.
func (h *Handler) UpdateConfig(c *gin.Context) {
	var config struct {
		Seed        *int64   `json:"seed"`
		Size        *int     `json:"size"`
		FailureRate *float64 `json:"failure_rate"`
	}

	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	h.feed.mu.RLock()
	seed, size := h.feed.seed, h.feed.size
	h.feed.mu.RUnlock()

	if config.Seed != nil {
		seed = *config.Seed
	}
	if config.Size != nil && *config.Size >= 0 {
		size = *config.Size
	}
	if config.Seed != nil || config.Size != nil {
		h.feed.regenerate(seed, size)
		log.Info().Int64("seed", seed).Int("size", size).Msg("Regenerated feed")
	}

	if config.FailureRate != nil && *config.FailureRate >= 0 && *config.FailureRate <= 1.0 {
		h.feed.mu.Lock()
		h.feed.failureRate = *config.FailureRate
		h.feed.mu.Unlock()
		log.Info().Float64("rate", *config.FailureRate).Msg("Updated failure rate")
	}

	h.feed.mu.RLock()
	defer h.feed.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{
		"seed":         h.feed.seed,
		"size":         h.feed.size,
		"failure_rate": h.feed.failureRate,
	})
}

// SetupRouter configures all routes
func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request processed")
	})

	// same path as the public feed bucket
	router.GET("/roxiler.com/product_transaction.json", handler.GetFeed)
	router.GET("/product_transaction.json", handler.GetFeed)
	router.GET("/health", handler.HealthCheck)
	router.PUT("/config", handler.UpdateConfig)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := getEnv("PORT", "8081")
	seed := getEnvInt("FEED_SEED", 42)
	size := getEnvInt("FEED_SIZE", 60)
	failureRate := getEnvFloat("FAILURE_RATE", 0)

	log.Info().
		Str("port", port).
		Int64("seed", seed).
		Int64("size", size).
		Float64("failure_rate", failureRate).
		Msg("Starting mock transaction feed")

	feed := NewMockFeed(seed, int(size), failureRate)
	router := SetupRouter(NewHandler(feed))

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
