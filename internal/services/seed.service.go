package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nimasrn/transaction-dashboard/internal/model"
	"github.com/nimasrn/transaction-dashboard/pkg/logger"
	"github.com/nimasrn/transaction-dashboard/pkg/prom"
)

type FeedFetcher interface {
	Fetch(ctx context.Context) ([]model.FeedTransaction, error)
}

type TransactionWriter interface {
	ReplaceAll(ctx context.Context, txns []*model.Transaction) error
}

type CacheInvalidator interface {
	Invalidate() error
}

type SeedService struct {
	feed        FeedFetcher
	repo        TransactionWriter
	invalidator CacheInvalidator
}

// NewSeedService builds the seeder; invalidator may be nil.
func NewSeedService(feed FeedFetcher, repo TransactionWriter, invalidator CacheInvalidator) *SeedService {
	return &SeedService{
		feed:        feed,
		repo:        repo,
		invalidator: invalidator,
	}
}

// Seed replaces the whole store with the current feed contents and returns
// the number of records written. Any failure aborts the run; nothing is
// retried.
func (s *SeedService) Seed(ctx context.Context) (int, error) {
	start := time.Now()

	items, err := s.feed.Fetch(ctx)
	if err != nil {
		prom.IncSeedFailure()
		return 0, fmt.Errorf("fetch feed: %w", err)
	}

	txns := make([]*model.Transaction, 0, len(items))
	for _, item := range items {
		txns = append(txns, item.ToTransaction())
	}

	if err := s.repo.ReplaceAll(ctx, txns); err != nil {
		prom.IncSeedFailure()
		return 0, fmt.Errorf("replace transactions: %w", err)
	}

	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(); err != nil {
			logger.Warn("failed to invalidate aggregate cache after seeding", "error", err)
		}
	}

	prom.AddSeedRecords(len(txns))
	logger.Info("database seeded", "records", len(txns), "took", time.Since(start).String())
	return len(txns), nil
}
