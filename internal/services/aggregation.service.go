package services

import (
	"context"
	"errors"

	"github.com/nimasrn/transaction-dashboard/internal/model"
	"github.com/nimasrn/transaction-dashboard/pkg/logger"
	"github.com/nimasrn/transaction-dashboard/pkg/prom"
	"golang.org/x/sync/errgroup"
)

const (
	NoDataMessage = "No data found for the selected month"

	kindStatistics = "stats"
	kindBarChart   = "bar"
	kindPieChart   = "pie"

	defaultBandConcurrency = 4
)

var ErrNoData = errors.New("no data found for the selected month")

type AggregateRepository interface {
	Statistics(ctx context.Context, month int) (model.Statistics, error)
	CountByPriceRange(ctx context.Context, month int, pr model.PriceRange) (int64, error)
	CountBySold(ctx context.Context, month int, sold bool) (int64, error)
}

// AggregateCache is an optional read-through cache for per-month results.
type AggregateCache interface {
	Get(kind string, month int, dst any) (key string, hit bool, err error)
	Set(key string, v any) error
}

type AggregationService struct {
	repo            AggregateRepository
	cache           AggregateCache
	bandConcurrency int
}

// NewAggregationService builds the service; cache may be nil.
func NewAggregationService(repo AggregateRepository, cache AggregateCache) *AggregationService {
	return &AggregationService{
		repo:            repo,
		cache:           cache,
		bandConcurrency: defaultBandConcurrency,
	}
}

// Statistics returns the sale total and sold split of month, or ErrNoData
// when the month holds no records.
func (s *AggregationService) Statistics(ctx context.Context, month int) (*model.Statistics, error) {
	return readThrough(s.cache, kindStatistics, month, func() (*model.Statistics, bool, error) {
		stats, err := s.repo.Statistics(ctx, month)
		if err != nil {
			return nil, false, err
		}
		if stats.Count() == 0 {
			return nil, false, ErrNoData
		}
		return &stats, true, nil
	})
}

// BarChart counts the records of month per price band. Bands are counted
// concurrently; a band whose count fails is reported as zero and the rest
// are unaffected.
func (s *AggregationService) BarChart(ctx context.Context, month int) ([]model.BarChartEntry, error) {
	return readThrough(s.cache, kindBarChart, month, func() ([]model.BarChartEntry, bool, error) {
		entries := make([]model.BarChartEntry, len(model.PriceRanges))
		failed := make([]bool, len(model.PriceRanges))

		var g errgroup.Group
		g.SetLimit(s.bandConcurrency)
		for i, pr := range model.PriceRanges {
			i, pr := i, pr
			entries[i].Range = pr.Label
			g.Go(func() error {
				count, err := s.repo.CountByPriceRange(ctx, month, pr)
				if err != nil {
					logger.Error("failed counting price range", "range", pr.Label, "month", month, "error", err)
					prom.IncBandFailure(pr.Label)
					failed[i] = true
					return nil
				}
				entries[i].Count = count
				return nil
			})
		}
		_ = g.Wait()

		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		cacheable := true
		for _, f := range failed {
			if f {
				cacheable = false
				break
			}
		}
		return entries, cacheable, nil
	})
}

// PieChart counts sold and unsold records of month concurrently.
func (s *AggregationService) PieChart(ctx context.Context, month int) (*model.PieChart, error) {
	return readThrough(s.cache, kindPieChart, month, func() (*model.PieChart, bool, error) {
		var pie model.PieChart

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			n, err := s.repo.CountBySold(gctx, month, true)
			pie.Sold = n
			return err
		})
		g.Go(func() error {
			n, err := s.repo.CountBySold(gctx, month, false)
			pie.NotSold = n
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, false, err
		}
		return &pie, true, nil
	})
}

// readThrough serves kind/month from cache when possible. compute reports
// whether its result may be cached. The result is stored under the key
// resolved before computing, so a reseed that lands meanwhile orphans it.
// Cache failures only cost a recompute.
func readThrough[T any](cache AggregateCache, kind string, month int, compute func() (T, bool, error)) (T, error) {
	if cache == nil {
		v, _, err := compute()
		return v, err
	}

	var cached T
	key, hit, err := cache.Get(kind, month, &cached)
	if err != nil {
		logger.Warn("aggregate cache read failed", "kind", kind, "month", month, "error", err)
	}
	prom.IncCacheLookup(kind, hit)
	if hit {
		return cached, nil
	}

	v, cacheable, err := compute()
	if err != nil || !cacheable || key == "" {
		return v, err
	}
	if err := cache.Set(key, v); err != nil {
		logger.Warn("aggregate cache write failed", "kind", kind, "month", month, "error", err)
	}
	return v, nil
}
