package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/nimasrn/transaction-dashboard/internal/model"
	"golang.org/x/sync/errgroup"
)

// DashboardService assembles the combined month view out of the list and
// aggregate operations. It has no aggregation logic of its own.
type DashboardService struct {
	transactions *TransactionService
	aggregations *AggregationService
}

func NewDashboardService(transactions *TransactionService, aggregations *AggregationService) *DashboardService {
	return &DashboardService{
		transactions: transactions,
		aggregations: aggregations,
	}
}

// Combined runs the four sub-operations for month concurrently. Statistics
// carries the no-data message exactly as the stats operation reports it;
// every other failure fails the whole result.
func (s *DashboardService) Combined(ctx context.Context, month int) (*model.CombinedData, error) {
	var out model.CombinedData

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := s.transactions.List(gctx, BuildFilter(ListParams{Month: strconv.Itoa(month)}))
		out.Transactions = page
		return err
	})
	g.Go(func() error {
		stats, err := s.aggregations.Statistics(gctx, month)
		switch {
		case errors.Is(err, ErrNoData):
			out.Statistics = model.Message{Message: NoDataMessage}
			return nil
		case err != nil:
			return err
		}
		out.Statistics = stats
		return nil
	})
	g.Go(func() error {
		bars, err := s.aggregations.BarChart(gctx, month)
		out.BarChartData = bars
		return err
	})
	g.Go(func() error {
		pie, err := s.aggregations.PieChart(gctx, month)
		out.PieChartData = pie
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
