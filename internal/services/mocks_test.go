package services

import (
	"context"

	"github.com/nimasrn/transaction-dashboard/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) GetByExternalID(ctx context.Context, id int64) (*model.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

type MockAggregateRepository struct {
	mock.Mock
}

func (m *MockAggregateRepository) Statistics(ctx context.Context, month int) (model.Statistics, error) {
	args := m.Called(ctx, month)
	return args.Get(0).(model.Statistics), args.Error(1)
}

func (m *MockAggregateRepository) CountByPriceRange(ctx context.Context, month int, pr model.PriceRange) (int64, error) {
	args := m.Called(ctx, month, pr.Label)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAggregateRepository) CountBySold(ctx context.Context, month int, sold bool) (int64, error) {
	args := m.Called(ctx, month, sold)
	return args.Get(0).(int64), args.Error(1)
}

type MockFeedFetcher struct {
	mock.Mock
}

func (m *MockFeedFetcher) Fetch(ctx context.Context) ([]model.FeedTransaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FeedTransaction), args.Error(1)
}

type MockTransactionWriter struct {
	mock.Mock
}

func (m *MockTransactionWriter) ReplaceAll(ctx context.Context, txns []*model.Transaction) error {
	args := m.Called(ctx, txns)
	return args.Error(0)
}

type MockCacheInvalidator struct {
	mock.Mock
}

func (m *MockCacheInvalidator) Invalidate() error {
	return m.Called().Error(0)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
