package services

import (
	"context"
	"errors"

	"github.com/nimasrn/transaction-dashboard/internal/model"
	"github.com/nimasrn/transaction-dashboard/internal/repository"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type TransactionRepository interface {
	List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, int64, error) // results, totalCount
	GetByExternalID(ctx context.Context, id int64) (*model.Transaction, error)
}

type TransactionService struct {
	repo TransactionRepository
}

func NewTransactionService(repo TransactionRepository) *TransactionService {
	return &TransactionService{
		repo: repo,
	}
}

func (s *TransactionService) List(ctx context.Context, f model.TransactionFilter) (*model.TransactionPage, error) {
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*model.Transaction{}
	}
	return &model.TransactionPage{Transactions: items, Total: total}, nil
}

func (s *TransactionService) GetByID(ctx context.Context, id int64) (*model.Transaction, error) {
	txn, err := s.repo.GetByExternalID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTransactionNotFound
	}
	return txn, err
}
