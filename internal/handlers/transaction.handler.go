package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/nimasrn/transaction-dashboard/internal/model"
	"github.com/nimasrn/transaction-dashboard/internal/services"
	xhttp "github.com/nimasrn/transaction-dashboard/pkg/http"
	"github.com/nimasrn/transaction-dashboard/pkg/logger"
)

type TransactionService interface {
	List(ctx context.Context, f model.TransactionFilter) (*model.TransactionPage, error)
	GetByID(ctx context.Context, id int64) (*model.Transaction, error)
}

type AggregationService interface {
	Statistics(ctx context.Context, month int) (*model.Statistics, error)
	BarChart(ctx context.Context, month int) ([]model.BarChartEntry, error)
	PieChart(ctx context.Context, month int) (*model.PieChart, error)
}

type DashboardService interface {
	Combined(ctx context.Context, month int) (*model.CombinedData, error)
}

type TransactionHandler struct {
	transactions TransactionService
	aggregations AggregationService
	dashboard    DashboardService
}

func RegisterTransactionRoutes(e *xhttp.Group, h *TransactionHandler) {
	e.GET("/transactions", h.ListTransactions)
	e.GET("/transactions/stats", h.GetStatistics)
	e.GET("/transactions/bar-chart", h.GetBarChart)
	e.GET("/transactions/pie-chart", h.GetPieChart)
	e.GET("/transactions/combined-data", h.GetCombinedData)
	e.GET("/transactions/{id}", h.GetTransaction)
}

func NewTransactionHandler(transactions TransactionService, aggregations AggregationService, dashboard DashboardService) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		aggregations: aggregations,
		dashboard:    dashboard,
	}
}

/* --------------------------------- Routes ----------------------------------- */

func (h *TransactionHandler) ListTransactions(ctx *xhttp.RequestCtx) {
	f := services.BuildFilter(services.ListParams{
		Search:  query(ctx, "search"),
		Month:   query(ctx, "month"),
		Page:    query(ctx, "page"),
		PerPage: query(ctx, "perPage"),
	})

	page, err := h.transactions.List(ctx, f)
	if err != nil {
		logger.Error("error fetching transactions", "error", err)
		writeText(ctx, 500, "Error fetching transactions")
		return
	}
	writeJSON(ctx, 200, page)
}

func (h *TransactionHandler) GetStatistics(ctx *xhttp.RequestCtx) {
	month, ok := requireMonth(ctx, "Month is required for statistics")
	if !ok {
		return
	}

	stats, err := h.aggregations.Statistics(ctx, month)
	if err != nil {
		if errors.Is(err, services.ErrNoData) {
			writeMessage(ctx, 404, services.NoDataMessage)
			return
		}
		logger.Error("error fetching statistics", "month", month, "error", err)
		writeText(ctx, 500, "Error fetching statistics")
		return
	}
	writeJSON(ctx, 200, stats)
}

func (h *TransactionHandler) GetBarChart(ctx *xhttp.RequestCtx) {
	month, ok := requireMonth(ctx, "Month is required for chart data")
	if !ok {
		return
	}

	entries, err := h.aggregations.BarChart(ctx, month)
	if err != nil {
		logger.Error("error fetching chart data", "month", month, "error", err)
		writeMessage(ctx, 500, "Internal server error")
		return
	}
	writeJSON(ctx, 200, entries)
}

func (h *TransactionHandler) GetPieChart(ctx *xhttp.RequestCtx) {
	month, ok := requireMonth(ctx, "Month is required for pie chart data")
	if !ok {
		return
	}

	pie, err := h.aggregations.PieChart(ctx, month)
	if err != nil {
		logger.Error("error fetching pie chart data", "month", month, "error", err)
		writeText(ctx, 500, "Error fetching pie chart data")
		return
	}
	writeJSON(ctx, 200, pie)
}

func (h *TransactionHandler) GetCombinedData(ctx *xhttp.RequestCtx) {
	month, ok := requireMonth(ctx, "Month is required for the combined response")
	if !ok {
		return
	}

	data, err := h.dashboard.Combined(ctx, month)
	if err != nil {
		logger.Error("error fetching combined data", "month", month, "error", err)
		writeMessage(ctx, 500, "Internal server error while fetching combined data")
		return
	}
	writeJSON(ctx, 200, data)
}

func (h *TransactionHandler) GetTransaction(ctx *xhttp.RequestCtx) {
	// ids are integers; anything else cannot match a record
	id, err := strconv.ParseInt(pathParam(ctx, "id"), 10, 64)
	if err != nil {
		writeMessage(ctx, 404, "Transaction not found")
		return
	}

	txn, err := h.transactions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrTransactionNotFound) {
			writeMessage(ctx, 404, "Transaction not found")
			return
		}
		logger.Error("error fetching transaction", "id", id, "error", err)
		writeText(ctx, 500, "Error fetching transaction")
		return
	}
	writeJSON(ctx, 200, txn)
}

// requireMonth answers 400 itself when month is missing or not an integer.
func requireMonth(ctx *xhttp.RequestCtx, missingMsg string) (int, bool) {
	month, err := services.ParseMonth(query(ctx, "month"))
	switch {
	case errors.Is(err, services.ErrMonthRequired):
		writeMessage(ctx, 400, missingMsg)
		return 0, false
	case err != nil:
		writeMessage(ctx, 400, "Month must be a valid integer")
		return 0, false
	}
	return month, true
}
