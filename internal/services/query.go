package services

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/nimasrn/transaction-dashboard/internal/model"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
)

var (
	ErrMonthRequired = errors.New("month is required")
	ErrInvalidMonth  = errors.New("month must be an integer")
)

// ListParams are the raw list query parameters as received.
type ListParams struct {
	Search  string
	Month   string
	Page    string
	PerPage string
}

// BuildFilter turns raw list parameters into a store filter. Unparseable
// values never fail: an invalid month drops the month filter and an invalid
// page or perPage falls back to its default. Parsed values are used as they
// are, without clamping.
func BuildFilter(p ListParams) model.TransactionFilter {
	var f model.TransactionFilter

	if price, ok := parseNumericSearch(p.Search); ok {
		f.Price = &price
	} else if p.Search != "" {
		search := p.Search
		f.Search = &search
	}

	if m, err := strconv.Atoi(strings.TrimSpace(p.Month)); err == nil {
		f.Month = &m
	}

	page := intOrDefault(p.Page, DefaultPage)
	perPage := intOrDefault(p.PerPage, DefaultPerPage)
	f.Offset = (page - 1) * perPage
	f.Limit = perPage

	return f
}

// ParseMonth validates the mandatory month parameter of the aggregate
// operations.
func ParseMonth(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrMonthRequired
	}
	m, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrInvalidMonth
	}
	return m, nil
}

func parseNumericSearch(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func intOrDefault(s string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return n
	}
	return def
}
