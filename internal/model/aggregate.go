package model

import (
	"math"
	"strconv"
)

type Statistics struct {
	TotalSale         float64 `json:"totalSale"`
	TotalSoldItems    int64   `json:"totalSoldItems"`
	TotalNotSoldItems int64   `json:"totalNotSoldItems"`
}

// Count is the number of records the statistics were computed over.
func (s Statistics) Count() int64 {
	return s.TotalSoldItems + s.TotalNotSoldItems
}

// PriceRange is one histogram band. Min is exclusive except for the first
// band, Max is inclusive; an infinite Max marks the open top band.
type PriceRange struct {
	Label string
	Min   float64
	Max   float64
	First bool
}

func (r PriceRange) Unbounded() bool {
	return math.IsInf(r.Max, 1)
}

// Contains reports whether price falls in the band.
func (r PriceRange) Contains(price float64) bool {
	if r.First {
		if price < r.Min {
			return false
		}
	} else if price <= r.Min {
		return false
	}
	return r.Unbounded() || price <= r.Max
}

// PriceRanges are the fixed histogram bands 0-100, 101-200, ... 901-above.
var PriceRanges = buildPriceRanges(100, 10)

func buildPriceRanges(width float64, n int) []PriceRange {
	ranges := make([]PriceRange, 0, n)
	for i := 0; i < n; i++ {
		lo := float64(i) * width
		r := PriceRange{Min: lo, Max: lo + width, First: i == 0}
		labelLo := int(lo)
		if i > 0 {
			labelLo++
		}
		if i == n-1 {
			r.Max = math.Inf(1)
			r.Label = strconv.Itoa(labelLo) + "-above"
		} else {
			r.Label = strconv.Itoa(labelLo) + "-" + strconv.Itoa(int(lo+width))
		}
		ranges = append(ranges, r)
	}
	return ranges
}

type BarChartEntry struct {
	Range string `json:"range"`
	Count int64  `json:"count"`
}

type PieChart struct {
	Sold    int64 `json:"sold"`
	NotSold int64 `json:"notSold"`
}

type Message struct {
	Message string `json:"message"`
}

// CombinedData merges the list, statistics, bar chart and pie chart results
// of a single month. Statistics holds either *Statistics or a Message when
// the month has no data.
type CombinedData struct {
	Transactions *TransactionPage `json:"transactions"`
	Statistics   any              `json:"statistics"`
	BarChartData []BarChartEntry  `json:"barChartData"`
	PieChartData *PieChart        `json:"pieChartData"`
}
