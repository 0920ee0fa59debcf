// Package timeseries holds the monthly aggregation primitive shared by
// the scoring, forecasting and alerting engines, plus the small amount
// of statistics they need. Everything operates on plain float64 slices
// ordered by month period.
package timeseries

import (
	"math"
	"sort"

	"github.com/namrata251104/AI-FinancePilot/internal/domain"
)

// MonthlyAggregate summarizes one month period of a transaction table.
// Expense is stored as a positive magnitude.
type MonthlyAggregate struct {
	Period  domain.MonthPeriod `json:"period"`
	Income  float64            `json:"income"`
	Expense float64            `json:"expense"`
	Count   int                `json:"count"`
}

// Aggregate groups transactions by month period, sorted chronologically.
func Aggregate(txs []domain.Transaction) []MonthlyAggregate {
	byPeriod := make(map[domain.MonthPeriod]*MonthlyAggregate)
	for _, tx := range txs {
		agg, ok := byPeriod[tx.MonthPeriod]
		if !ok {
			agg = &MonthlyAggregate{Period: tx.MonthPeriod}
			byPeriod[tx.MonthPeriod] = agg
		}
		if tx.Amount > 0 {
			agg.Income += tx.Amount
		} else {
			agg.Expense += -tx.Amount
		}
		agg.Count++
	}

	out := make([]MonthlyAggregate, 0, len(byPeriod))
	for _, agg := range byPeriod {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// MonthValue is one point of a monthly series.
type MonthValue struct {
	Period domain.MonthPeriod `json:"period"`
	Value  float64            `json:"value"`
}

// MonthlyExpenses returns the total expense per month, for months that
// have at least one expense transaction.
func MonthlyExpenses(txs []domain.Transaction) []MonthValue {
	return monthlySums(txs, func(tx domain.Transaction) (float64, bool) {
		return tx.AbsAmount, tx.IsExpense()
	})
}

// MonthlyIncome returns the total income per month, for months that have
// at least one income transaction.
func MonthlyIncome(txs []domain.Transaction) []MonthValue {
	return monthlySums(txs, func(tx domain.Transaction) (float64, bool) {
		return tx.Amount, tx.IsIncome()
	})
}

// MonthlyCategoryExpenses returns the monthly expense totals for one
// category, again only for months where that category was spent in.
func MonthlyCategoryExpenses(txs []domain.Transaction, category string) []MonthValue {
	return monthlySums(txs, func(tx domain.Transaction) (float64, bool) {
		return tx.AbsAmount, tx.IsExpense() && tx.Category == category
	})
}

func monthlySums(txs []domain.Transaction, pick func(domain.Transaction) (float64, bool)) []MonthValue {
	sums := make(map[domain.MonthPeriod]float64)
	for _, tx := range txs {
		if v, ok := pick(tx); ok {
			sums[tx.MonthPeriod] += v
		}
	}
	out := make([]MonthValue, 0, len(sums))
	for period, v := range sums {
		out = append(out, MonthValue{Period: period, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// Values extracts the ordered value column of a monthly series.
func Values(points []MonthValue) []float64 {
	vs := make([]float64, len(points))
	for i, p := range points {
		vs[i] = p.Value
	}
	return vs
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev returns the sample standard deviation (n-1 denominator),
// or 0 when fewer than two values exist.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := Mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// CoefficientOfVariation returns stdev/mean, the consistency measure
// used across the scoring engines. A zero mean short-circuits to 0 so
// no caller ever sees NaN.
func CoefficientOfVariation(xs []float64) float64 {
	mean := Mean(xs)
	if mean == 0 {
		return 0
	}
	return StdDev(xs) / mean
}

// LinearFit fits an ordinary least-squares line over ys indexed
// 0..len(ys)-1 and returns its slope and intercept. A single point
// yields a flat line through it; an empty series yields zeros.
func LinearFit(ys []float64) (slope, intercept float64) {
	n := float64(len(ys))
	if n == 0 {
		return 0, 0
	}
	if n == 1 {
		return 0, ys[0]
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, Mean(ys)
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
