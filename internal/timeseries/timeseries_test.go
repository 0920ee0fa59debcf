package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namrata251104/AI-FinancePilot/internal/domain"
)

func tx(date string, amount float64) domain.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return domain.Transaction{Date: d, Description: "test", Amount: amount}
}

func TestAggregate(t *testing.T) {
	txs := domain.Normalize([]domain.Transaction{
		tx("2025-02-10", -50),
		tx("2025-01-05", 1000),
		tx("2025-01-20", -200),
		tx("2025-02-01", 800),
	})

	aggs := Aggregate(txs)
	require.Len(t, aggs, 2)

	assert.Equal(t, domain.MonthPeriod("2025-01"), aggs[0].Period)
	assert.Equal(t, 1000.0, aggs[0].Income)
	assert.Equal(t, 200.0, aggs[0].Expense)
	assert.Equal(t, 2, aggs[0].Count)

	assert.Equal(t, domain.MonthPeriod("2025-02"), aggs[1].Period)
	assert.Equal(t, 800.0, aggs[1].Income)
	assert.Equal(t, 50.0, aggs[1].Expense)
}

func TestMonthlySeries(t *testing.T) {
	txs := domain.Normalize([]domain.Transaction{
		tx("2025-01-05", -100),
		tx("2025-01-15", -50),
		tx("2025-02-05", -75),
		tx("2025-01-10", 2000),
	})

	expenses := MonthlyExpenses(txs)
	require.Len(t, expenses, 2)
	assert.Equal(t, 150.0, expenses[0].Value)
	assert.Equal(t, 75.0, expenses[1].Value)

	income := MonthlyIncome(txs)
	require.Len(t, income, 1)
	assert.Equal(t, 2000.0, income[0].Value)

	// Months without activity in the series simply don't appear.
	assert.Empty(t, MonthlyCategoryExpenses(txs, domain.CategoryTravel))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 20.0, Mean([]float64{10, 20, 30}))
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{42}))
	// Sample standard deviation, n-1 denominator.
	assert.InDelta(t, 12.909944, StdDev([]float64{10, 20, 30, 40}), 1e-6)
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.Equal(t, 0.0, CoefficientOfVariation([]float64{-10, 10}))
	assert.InDelta(t, 0.516398, CoefficientOfVariation([]float64{100, 200, 300, 400}), 1e-6)
}

func TestLinearFit(t *testing.T) {
	tests := []struct {
		name      string
		ys        []float64
		slope     float64
		intercept float64
	}{
		{"empty", nil, 0, 0},
		{"single point", []float64{5}, 0, 5},
		{"flat", []float64{100, 100, 100}, 0, 100},
		{"linear", []float64{100, 200, 300, 400}, 100, 100},
		{"decreasing", []float64{400, 300, 200, 100}, -100, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slope, intercept := LinearFit(tt.ys)
			assert.InDelta(t, tt.slope, slope, 1e-9)
			assert.InDelta(t, tt.intercept, intercept, 1e-9)
		})
	}
}
