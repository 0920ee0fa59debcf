package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namrata251104/AI-FinancePilot/internal/domain"
)

func tx(date, desc string, amount float64, category string) domain.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return domain.Transaction{Date: d, Description: desc, Amount: amount, Category: category}
}

func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleTxs() []domain.Transaction {
	return domain.Normalize([]domain.Transaction{
		tx("2025-05-10", "Grocery", -300, domain.CategoryFood),
		tx("2025-05-12", "Pay", 2000, domain.CategoryIncome),
		tx("2025-06-05", "Grocery", -100, domain.CategoryFood),
		tx("2025-06-08", "Movie Night", -40, domain.CategoryEntertainment),
	})
}

func TestAnalyzeQuery(t *testing.T) {
	tests := []struct {
		query    string
		intent   Intent
		period   Period
		category string
	}{
		{"How much did I spend last month?", IntentSpending, PeriodLastMonth, ""},
		{"Compare this month versus last year", IntentComparison, PeriodCurrentMonth, ""},
		{"Show me the pattern over time", IntentTrend, PeriodNone, ""},
		{"Which categories do I use most?", IntentCategory, PeriodNone, ""},
		{"Can you recommend a budget?", IntentRecommendation, PeriodNone, ""},
		{"Hello there", IntentGeneral, PeriodNone, ""},
		{"How much did I spend on Travel this month?", IntentSpending, PeriodCurrentMonth, domain.CategoryTravel},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			a := AnalyzeQuery(tt.query)
			assert.Equal(t, tt.intent, a.Intent)
			assert.Equal(t, tt.period, a.Period)
			assert.Equal(t, tt.category, a.Category)
		})
	}
}

func TestAnalyzeQueryFlags(t *testing.T) {
	a := AnalyzeQuery("What is the total I spent?")
	assert.True(t, a.NeedsCalculation)
	assert.False(t, a.NeedsVisualization)

	a = AnalyzeQuery("Show the trend")
	assert.False(t, a.NeedsCalculation)
	assert.True(t, a.NeedsVisualization)
}

func TestFilterByPeriod(t *testing.T) {
	txs := sampleTxs()
	now := mustDate("2025-06-15")

	current := FilterByPeriod(txs, PeriodCurrentMonth, now)
	require.Len(t, current, 2)
	assert.Equal(t, "Grocery", current[0].Description)

	last := FilterByPeriod(txs, PeriodLastMonth, now)
	require.Len(t, last, 2)
	assert.Equal(t, 2000.0, last[1].Amount)

	week := FilterByPeriod(txs, PeriodLastWeek, now)
	require.Len(t, week, 1)
	assert.Equal(t, "Movie Night", week[0].Description)

	// No period leaves the set untouched.
	assert.Len(t, FilterByPeriod(txs, PeriodNone, now), 4)
}

func TestSpendingSummary(t *testing.T) {
	got := SpendingSummary(sampleTxs(), Analysis{Period: PeriodCurrentMonth}, mustDate("2025-06-15"))

	assert.Contains(t, got, "Total Expenses: $140.00")
	assert.Contains(t, got, "Total Income: $0.00")
	assert.Contains(t, got, "Number of transactions: 2")
}

func TestSpendingSummaryCategoryFilter(t *testing.T) {
	got := SpendingSummary(sampleTxs(), Analysis{Category: domain.CategoryFood}, mustDate("2025-06-15"))
	assert.Contains(t, got, "Total Expenses: $400.00")
}

func TestCategorySummary(t *testing.T) {
	got := CategorySummary(sampleTxs())

	assert.Contains(t, got, "Category Breakdown:")
	assert.Contains(t, got, "- Food & Dining: $400.00")
	assert.Contains(t, got, "- Entertainment: $40.00")

	assert.Equal(t, "Category information not available.", CategorySummary(nil))
}

func TestTrendSummary(t *testing.T) {
	got := TrendSummary(sampleTxs())

	assert.Contains(t, got, "- 2025-05: $300.00")
	assert.Contains(t, got, "- 2025-06: $140.00")
	assert.Contains(t, got, "Recent trend: decreasing by $160.00")
}

func TestFallbackResponse(t *testing.T) {
	now := mustDate("2025-06-15")
	txs := sampleTxs()

	got := FallbackResponse(Analysis{Intent: IntentSpending}, txs, now)
	assert.Equal(t, "You spent $440.00 during all time.", got)

	got = FallbackResponse(Analysis{
		Intent:   IntentSpending,
		Period:   PeriodCurrentMonth,
		Category: domain.CategoryFood,
	}, txs, now)
	assert.Equal(t, "You spent $100.00 on Food & Dining during current month.", got)

	got = FallbackResponse(Analysis{Intent: IntentCategory}, txs, now)
	assert.Equal(t, "Your highest spending category is Food & Dining.", got)

	got = FallbackResponse(Analysis{Intent: IntentGeneral}, txs, now)
	assert.Contains(t, got, "rephrasing")
}

func TestBudgetRecommendations(t *testing.T) {
	recs := BudgetRecommendations(sampleTxs())

	require.Len(t, recs, 3)
	assert.Contains(t, recs[0], "Food & Dining ($400.00)")
	assert.Contains(t, recs[1], "reduced spending by $160.00")
	assert.Contains(t, recs[2], "average monthly spending is $220.00")

	empty := BudgetRecommendations(nil)
	require.Len(t, empty, 1)
	assert.Contains(t, empty[0], "Upload transaction data")
}
