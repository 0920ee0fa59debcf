package alerts

import (
	"fmt"
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

func TestBudgetExceeded(t *testing.T) {
	txs := domain.Normalize([]domain.Transaction{
		tx("2025-06-05", "Grocery", -150, domain.CategoryFood),
		tx("2025-06-12", "Restaurant", -100, domain.CategoryFood),
	})
	budgets := domain.Budgets{domain.CategoryFood: 200}

	got := Generate(txs, budgets, mustDate("2025-06-15"))

	require.Len(t, got, 1)
	assert.Equal(t, TypeBudgetExceeded, got[0].Type)
	assert.Equal(t, SeverityHigh, got[0].Severity)
	assert.Equal(t, domain.CategoryFood, got[0].Category)
	assert.Equal(t, 250.0, got[0].Amount)
	assert.InDelta(t, 125, got[0].Percentage, 1e-9)
}

func TestBudgetWarning(t *testing.T) {
	txs := domain.Normalize([]domain.Transaction{
		tx("2025-06-05", "Grocery", -100, domain.CategoryFood),
		tx("2025-06-12", "Restaurant", -70, domain.CategoryFood),
	})
	budgets := domain.Budgets{domain.CategoryFood: 200}

	got := Generate(txs, budgets, mustDate("2025-06-15"))

	require.Len(t, got, 1)
	assert.Equal(t, TypeBudgetWarning, got[0].Type)
	assert.Equal(t, SeverityMedium, got[0].Severity)
	assert.InDelta(t, 85, got[0].Percentage, 1e-9)
}

// A tripled month triggers the spike, category overspend and trend
// checks at once; the merged list must come back in priority order.
func TestSpendingSpikeOrdering(t *testing.T) {
	var txs []domain.Transaction
	for m := 1; m <= 5; m++ {
		txs = append(txs, tx(fmt.Sprintf("2025-%02d-10", m), "Grocery", -100, domain.CategoryFood))
	}
	txs = append(txs,
		tx("2025-06-03", "Grocery", -150, domain.CategoryFood),
		tx("2025-06-17", "Grocery", -150, domain.CategoryFood),
	)
	txs = domain.Normalize(txs)

	got := Generate(txs, nil, mustDate("2025-06-20"))

	require.Len(t, got, 3)
	assert.Equal(t, TypeSpendingSpike, got[0].Type)
	assert.Equal(t, SeverityHigh, got[0].Severity)
	assert.InDelta(t, 200, got[0].Percentage, 1e-9)

	assert.Equal(t, TypeCategoryOverspend, got[1].Type)
	assert.Equal(t, domain.CategoryFood, got[1].Category)

	assert.Equal(t, TypeUpwardTrend, got[2].Type)
}

func TestUnusualTransaction(t *testing.T) {
	var txs []domain.Transaction
	for m := 1; m <= 5; m++ {
		txs = append(txs,
			tx(fmt.Sprintf("2025-%02d-10", m), "Grocery", -200, domain.CategoryFood),
			tx(fmt.Sprintf("2025-%02d-24", m), "Grocery", -200, domain.CategoryFood),
		)
	}
	txs = append(txs, tx("2025-06-08", "Jewelry Boutique", -450, domain.CategoryFood))
	txs = domain.Normalize(txs)

	got := Generate(txs, nil, mustDate("2025-06-20"))

	require.Len(t, got, 1)
	assert.Equal(t, TypeUnusualTx, got[0].Type)
	assert.Equal(t, SeverityMedium, got[0].Severity)
	assert.Equal(t, 450.0, got[0].Amount)
	assert.Equal(t, "Jewelry Boutique", got[0].Description)
	assert.Equal(t, "2025-06-08", got[0].Date)
	assert.InDelta(t, 3.015, got[0].ZScore, 0.01)
}

func TestMissingRecurring(t *testing.T) {
	txs := domain.Normalize([]domain.Transaction{
		tx("2025-01-05", "Netflix Subscription", -15.99, domain.CategoryBills),
		tx("2025-02-05", "Netflix Subscription", -15.99, domain.CategoryBills),
		tx("2025-03-05", "Netflix Subscription", -15.99, domain.CategoryBills),
	})

	got := Generate(txs, nil, mustDate("2025-05-15"))

	require.Len(t, got, 1)
	assert.Equal(t, TypeMissingRecurring, got[0].Type)
	assert.Equal(t, SeverityLow, got[0].Severity)
	assert.Equal(t, "Netflix Subscription", got[0].Description)
	assert.Equal(t, "2025-03-05", got[0].Date)
	assert.Equal(t, 71, got[0].DaysSince)
}

func TestRecurringNotOverdue(t *testing.T) {
	txs := domain.Normalize([]domain.Transaction{
		tx("2025-03-05", "Netflix Subscription", -15.99, domain.CategoryBills),
		tx("2025-04-05", "Netflix Subscription", -15.99, domain.CategoryBills),
		tx("2025-05-05", "Netflix Subscription", -15.99, domain.CategoryBills),
	})
	assert.Empty(t, checkMissingRecurring(txs, mustDate("2025-05-20")))
}

func TestGenerateEmpty(t *testing.T) {
	assert.Empty(t, Generate(nil, nil, time.Now()))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Alert{
		{Type: TypeBudgetExceeded, Severity: SeverityHigh},
		{Type: TypeBudgetWarning, Severity: SeverityMedium},
		{Type: TypeMissingRecurring, Severity: SeverityLow},
		{Type: TypeMissingRecurring, Severity: SeverityLow},
	})

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.High)
	assert.Equal(t, 1, s.Medium)
	assert.Equal(t, 2, s.Low)
	assert.Equal(t, 2, s.AlertTypes[TypeMissingRecurring])
}
