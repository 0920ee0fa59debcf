package domain

import (
	"math"
	"time"
)

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TypeCredit TransactionType = "credit"
	TypeDebit  TransactionType = "debit"
)

// The fixed category taxonomy. Every transaction carries exactly one of
// these labels; CategoryOther is the default until categorization runs.
const (
	CategoryFood          = "Food & Dining"
	CategoryTransport     = "Transportation"
	CategoryShopping      = "Shopping"
	CategoryBills         = "Bills & Utilities"
	CategoryEntertainment = "Entertainment"
	CategoryHealth        = "Health & Medical"
	CategoryTravel        = "Travel"
	CategoryEducation     = "Education"
	CategoryInsurance     = "Insurance"
	CategoryInvestment    = "Investment"
	CategoryIncome        = "Income"
	CategoryTransfer      = "Transfer"
	CategoryOther         = "Other"
)

// Categories returns the taxonomy in its canonical order.
func Categories() []string {
	return []string{
		CategoryFood,
		CategoryTransport,
		CategoryShopping,
		CategoryBills,
		CategoryEntertainment,
		CategoryHealth,
		CategoryTravel,
		CategoryEducation,
		CategoryInsurance,
		CategoryInvestment,
		CategoryIncome,
		CategoryTransfer,
		CategoryOther,
	}
}

// MonthPeriod is a year+month grouping key in "YYYY-MM" form. The string
// form sorts chronologically, which every monthly aggregation relies on.
type MonthPeriod string

// MonthPeriodOf returns the period the given time falls in.
func MonthPeriodOf(t time.Time) MonthPeriod {
	return MonthPeriod(t.Format("2006-01"))
}

// Time returns the first day of the period at midnight UTC.
func (p MonthPeriod) Time() time.Time {
	t, err := time.Parse("2006-01", string(p))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddMonths returns the period n months after p.
func (p MonthPeriod) AddMonths(n int) MonthPeriod {
	return MonthPeriodOf(p.Time().AddDate(0, n, 0))
}

// Transaction is one financial event from a cleaned statement.
// Amount is signed: negative for expenses/debits, positive for
// income/credits; zero amounts are dropped during ingestion.
// MonthPeriod, DayOfWeek, Type and AbsAmount are derived once by
// Normalize and treated as immutable afterwards.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Category    string          `json:"category"`
	MonthPeriod MonthPeriod     `json:"month_period"`
	DayOfWeek   time.Weekday    `json:"day_of_week"`
	Type        TransactionType `json:"transaction_type"`
	AbsAmount   float64         `json:"abs_amount"`
}

// IsExpense reports whether the transaction is money out.
func (t Transaction) IsExpense() bool { return t.Amount < 0 }

// IsIncome reports whether the transaction is money in.
func (t Transaction) IsIncome() bool { return t.Amount > 0 }

// Normalize fills the derived columns on every transaction and defaults
// missing categories to Other. It returns the same slice for convenience.
func Normalize(txs []Transaction) []Transaction {
	for i := range txs {
		tx := &txs[i]
		tx.MonthPeriod = MonthPeriodOf(tx.Date)
		tx.DayOfWeek = tx.Date.Weekday()
		if tx.Amount > 0 {
			tx.Type = TypeCredit
		} else {
			tx.Type = TypeDebit
		}
		tx.AbsAmount = math.Abs(tx.Amount)
		if tx.Category == "" {
			tx.Category = CategoryOther
		}
	}
	return txs
}

// Budgets maps a category label to its monthly ceiling. Categories
// absent from the map are simply not checked.
type Budgets map[string]float64
