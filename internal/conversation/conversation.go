// Package conversation answers natural-language questions about a
// transaction set. Queries are analyzed with keyword rules to pick an
// intent and time window, relevant summaries are assembled into a
// prompt for the language model, and a rule-based answer stands in
// whenever the model is unavailable.
package conversation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/namrata251104/AI-FinancePilot/internal/domain"
	"github.com/namrata251104/AI-FinancePilot/internal/timeseries"
)

// Intent classifies what the user is asking for.
type Intent string

const (
	IntentGeneral        Intent = "general"
	IntentSpending       Intent = "spending_analysis"
	IntentComparison     Intent = "comparison"
	IntentTrend          Intent = "trend_analysis"
	IntentCategory       Intent = "category_analysis"
	IntentRecommendation Intent = "recommendation"
)

// Period is a named time window relative to now.
type Period string

const (
	PeriodNone         Period = ""
	PeriodLastMonth    Period = "last_month"
	PeriodCurrentMonth Period = "current_month"
	PeriodLastYear     Period = "last_year"
	PeriodCurrentYear  Period = "current_year"
	PeriodLast6Months  Period = "last_6_months"
	PeriodLastWeek     Period = "last_week"
)

// Analysis is the structured reading of a user query.
type Analysis struct {
	Intent             Intent `json:"intent"`
	Period             Period `json:"time_period,omitempty"`
	Category           string `json:"category,omitempty"`
	NeedsCalculation   bool   `json:"needs_calculation"`
	NeedsVisualization bool   `json:"needs_visualization"`
}

var intentKeywords = []struct {
	intent        Intent
	keywords      []string
	calculation   bool
	visualization bool
}{
	{IntentSpending, []string{"how much", "total", "sum", "spent", "spend"}, true, false},
	{IntentComparison, []string{"compare", "comparison", "vs", "versus"}, true, false},
	{IntentTrend, []string{"trend", "pattern", "over time", "monthly"}, false, true},
	{IntentCategory, []string{"category", "categories", "type", "types"}, false, false},
	{IntentRecommendation, []string{"budget", "recommend", "advice", "suggest"}, false, false},
}

var periodPhrases = []struct {
	phrase string
	period Period
}{
	{"last month", PeriodLastMonth},
	{"this month", PeriodCurrentMonth},
	{"last year", PeriodLastYear},
	{"this year", PeriodCurrentYear},
	{"last 6 months", PeriodLast6Months},
	{"last week", PeriodLastWeek},
}

// AnalyzeQuery reads intent, time window and category out of a query.
// The first matching intent wins, in the fixed keyword-table order.
func AnalyzeQuery(query string) Analysis {
	lower := strings.ToLower(query)
	analysis := Analysis{Intent: IntentGeneral}

	for _, entry := range intentKeywords {
		if containsAny(lower, entry.keywords) {
			analysis.Intent = entry.intent
			analysis.NeedsCalculation = entry.calculation
			analysis.NeedsVisualization = entry.visualization
			break
		}
	}

	for _, entry := range periodPhrases {
		if strings.Contains(lower, entry.phrase) {
			analysis.Period = entry.period
			break
		}
	}

	for _, category := range domain.Categories() {
		if strings.Contains(lower, strings.ToLower(category)) {
			analysis.Category = category
			break
		}
	}
	return analysis
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// FilterByPeriod narrows a transaction set to a named window relative
// to now. An empty period returns the input unchanged.
func FilterByPeriod(txs []domain.Transaction, period Period, now time.Time) []domain.Transaction {
	var start, end time.Time
	switch period {
	case PeriodLastMonth:
		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		start = firstOfMonth.AddDate(0, -1, 0)
		end = firstOfMonth.AddDate(0, 0, -1)
	case PeriodCurrentMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = now
	case PeriodLastYear:
		start = time.Date(now.Year()-1, 1, 1, 0, 0, 0, 0, now.Location())
		end = time.Date(now.Year()-1, 12, 31, 23, 59, 59, 0, now.Location())
	case PeriodCurrentYear:
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		end = now
	case PeriodLast6Months:
		start = now.AddDate(0, 0, -180)
		end = now
	case PeriodLastWeek:
		start = now.AddDate(0, 0, -7)
		end = now
	default:
		return txs
	}

	var out []domain.Transaction
	for _, tx := range txs {
		if !tx.Date.Before(start) && !tx.Date.After(end) {
			out = append(out, tx)
		}
	}
	return out
}

// SpendingSummary totals income and expenses for the analyzed window
// and category.
func SpendingSummary(txs []domain.Transaction, analysis Analysis, now time.Time) string {
	filtered := FilterByPeriod(txs, analysis.Period, now)
	if analysis.Category != "" {
		var byCategory []domain.Transaction
		for _, tx := range filtered {
			if tx.Category == analysis.Category {
				byCategory = append(byCategory, tx)
			}
		}
		filtered = byCategory
	}

	var spent, income float64
	for _, tx := range filtered {
		if tx.IsExpense() {
			spent += tx.AbsAmount
		} else if tx.IsIncome() {
			income += tx.Amount
		}
	}

	var b strings.Builder
	b.WriteString("Spending Summary:\n")
	fmt.Fprintf(&b, "Total Expenses: $%.2f\n", spent)
	fmt.Fprintf(&b, "Total Income: $%.2f\n", income)
	fmt.Fprintf(&b, "Net: $%.2f\n", income-spent)
	fmt.Fprintf(&b, "Number of transactions: %d", len(filtered))
	return b.String()
}

// CategorySummary lists the five largest expense categories.
func CategorySummary(txs []domain.Transaction) string {
	spending := make(map[string]float64)
	for _, tx := range txs {
		if tx.IsExpense() {
			spending[tx.Category] += tx.AbsAmount
		}
	}
	if len(spending) == 0 {
		return "Category information not available."
	}

	type entry struct {
		category string
		amount   float64
	}
	entries := make([]entry, 0, len(spending))
	for c, a := range spending {
		entries = append(entries, entry{c, a})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].amount != entries[j].amount {
			return entries[i].amount > entries[j].amount
		}
		return entries[i].category < entries[j].category
	})
	if len(entries) > 5 {
		entries = entries[:5]
	}

	var b strings.Builder
	b.WriteString("Category Breakdown:")
	for _, e := range entries {
		fmt.Fprintf(&b, "\n- %s: $%.2f", e.category, e.amount)
	}
	return b.String()
}

// TrendSummary shows the last six months of spending and the latest
// month-over-month direction.
func TrendSummary(txs []domain.Transaction) string {
	series := timeseries.MonthlyExpenses(txs)

	var b strings.Builder
	b.WriteString("Monthly Spending Trend:")

	recent := series
	if len(recent) > 6 {
		recent = recent[len(recent)-6:]
	}
	for _, point := range recent {
		fmt.Fprintf(&b, "\n- %s: $%.2f", point.Period, point.Value)
	}

	if len(series) >= 2 {
		change := series[len(series)-1].Value - series[len(series)-2].Value
		direction := "decreasing"
		if change > 0 {
			direction = "increasing"
		}
		if change < 0 {
			change = -change
		}
		fmt.Fprintf(&b, "\nRecent trend: %s by $%.2f", direction, change)
	}
	return b.String()
}

// FallbackResponse answers without a model: a direct number for
// spending queries, the top category for category queries, and a
// generic nudge otherwise.
func FallbackResponse(analysis Analysis, txs []domain.Transaction, now time.Time) string {
	switch analysis.Intent {
	case IntentSpending:
		filtered := FilterByPeriod(txs, analysis.Period, now)
		var spent float64
		for _, tx := range filtered {
			if tx.IsExpense() && (analysis.Category == "" || tx.Category == analysis.Category) {
				spent += tx.AbsAmount
			}
		}
		periodText := "all time"
		if analysis.Period != PeriodNone {
			periodText = strings.ReplaceAll(string(analysis.Period), "_", " ")
		}
		categoryText := ""
		if analysis.Category != "" {
			categoryText = " on " + analysis.Category
		}
		return fmt.Sprintf("You spent $%.2f%s during %s.", spent, categoryText, periodText)

	case IntentCategory:
		if top := topExpenseCategory(txs); top != "" {
			return fmt.Sprintf("Your highest spending category is %s.", top)
		}
	}
	return "I can help you analyze your financial data. Please try rephrasing your question or upload your transaction data first."
}

// BudgetRecommendations derives budget advice from spending patterns.
func BudgetRecommendations(txs []domain.Transaction) []string {
	if len(txs) == 0 {
		return []string{"Upload transaction data to get personalized budget recommendations."}
	}

	var recs []string

	spending := make(map[string]float64)
	for _, tx := range txs {
		if tx.IsExpense() {
			spending[tx.Category] += tx.AbsAmount
		}
	}
	if top := topExpenseCategory(txs); top != "" {
		recs = append(recs, fmt.Sprintf(
			"Your highest spending is on %s ($%.2f). Consider setting a monthly budget for this category.",
			top, spending[top]))
	}

	monthly := timeseries.MonthlyExpenses(txs)
	if len(monthly) >= 2 {
		change := monthly[len(monthly)-1].Value - monthly[len(monthly)-2].Value
		if change > 0 {
			recs = append(recs, fmt.Sprintf(
				"Your spending increased by $%.2f last month. Consider reviewing your recent purchases.", change))
		} else {
			recs = append(recs, fmt.Sprintf(
				"Good job! You reduced spending by $%.2f last month.", -change))
		}
	}

	avg := timeseries.Mean(timeseries.Values(monthly))
	recs = append(recs, fmt.Sprintf(
		"Your average monthly spending is $%.2f. Consider setting aside 20%% of your income for savings.", avg))
	return recs
}

func topExpenseCategory(txs []domain.Transaction) string {
	spending := make(map[string]float64)
	for _, tx := range txs {
		if tx.IsExpense() {
			spending[tx.Category] += tx.AbsAmount
		}
	}
	top, best := "", 0.0
	for _, category := range domain.Categories() {
		if amount := spending[category]; amount > best {
			top, best = category, amount
		}
	}
	return top
}
