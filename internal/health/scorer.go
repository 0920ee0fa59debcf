// Package health computes the six-factor financial wellness score.
// Each component maps a statistic of the monthly aggregates onto a
// banded 0-100 scale; the total is the weighted sum. Components that
// need variance fall back to a neutral default below two months of
// data - no input ever makes the scorer fail.
package health

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/namrata251104/AI-FinancePilot/internal/domain"
	"github.com/namrata251104/AI-FinancePilot/internal/timeseries"
)

// Component names, also the keys of Score.Components.
const (
	SavingsRate         = "savings_rate"
	SpendingConsistency = "spending_consistency"
	CategoryBalance     = "category_balance"
	DebtManagement      = "debt_management"
	IncomeStability     = "income_stability"
	EmergencyFund       = "emergency_fund"
)

// componentOrder fixes iteration order wherever components are ranked
// or rendered; Go map iteration would otherwise make insights flap.
var componentOrder = []string{
	SavingsRate,
	SpendingConsistency,
	CategoryBalance,
	DebtManagement,
	IncomeStability,
	EmergencyFund,
}

// Weights of the six components; they sum to 1.0.
var Weights = map[string]float64{
	SavingsRate:         0.25,
	SpendingConsistency: 0.20,
	CategoryBalance:     0.15,
	DebtManagement:      0.15,
	IncomeStability:     0.15,
	EmergencyFund:       0.10,
}

// RecommendedRatios is the reference share of total spending per
// category used by the category-balance component.
var RecommendedRatios = map[string]float64{
	domain.CategoryFood:          0.15,
	domain.CategoryTransport:     0.15,
	domain.CategoryBills:         0.25,
	domain.CategoryEntertainment: 0.05,
	domain.CategoryShopping:      0.10,
	domain.CategoryHealth:        0.05,
}

// Keyword lists for the debt and emergency-fund components. Currency
// and locale sensitive; kept as configuration rather than literals.
var (
	DebtKeywords    = []string{"loan", "credit card", "mortgage", "debt", "interest"}
	SavingsKeywords = []string{"savings", "emergency", "fund", "investment"}
)

// Score is the result of one scoring run. It has no identity and is
// recomputed from scratch on every call.
type Score struct {
	Total      float64            `json:"total_score"`
	Components map[string]float64 `json:"component_scores"`
	Grade      string             `json:"grade"`
	Insights   []string           `json:"insights"`
	Tips       []string           `json:"improvement_tips"`
}

// Calculate scores the full transaction table.
func Calculate(txs []domain.Transaction) Score {
	components := map[string]float64{
		SavingsRate:         savingsRateScore(txs),
		SpendingConsistency: consistencyScore(txs),
		CategoryBalance:     categoryBalanceScore(txs),
		DebtManagement:      debtManagementScore(txs),
		IncomeStability:     incomeStabilityScore(txs),
		EmergencyFund:       emergencyFundScore(txs),
	}

	var total float64
	for name, score := range components {
		total += score * Weights[name]
	}
	total = math.Round(total*10) / 10

	return Score{
		Total:      total,
		Components: components,
		Grade:      Grade(total),
		Insights:   insights(components, txs),
		Tips:       improvementTips(components),
	}
}

// savingsRateScore bands the mean per-month savings rate. Months with
// no income are skipped; with none left the neutral 50 is returned.
func savingsRateScore(txs []domain.Transaction) float64 {
	var rates []float64
	for _, agg := range timeseries.Aggregate(txs) {
		if agg.Income <= 0 {
			continue
		}
		rate := (agg.Income - agg.Expense) / agg.Income * 100
		rates = append(rates, math.Max(0, rate))
	}
	if len(rates) == 0 {
		return 50.0
	}

	switch avg := timeseries.Mean(rates); {
	case avg >= 20:
		return 100.0
	case avg >= 15:
		return 85.0
	case avg >= 10:
		return 70.0
	case avg >= 5:
		return 55.0
	case avg >= 0:
		return 40.0
	default:
		return 20.0
	}
}

func consistencyScore(txs []domain.Transaction) float64 {
	expenses := timeseries.Values(timeseries.MonthlyExpenses(txs))
	if len(expenses) < 2 {
		return 75.0
	}

	switch cv := timeseries.CoefficientOfVariation(expenses); {
	case cv <= 0.1:
		return 100.0
	case cv <= 0.2:
		return 85.0
	case cv <= 0.3:
		return 70.0
	case cv <= 0.5:
		return 55.0
	default:
		return 40.0
	}
}

func categoryBalanceScore(txs []domain.Transaction) float64 {
	spending := categorySpending(txs)
	var total float64
	for _, amount := range spending {
		total += amount
	}
	if total == 0 {
		return 70.0
	}

	score := 100.0
	for category, recommended := range RecommendedRatios {
		amount, ok := spending[category]
		if !ok {
			continue
		}
		deviation := math.Abs(amount/total - recommended)
		score -= math.Min(30, deviation*200)
	}
	return math.Max(40.0, score)
}

func debtManagementScore(txs []domain.Transaction) float64 {
	var debtPayments, totalExpenses float64
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		totalExpenses += tx.AbsAmount
		if matchesAny(tx.Description, DebtKeywords) {
			debtPayments += tx.AbsAmount
		}
	}
	if totalExpenses == 0 {
		return 80.0
	}

	switch ratio := debtPayments / totalExpenses; {
	case ratio <= 0.1:
		return 100.0
	case ratio <= 0.2:
		return 85.0
	case ratio <= 0.3:
		return 70.0
	case ratio <= 0.4:
		return 55.0
	default:
		return 40.0
	}
}

func incomeStabilityScore(txs []domain.Transaction) float64 {
	income := timeseries.Values(timeseries.MonthlyIncome(txs))
	if len(income) < 2 {
		return 75.0
	}

	switch cv := timeseries.CoefficientOfVariation(income); {
	case cv <= 0.05:
		return 100.0
	case cv <= 0.1:
		return 85.0
	case cv <= 0.2:
		return 70.0
	case cv <= 0.3:
		return 55.0
	default:
		return 40.0
	}
}

// emergencyFundScore estimates how many months of average spending the
// savings-tagged deposits would cover.
func emergencyFundScore(txs []domain.Transaction) float64 {
	avgMonthlyExpense := timeseries.Mean(timeseries.Values(timeseries.MonthlyExpenses(txs)))
	if avgMonthlyExpense == 0 {
		return 70.0
	}

	var totalSavings float64
	for _, tx := range txs {
		if tx.IsIncome() && matchesAny(tx.Description, SavingsKeywords) {
			totalSavings += tx.Amount
		}
	}

	switch monthsCovered := totalSavings / avgMonthlyExpense; {
	case monthsCovered >= 6:
		return 100.0
	case monthsCovered >= 3:
		return 80.0
	case monthsCovered >= 1:
		return 60.0
	case monthsCovered >= 0.5:
		return 40.0
	default:
		return 20.0
	}
}

// Grade converts a total score into its letter grade.
func Grade(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 80:
		return "B+"
	case score >= 75:
		return "B"
	case score >= 70:
		return "C+"
	case score >= 65:
		return "C"
	case score >= 60:
		return "D+"
	case score >= 55:
		return "D"
	default:
		return "F"
	}
}

func insights(components map[string]float64, txs []domain.Transaction) []string {
	ranked := append([]string(nil), componentOrder...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return components[ranked[i]] > components[ranked[j]]
	})
	strongest := ranked[0]
	weakest := ranked[len(ranked)-1]

	out := []string{
		fmt.Sprintf("Your strongest area is %s (%.1f/100)", componentTitle(strongest), components[strongest]),
		fmt.Sprintf("Your weakest area is %s (%.1f/100)", componentTitle(weakest), components[weakest]),
	}

	if top, ok := topExpenseCategory(txs); ok {
		out = append(out, fmt.Sprintf("Your largest expense category is %s", top))
	}

	if expenses := timeseries.Values(timeseries.MonthlyExpenses(txs)); len(expenses) >= 2 {
		trend := "decreasing"
		if expenses[len(expenses)-1] > expenses[0] {
			trend = "increasing"
		}
		out = append(out, fmt.Sprintf("Your spending trend is %s over time", trend))
	}
	return out
}

var componentTips = map[string]string{
	SavingsRate:         "Try to save at least 20% of your income. Start with the 50/30/20 rule.",
	SpendingConsistency: "Create a monthly budget to make your spending more predictable.",
	CategoryBalance:     "Review your spending categories. Consider reducing non-essential expenses.",
	DebtManagement:      "Focus on paying down high-interest debt first to improve your score.",
	IncomeStability:     "Consider diversifying income sources or building a more stable income stream.",
	EmergencyFund:       "Build an emergency fund covering 3-6 months of expenses.",
}

func improvementTips(components map[string]float64) []string {
	var tips []string
	for _, name := range componentOrder {
		if components[name] < 70 {
			tips = append(tips, componentTips[name])
		}
	}
	if len(tips) == 0 {
		tips = append(tips, "Great job! Your financial health is strong across all areas.")
	}
	return tips
}

func categorySpending(txs []domain.Transaction) map[string]float64 {
	spending := make(map[string]float64)
	for _, tx := range txs {
		if tx.IsExpense() {
			spending[tx.Category] += tx.AbsAmount
		}
	}
	return spending
}

func topExpenseCategory(txs []domain.Transaction) (string, bool) {
	spending := categorySpending(txs)
	var top string
	var max float64
	for _, category := range domain.Categories() {
		if amount := spending[category]; amount > max {
			top, max = category, amount
		}
	}
	return top, top != ""
}

func matchesAny(description string, keywords []string) bool {
	desc := strings.ToLower(description)
	for _, kw := range keywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

func componentTitle(name string) string {
	parts := strings.Split(name, "_")
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
