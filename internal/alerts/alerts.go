// Package alerts derives prioritized spending alerts from the current
// calendar month's transactions. Six independent checks each emit zero
// or more alerts; the merged list is ordered by a fixed per-type
// priority table (not by severity) and capped at MaxAlerts.
package alerts

import (
	"fmt"
	"sort"
	"time"

	"github.com/namrata251104/AI-FinancePilot/internal/domain"
	"github.com/namrata251104/AI-FinancePilot/internal/timeseries"
)

// Alert types.
const (
	TypeBudgetExceeded    = "budget_exceeded"
	TypeSpendingSpike     = "spending_spike"
	TypeBudgetWarning     = "budget_warning"
	TypeUnusualTx         = "unusual_transaction"
	TypeCategoryOverspend = "category_overspend"
	TypeUpwardTrend       = "upward_trend"
	TypeMissingRecurring  = "missing_recurring"
)

// Severity levels.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Detection thresholds. Kept as named configuration; the recurring
// amount jitter is in absolute currency units.
const (
	SpikeFactor            = 1.5
	BudgetWarningShare     = 0.8
	UnusualTxZ             = 2.0
	CategoryOverspendRatio = 1.3
	TrendSlopeShare        = 0.1
	RecurringMinCount      = 3
	RecurringAmountJitter  = 10.0
	RecurringOverdueDays   = 35
	MaxAlerts              = 10
)

// typePriority orders the merged alert list. Unknown types rank last.
var typePriority = map[string]int{
	TypeBudgetExceeded:    10,
	TypeSpendingSpike:     9,
	TypeBudgetWarning:     8,
	TypeUnusualTx:         7,
	TypeCategoryOverspend: 6,
	TypeUpwardTrend:       5,
	TypeMissingRecurring:  3,
}

// Alert is an ephemeral detection result, regenerated on every call.
type Alert struct {
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	Severity    string  `json:"severity"`
	Category    string  `json:"category,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
	Budget      float64 `json:"budget,omitempty"`
	Percentage  float64 `json:"percentage,omitempty"`
	ZScore      float64 `json:"z_score,omitempty"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date,omitempty"`
	DaysSince   int     `json:"days_since,omitempty"`
}

// Generate runs every check against the month containing now and
// returns the merged, priority-ordered list, at most MaxAlerts long.
func Generate(txs []domain.Transaction, budgets domain.Budgets, now time.Time) []Alert {
	currentPeriod := domain.MonthPeriodOf(now)
	var current []domain.Transaction
	for _, tx := range txs {
		if tx.MonthPeriod == currentPeriod {
			current = append(current, tx)
		}
	}

	var alerts []Alert
	alerts = append(alerts, checkBudgets(current, budgets)...)
	alerts = append(alerts, checkSpendingSpike(txs, current, currentPeriod)...)
	alerts = append(alerts, checkUnusualTransactions(txs, current)...)
	alerts = append(alerts, checkCategoryOverspending(txs, current)...)
	alerts = append(alerts, checkUpwardTrend(txs)...)
	alerts = append(alerts, checkMissingRecurring(txs, now)...)

	sort.SliceStable(alerts, func(i, j int) bool {
		return priorityOf(alerts[i].Type) > priorityOf(alerts[j].Type)
	})
	if len(alerts) > MaxAlerts {
		alerts = alerts[:MaxAlerts]
	}
	return alerts
}

func priorityOf(alertType string) int {
	if p, ok := typePriority[alertType]; ok {
		return p
	}
	return 1
}

func checkBudgets(current []domain.Transaction, budgets domain.Budgets) []Alert {
	if len(budgets) == 0 {
		return nil
	}
	spending := categorySpending(current)

	categories := make([]string, 0, len(budgets))
	for c := range budgets {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var alerts []Alert
	for _, category := range categories {
		budget := budgets[category]
		spent, ok := spending[category]
		if !ok || budget <= 0 {
			continue
		}
		used := spent / budget * 100
		switch {
		case used >= 100:
			alerts = append(alerts, Alert{
				Type:     TypeBudgetExceeded,
				Category: category,
				Message: fmt.Sprintf("Budget exceeded! You've spent $%.2f of your $%.2f budget for %s",
					spent, budget, category),
				Severity:   SeverityHigh,
				Amount:     spent,
				Budget:     budget,
				Percentage: used,
			})
		case used >= BudgetWarningShare*100:
			alerts = append(alerts, Alert{
				Type:     TypeBudgetWarning,
				Category: category,
				Message: fmt.Sprintf("Budget warning! You've used %.1f%% of your %s budget",
					used, category),
				Severity:   SeverityMedium,
				Amount:     spent,
				Budget:     budget,
				Percentage: used,
			})
		}
	}
	return alerts
}

// checkSpendingSpike compares current-month spend against the mean of
// every other month.
func checkSpendingSpike(txs, current []domain.Transaction, currentPeriod domain.MonthPeriod) []Alert {
	series := timeseries.MonthlyExpenses(txs)
	if len(series) < 2 {
		return nil
	}
	var historical []float64
	for _, point := range series {
		if point.Period != currentPeriod {
			historical = append(historical, point.Value)
		}
	}
	if len(historical) == 0 {
		return nil
	}
	historicalAvg := timeseries.Mean(historical)
	if historicalAvg <= 0 {
		return nil
	}

	var currentSpend float64
	for _, tx := range current {
		if tx.IsExpense() {
			currentSpend += tx.AbsAmount
		}
	}
	if currentSpend <= historicalAvg*SpikeFactor {
		return nil
	}

	increase := (currentSpend - historicalAvg) / historicalAvg * 100
	severity := SeverityMedium
	if increase > 100 {
		severity = SeverityHigh
	}
	return []Alert{{
		Type: TypeSpendingSpike,
		Message: fmt.Sprintf("Spending spike detected! This month's spending is %.1f%% above your average",
			increase),
		Severity:   severity,
		Amount:     currentSpend,
		Percentage: increase,
	}}
}

// checkUnusualTransactions flags current-month expenses whose size is a
// z-score outlier against all-time expense sizes.
func checkUnusualTransactions(txs, current []domain.Transaction) []Alert {
	var sizes []float64
	for _, tx := range txs {
		if tx.IsExpense() {
			sizes = append(sizes, tx.AbsAmount)
		}
	}
	mean := timeseries.Mean(sizes)
	std := timeseries.StdDev(sizes)
	if std == 0 {
		return nil
	}

	var alerts []Alert
	for _, tx := range current {
		if !tx.IsExpense() {
			continue
		}
		z := (tx.AbsAmount - mean) / std
		if z <= UnusualTxZ {
			continue
		}
		alerts = append(alerts, Alert{
			Type: TypeUnusualTx,
			Message: fmt.Sprintf("Unusual transaction: $%.2f at %s (%.1fx your typical spending)",
				tx.AbsAmount, tx.Description, z),
			Severity:    SeverityMedium,
			Amount:      tx.AbsAmount,
			Description: tx.Description,
			Date:        tx.Date.Format("2006-01-02"),
			ZScore:      z,
		})
	}
	return alerts
}

func checkCategoryOverspending(txs, current []domain.Transaction) []Alert {
	currentSpending := categorySpending(current)

	categories := make([]string, 0, len(currentSpending))
	for c := range currentSpending {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var alerts []Alert
	for _, category := range categories {
		historical := timeseries.Values(timeseries.MonthlyCategoryExpenses(txs, category))
		if len(historical) == 0 {
			continue
		}
		historicalAvg := timeseries.Mean(historical)
		if historicalAvg <= 0 {
			continue
		}
		currentAmount := currentSpending[category]
		if currentAmount <= historicalAvg*CategoryOverspendRatio {
			continue
		}
		increase := (currentAmount - historicalAvg) / historicalAvg * 100
		alerts = append(alerts, Alert{
			Type:     TypeCategoryOverspend,
			Category: category,
			Message: fmt.Sprintf("%s spending is %.1f%% above average this month",
				category, increase),
			Severity:   SeverityMedium,
			Amount:     currentAmount,
			Percentage: increase,
		})
	}
	return alerts
}

func checkUpwardTrend(txs []domain.Transaction) []Alert {
	values := timeseries.Values(timeseries.MonthlyExpenses(txs))
	if len(values) < 3 {
		return nil
	}
	slope, _ := timeseries.LinearFit(values)
	if slope <= timeseries.Mean(values)*TrendSlopeShare {
		return nil
	}
	return []Alert{{
		Type: TypeUpwardTrend,
		Message: fmt.Sprintf("Your spending has been increasing by $%.2f per month over the last %d months",
			slope, len(values)),
		Severity: SeverityMedium,
		Amount:   slope,
	}}
}

// checkMissingRecurring finds descriptions that repeat with near-equal
// amounts and alerts when the latest occurrence is overdue.
func checkMissingRecurring(txs []domain.Transaction, now time.Time) []Alert {
	type group struct {
		amounts  []float64
		lastSeen time.Time
	}
	groups := make(map[string]*group)
	for _, tx := range txs {
		g, ok := groups[tx.Description]
		if !ok {
			g = &group{}
			groups[tx.Description] = g
		}
		g.amounts = append(g.amounts, tx.Amount)
		if tx.Date.After(g.lastSeen) {
			g.lastSeen = tx.Date
		}
	}

	descriptions := make([]string, 0, len(groups))
	for d := range groups {
		descriptions = append(descriptions, d)
	}
	sort.Strings(descriptions)

	var alerts []Alert
	for _, description := range descriptions {
		g := groups[description]
		if len(g.amounts) < RecurringMinCount {
			continue
		}
		if timeseries.StdDev(g.amounts) >= RecurringAmountJitter {
			continue
		}
		daysSince := int(now.Sub(g.lastSeen).Hours() / 24)
		if daysSince <= RecurringOverdueDays {
			continue
		}
		alerts = append(alerts, Alert{
			Type: TypeMissingRecurring,
			Message: fmt.Sprintf("Missing recurring expense: '%s' last seen %d days ago",
				description, daysSince),
			Severity:    SeverityLow,
			Description: description,
			Date:        g.lastSeen.Format("2006-01-02"),
			DaysSince:   daysSince,
		})
	}
	return alerts
}

// Summary counts alerts by severity and type.
type Summary struct {
	Total      int            `json:"total_alerts"`
	High       int            `json:"high_severity"`
	Medium     int            `json:"medium_severity"`
	Low        int            `json:"low_severity"`
	AlertTypes map[string]int `json:"alert_types"`
}

// Summarize builds a severity/type breakdown of an alert list.
func Summarize(alerts []Alert) Summary {
	s := Summary{Total: len(alerts), AlertTypes: make(map[string]int)}
	for _, a := range alerts {
		switch a.Severity {
		case SeverityHigh:
			s.High++
		case SeverityMedium:
			s.Medium++
		case SeverityLow:
			s.Low++
		}
		s.AlertTypes[a.Type]++
	}
	return s
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
