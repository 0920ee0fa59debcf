// Package calendar builds a month-at-a-glance view of transactions:
// per-day summaries, a week-by-week matrix for rendering, in-month
// spending patterns, and aggregate statistics.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/namrata251104/AI-FinancePilot/internal/domain"
)

// HighSpendingThreshold marks a day as high_spending when its total
// expense crosses it.
const HighSpendingThreshold = 200.0

// BillKeywords classify a day as bills_day when any of its transaction
// descriptions contains one.
var BillKeywords = []string{"bill", "payment", "subscription", "rent", "mortgage", "insurance"}

// Day types, in classification priority order.
const (
	DayInactive        = "inactive"
	DayIncome          = "income_day"
	DayHighSpending    = "high_spending"
	DayBills           = "bills_day"
	DayRegularSpending = "regular_spending"
	DayEmpty           = "empty"
)

// DaySummary aggregates one calendar day's activity.
type DaySummary struct {
	Day              int                `json:"day"`
	Income           float64            `json:"total_income"`
	Expense          float64            `json:"total_expense"`
	NetFlow          float64            `json:"net_flow"`
	TransactionCount int                `json:"transaction_count"`
	Categories       map[string]float64 `json:"categories"`
	DayType          string             `json:"day_type"`
}

// Cell is one slot of the week matrix. Empty cells pad days that
// belong to adjacent months.
type Cell struct {
	Day          int                `json:"day"`
	Empty        bool               `json:"empty"`
	Spending     float64            `json:"spending"`
	Income       float64            `json:"income"`
	Net          float64            `json:"net"`
	Transactions int                `json:"transactions,omitempty"`
	Type         string             `json:"type"`
	Categories   map[string]float64 `json:"categories,omitempty"`
}

// DayValue pairs a day of the month with a metric.
type DayValue struct {
	Day   int     `json:"day"`
	Value float64 `json:"value"`
}

// WeekendSplit compares weekend and weekday spending totals.
type WeekendSplit struct {
	WeekendTotal      float64 `json:"weekend_total"`
	WeekdayTotal      float64 `json:"weekday_total"`
	WeekendPreference bool    `json:"weekend_preference"`
}

// Patterns describes recurring structure found within the month.
type Patterns struct {
	BusiestDays         []DayValue                    `json:"busiest_days"`
	HighestSpendingDays []DayValue                    `json:"highest_spending_days"`
	WeekendVsWeekday    WeekendSplit                  `json:"weekend_vs_weekday"`
	CategoryPatterns    map[string]map[string]float64 `json:"category_patterns"`
}

// MonthStats holds month-level aggregates.
type MonthStats struct {
	TotalIncome      float64 `json:"total_income"`
	TotalExpense     float64 `json:"total_expense"`
	NetFlow          float64 `json:"net_flow"`
	TransactionCount int     `json:"transaction_count"`
	DailyAvgExpense  float64 `json:"daily_avg_expense"`
	MostActiveDay    string  `json:"most_active_day"`
	SpendingDays     int     `json:"spending_days"`
	IncomeDays       int     `json:"income_days"`
}

// View is the full calendar analysis for one month.
type View struct {
	Matrix   [][]Cell           `json:"calendar_matrix"`
	Days     map[int]DaySummary `json:"daily_summary"`
	Patterns Patterns           `json:"patterns"`
	Stats    MonthStats         `json:"month_stats"`
	Year     int                `json:"year"`
	Month    int                `json:"month"`
}

// BuildView assembles the calendar view for the given year and month.
func BuildView(txs []domain.Transaction, year int, month time.Month) View {
	var monthTxs []domain.Transaction
	for _, tx := range txs {
		if tx.Date.Year() == year && tx.Date.Month() == month {
			monthTxs = append(monthTxs, tx)
		}
	}

	days := dailySummaries(monthTxs)
	return View{
		Matrix:   buildMatrix(days, year, month),
		Days:     days,
		Patterns: identifyPatterns(monthTxs),
		Stats:    monthStats(monthTxs),
		Year:     year,
		Month:    int(month),
	}
}

func dailySummaries(txs []domain.Transaction) map[int]DaySummary {
	byDay := make(map[int][]domain.Transaction)
	for _, tx := range txs {
		day := tx.Date.Day()
		byDay[day] = append(byDay[day], tx)
	}

	days := make(map[int]DaySummary, len(byDay))
	for day, dayTxs := range byDay {
		var income, expense float64
		categories := make(map[string]float64)
		for _, tx := range dayTxs {
			if tx.IsIncome() {
				income += tx.Amount
			} else if tx.IsExpense() {
				expense += tx.AbsAmount
				categories[tx.Category] += tx.AbsAmount
			}
		}
		days[day] = DaySummary{
			Day:              day,
			Income:           income,
			Expense:          expense,
			NetFlow:          income - expense,
			TransactionCount: len(dayTxs),
			Categories:       categories,
			DayType:          classifyDay(dayTxs, expense),
		}
	}
	return days
}

func classifyDay(dayTxs []domain.Transaction, totalExpense float64) string {
	if len(dayTxs) == 0 {
		return DayInactive
	}
	for _, tx := range dayTxs {
		if tx.IsIncome() {
			return DayIncome
		}
	}
	if totalExpense > HighSpendingThreshold {
		return DayHighSpending
	}
	for _, tx := range dayTxs {
		desc := strings.ToLower(tx.Description)
		for _, kw := range BillKeywords {
			if strings.Contains(desc, kw) {
				return DayBills
			}
		}
	}
	if totalExpense > 0 {
		return DayRegularSpending
	}
	return DayInactive
}

func identifyPatterns(txs []domain.Transaction) Patterns {
	p := Patterns{CategoryPatterns: make(map[string]map[string]float64)}
	if len(txs) == 0 {
		return p
	}

	counts := make(map[int]float64)
	spending := make(map[int]float64)
	for _, tx := range txs {
		day := tx.Date.Day()
		counts[day]++
		if tx.IsExpense() {
			spending[day] += tx.AbsAmount
		}
	}
	p.BusiestDays = topDays(counts, 3)
	p.HighestSpendingDays = topDays(spending, 3)

	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		wd := tx.Date.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			p.WeekendVsWeekday.WeekendTotal += tx.AbsAmount
		} else {
			p.WeekendVsWeekday.WeekdayTotal += tx.AbsAmount
		}
		name := wd.String()
		if p.CategoryPatterns[name] == nil {
			p.CategoryPatterns[name] = make(map[string]float64)
		}
		p.CategoryPatterns[name][tx.Category] += tx.AbsAmount
	}
	p.WeekendVsWeekday.WeekendPreference = p.WeekendVsWeekday.WeekendTotal > p.WeekendVsWeekday.WeekdayTotal
	return p
}

// topDays returns the n largest entries, larger values first and lower
// day numbers breaking ties.
func topDays(values map[int]float64, n int) []DayValue {
	out := make([]DayValue, 0, len(values))
	for day, v := range values {
		out = append(out, DayValue{Day: day, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Day < out[j].Day
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// buildMatrix lays the month out as weeks starting on Monday, padding
// leading and trailing slots with empty cells.
func buildMatrix(days map[int]DaySummary, year int, month time.Month) [][]Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	// Monday-indexed weekday of the 1st, 0 through 6.
	offset := (int(first.Weekday()) + 6) % 7

	var matrix [][]Cell
	week := make([]Cell, 0, 7)
	for i := 0; i < offset; i++ {
		week = append(week, emptyCell())
	}
	for day := 1; day <= daysInMonth; day++ {
		week = append(week, dayCell(day, days))
		if len(week) == 7 {
			matrix = append(matrix, week)
			week = make([]Cell, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, emptyCell())
		}
		matrix = append(matrix, week)
	}
	return matrix
}

func emptyCell() Cell {
	return Cell{Empty: true, Type: DayEmpty}
}

func dayCell(day int, days map[int]DaySummary) Cell {
	summary, ok := days[day]
	if !ok {
		return Cell{Day: day, Type: DayInactive}
	}
	return Cell{
		Day:          day,
		Spending:     summary.Expense,
		Income:       summary.Income,
		Net:          summary.NetFlow,
		Transactions: summary.TransactionCount,
		Type:         summary.DayType,
		Categories:   summary.Categories,
	}
}

func monthStats(txs []domain.Transaction) MonthStats {
	stats := MonthStats{MostActiveDay: "N/A", TransactionCount: len(txs)}
	if len(txs) == 0 {
		return stats
	}

	activeDays := make(map[int]bool)
	spendingDays := make(map[int]bool)
	incomeDays := make(map[int]bool)
	weekdayCounts := make(map[time.Weekday]int)
	for _, tx := range txs {
		day := tx.Date.Day()
		activeDays[day] = true
		weekdayCounts[tx.Date.Weekday()]++
		if tx.IsExpense() {
			stats.TotalExpense += tx.AbsAmount
			spendingDays[day] = true
		} else if tx.IsIncome() {
			stats.TotalIncome += tx.Amount
			incomeDays[day] = true
		}
	}
	stats.NetFlow = stats.TotalIncome - stats.TotalExpense
	stats.SpendingDays = len(spendingDays)
	stats.IncomeDays = len(incomeDays)
	if len(activeDays) > 0 {
		stats.DailyAvgExpense = stats.TotalExpense / float64(len(activeDays))
	}

	// Most frequent weekday, earlier weekdays (Sunday first) breaking
	// ties.
	best, bestCount := time.Sunday, -1
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if weekdayCounts[wd] > bestCount {
			best, bestCount = wd, weekdayCounts[wd]
		}
	}
	stats.MostActiveDay = best.String()
	return stats
}

// Insights turns a view into short human-readable observations.
func Insights(view View) []string {
	var insights []string
	stats := view.Stats
	patterns := view.Patterns

	if stats.MostActiveDay != "N/A" {
		insights = append(insights,
			fmt.Sprintf("You're most active on %ss with financial transactions", stats.MostActiveDay))
	}

	split := patterns.WeekendVsWeekday
	if split.WeekendPreference {
		pct := split.WeekendTotal / (split.WeekendTotal + split.WeekdayTotal) * 100
		insights = append(insights,
			fmt.Sprintf("You spend %.1f%% of your money on weekends", pct))
	} else {
		insights = append(insights, "You spend more during weekdays than weekends")
	}

	if len(patterns.HighestSpendingDays) > 0 {
		top := patterns.HighestSpendingDays[0]
		insights = append(insights,
			fmt.Sprintf("Your highest spending day was day %d with $%.2f", top.Day, top.Value))
	}

	frequency := float64(stats.SpendingDays) / 31 * 100
	switch {
	case frequency > 80:
		insights = append(insights,
			fmt.Sprintf("You make purchases almost daily (%.0f%% of days)", frequency))
	case frequency > 50:
		insights = append(insights,
			fmt.Sprintf("You shop regularly (%.0f%% of days have transactions)", frequency))
	default:
		insights = append(insights,
			fmt.Sprintf("You're selective with spending (%.0f%% of days have purchases)", frequency))
	}

	if stats.IncomeDays <= 2 {
		insights = append(insights,
			fmt.Sprintf("You receive income on %d day(s) per month, consider diversifying income sources", stats.IncomeDays))
	}
	return insights
}
