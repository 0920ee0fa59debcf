// Package predict implements the spending forecaster and the z-score
// anomaly detector. Forecasts are a linear trend over the monthly
// expense series with an optional seasonal multiplier; anomalies are
// months whose spending deviates from the series mean by more than a
// fixed number of sample standard deviations.
package predict

import (
	"math"
	"sort"
	"time"

	"github.com/namrata251104/AI-FinancePilot/internal/domain"
	"github.com/namrata251104/AI-FinancePilot/internal/timeseries"
)

// Trend directions.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// SeasonalFactors are illustrative per-calendar-month spend multipliers
// (holiday peak in December, post-holiday dip in January). They are
// applied only when at least MinSeasonalHistory months of history exist.
// Deliberately a tunable table, not a fitted model.
var SeasonalFactors = map[time.Month]float64{
	time.January:   0.9,
	time.February:  0.95,
	time.March:     1.0,
	time.April:     1.05,
	time.May:       1.0,
	time.June:      1.1,
	time.July:      1.15,
	time.August:    1.1,
	time.September: 1.0,
	time.October:   1.05,
	time.November:  1.2,
	time.December:  1.3,
}

// MinSeasonalHistory is the number of months of history required before
// seasonal factors apply.
const MinSeasonalHistory = 12

// Point is one forecast month.
type Point struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// Prediction is an ordered spending forecast.
type Prediction struct {
	Points        []Point `json:"predictions"`
	Trend         string  `json:"trend_direction"`
	MonthlyChange float64 `json:"monthly_change"`
	Confidence    float64 `json:"confidence_level"`
}

// Spending forecasts total spending for the next monthsAhead months.
// With fewer than two months of expense history it returns a neutral
// prediction: no points, stable trend, 50% confidence. now supplies the
// calendar month the seasonal factors are keyed from; the core never
// reads the wall clock itself.
func Spending(txs []domain.Transaction, monthsAhead int, now time.Time) Prediction {
	series := timeseries.MonthlyExpenses(txs)
	if len(series) < 2 {
		return Prediction{Trend: TrendStable, Confidence: 50.0}
	}

	values := timeseries.Values(series)
	slope, intercept := timeseries.LinearFit(values)
	lastIndex := len(values) - 1
	lastPeriod := series[len(series)-1].Period

	points := make([]Point, 0, monthsAhead)
	for i := 1; i <= monthsAhead; i++ {
		predicted := slope*float64(lastIndex+i) + intercept
		predicted *= seasonalFactor(len(values), now, i)
		points = append(points, Point{
			Month:  string(lastPeriod.AddMonths(i)),
			Amount: math.Max(0, predicted),
		})
	}

	trend := TrendDecreasing
	if slope > 0 {
		trend = TrendIncreasing
	}

	return Prediction{
		Points:        points,
		Trend:         trend,
		MonthlyChange: math.Abs(slope),
		Confidence:    confidence(values),
	}
}

// seasonalFactor returns the multiplier for a forecast monthsAhead
// months from now, or 1.0 when the history is too short to trust any
// seasonal shape.
func seasonalFactor(historyMonths int, now time.Time, monthsAhead int) float64 {
	if historyMonths < MinSeasonalHistory {
		return 1.0
	}
	futureMonth := time.Month((int(now.Month())+monthsAhead-1)%12 + 1)
	if f, ok := SeasonalFactors[futureMonth]; ok {
		return f
	}
	return 1.0
}

// confidence maps the historical coefficient of variation onto a
// percentage. Short histories cap out at 60%.
func confidence(values []float64) float64 {
	if len(values) < 3 {
		return 60.0
	}
	mean := timeseries.Mean(values)
	if mean == 0 {
		return 50.0
	}

	switch cv := timeseries.StdDev(values) / mean; {
	case cv < 0.1:
		return 90.0
	case cv < 0.2:
		return 80.0
	case cv < 0.3:
		return 70.0
	default:
		return 60.0
	}
}

// CategoryPrediction is a one-month-ahead forecast for one category.
type CategoryPrediction struct {
	Amount     float64 `json:"predicted_amount"`
	Trend      string  `json:"trend"`
	Confidence float64 `json:"confidence"`
}

// CategorySpending forecasts next month's spending per category, for
// categories with at least two months of expense history. The forecast
// is last observed value plus trend slope, floored at zero.
func CategorySpending(txs []domain.Transaction) map[string]CategoryPrediction {
	predictions := make(map[string]CategoryPrediction)
	for _, category := range expenseCategories(txs) {
		values := timeseries.Values(timeseries.MonthlyCategoryExpenses(txs, category))
		if len(values) < 2 {
			continue
		}

		slope, _ := timeseries.LinearFit(values)
		last := values[len(values)-1]

		trend := TrendDecreasing
		if slope > 0 {
			trend = TrendIncreasing
		}

		conf := 50.0
		if last > 0 {
			conf = math.Min(100, math.Max(50, 100-math.Abs(slope)/last*100))
		}

		predictions[category] = CategoryPrediction{
			Amount:     math.Max(0, last+slope),
			Trend:      trend,
			Confidence: conf,
		}
	}
	return predictions
}

// Anomaly is one month whose spending deviates unusually from its
// series. Type is "monthly_spending" or "category_spending".
type Anomaly struct {
	Type     string  `json:"type"`
	Category string  `json:"category,omitempty"`
	Month    string  `json:"month"`
	Amount   float64 `json:"amount"`
	ZScore   float64 `json:"z_score"`
	Severity string  `json:"severity"`
}

// Z-score thresholds for flagging anomalies.
const (
	wholeSeriesThreshold = 2.0
	categoryThreshold    = 2.5
	highSeverityZ        = 3.0
)

// Anomalies flags months with unusual total or per-category spending.
// A series needs at least three months; a zero standard deviation
// short-circuits every z to 0 so flat series never divide by zero.
func Anomalies(txs []domain.Transaction) []Anomaly {
	var anomalies []Anomaly

	anomalies = append(anomalies, seriesAnomalies(
		timeseries.MonthlyExpenses(txs), "monthly_spending", "", wholeSeriesThreshold)...)

	for _, category := range expenseCategories(txs) {
		anomalies = append(anomalies, seriesAnomalies(
			timeseries.MonthlyCategoryExpenses(txs, category),
			"category_spending", category, categoryThreshold)...)
	}
	return anomalies
}

func seriesAnomalies(series []timeseries.MonthValue, anomalyType, category string, threshold float64) []Anomaly {
	if len(series) < 3 {
		return nil
	}
	values := timeseries.Values(series)
	mean := timeseries.Mean(values)
	std := timeseries.StdDev(values)

	var out []Anomaly
	for _, point := range series {
		z := 0.0
		if std > 0 {
			z = math.Abs(point.Value-mean) / std
		}
		if z <= threshold {
			continue
		}
		severity := "medium"
		if z > highSeverityZ {
			severity = "high"
		}
		out = append(out, Anomaly{
			Type:     anomalyType,
			Category: category,
			Month:    string(point.Period),
			Amount:   point.Value,
			ZScore:   z,
			Severity: severity,
		})
	}
	return out
}

// BudgetRisk is a forecast category overrun.
type BudgetRisk struct {
	Category    string  `json:"category"`
	Budget      float64 `json:"budget"`
	Predicted   float64 `json:"predicted"`
	Overage     float64 `json:"overage"`
	PercentOver float64 `json:"percentage_over"`
	Risk        string  `json:"risk_level"`
}

// BudgetRisks compares next month's category forecasts against the
// given budgets. Without budgets a default budget of the historical
// monthly mean plus a 10% buffer is assumed per category.
func BudgetRisks(txs []domain.Transaction, budgets domain.Budgets) []BudgetRisk {
	if len(budgets) == 0 {
		budgets = defaultBudgets(txs)
	}
	predictions := CategorySpending(txs)

	categories := make([]string, 0, len(budgets))
	for c := range budgets {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var risks []BudgetRisk
	for _, category := range categories {
		budget := budgets[category]
		pred, ok := predictions[category]
		if !ok || pred.Amount <= budget || budget <= 0 {
			continue
		}
		overage := pred.Amount - budget
		percentOver := overage / budget * 100
		risk := "medium"
		if percentOver > 20 {
			risk = "high"
		}
		risks = append(risks, BudgetRisk{
			Category:    category,
			Budget:      budget,
			Predicted:   pred.Amount,
			Overage:     overage,
			PercentOver: percentOver,
			Risk:        risk,
		})
	}
	return risks
}

func defaultBudgets(txs []domain.Transaction) domain.Budgets {
	months := len(timeseries.Aggregate(txs))
	if months == 0 {
		months = 1
	}
	budgets := make(domain.Budgets)
	for _, tx := range txs {
		if tx.IsExpense() {
			budgets[tx.Category] += tx.AbsAmount
		}
	}
	for category, total := range budgets {
		budgets[category] = total / float64(months) * 1.1
	}
	return budgets
}

// expenseCategories lists the categories with any expense transaction,
// sorted for deterministic output.
func expenseCategories(txs []domain.Transaction) []string {
	seen := make(map[string]bool)
	for _, tx := range txs {
		if tx.IsExpense() {
			seen[tx.Category] = true
		}
	}
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}
