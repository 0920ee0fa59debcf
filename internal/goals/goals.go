// Package goals tracks savings goals: creation, feasibility analysis
// against observed cash flow, savings strategies, and progress.
package goals

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/namrata251104/AI-FinancePilot/internal/domain"
	"github.com/namrata251104/AI-FinancePilot/internal/timeseries"
)

// GoalTypes lists the supported goal categories.
var GoalTypes = []string{
	"Emergency Fund",
	"Vacation/Travel",
	"Home Down Payment",
	"Car Purchase",
	"Debt Payoff",
	"Investment/Retirement",
	"Education Fund",
	"Wedding",
	"Custom Goal",
}

// Goal statuses.
const (
	StatusCompleted = "Completed"
	StatusOverdue   = "Overdue"
	StatusCritical  = "Critical"
	StatusOnTrack   = "On Track"
	StatusBehind    = "Behind"
	StatusFarBehind = "Far Behind"
)

// Feasibility tiers.
const (
	FeasibilityEasy        = "Easy"
	FeasibilityAchievable  = "Achievable"
	FeasibilityChallenging = "Challenging"
	FeasibilityDifficult   = "Difficult"
)

// DaysPerMonth converts day spans to months.
const DaysPerMonth = 30.44

// DiscretionaryCategories are the first candidates for spending cuts.
var DiscretionaryCategories = []string{
	domain.CategoryEntertainment,
	domain.CategoryShopping,
	domain.CategoryFood,
}

// Goal is a savings target with a deadline.
type Goal struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Type                 string    `json:"type"`
	TargetAmount         float64   `json:"target_amount"`
	CurrentAmount        float64   `json:"current_amount"`
	TargetDate           time.Time `json:"target_date"`
	CreatedDate          time.Time `json:"created_date"`
	DaysRemaining        int       `json:"days_remaining"`
	MonthsRemaining      float64   `json:"months_remaining"`
	MonthlySavingsNeeded float64   `json:"monthly_savings_needed"`
	ProgressPercentage   float64   `json:"progress_percentage"`
	Status               string    `json:"status"`
}

// New builds a goal relative to now. Dates are compared at midnight so
// partial days don't shift the remaining-day count.
func New(name string, targetAmount float64, targetDate time.Time, goalType string, currentAmount float64, now time.Time) Goal {
	today := midnight(now)
	daysRemaining := int(midnight(targetDate).Sub(today).Hours() / 24)
	monthsRemaining := float64(daysRemaining) / DaysPerMonth
	if monthsRemaining < 1 {
		monthsRemaining = 1
	}

	needed := (targetAmount - currentAmount) / monthsRemaining
	if needed < 0 {
		needed = 0
	}

	var progress float64
	if targetAmount > 0 {
		progress = currentAmount / targetAmount * 100
	}

	return Goal{
		ID:                   uuid.NewString(),
		Name:                 name,
		Type:                 goalType,
		TargetAmount:         targetAmount,
		CurrentAmount:        currentAmount,
		TargetDate:           midnight(targetDate),
		CreatedDate:          today,
		DaysRemaining:        daysRemaining,
		MonthsRemaining:      monthsRemaining,
		MonthlySavingsNeeded: needed,
		ProgressPercentage:   progress,
		Status:               status(progress, daysRemaining),
	}
}

func status(progress float64, daysRemaining int) string {
	switch {
	case progress >= 100:
		return StatusCompleted
	case daysRemaining < 0:
		return StatusOverdue
	case daysRemaining < 30:
		return StatusCritical
	case progress >= 75:
		return StatusOnTrack
	case progress >= 50:
		return StatusBehind
	default:
		return StatusFarBehind
	}
}

// Feasibility reports whether cash flow supports a goal.
type Feasibility struct {
	Feasibility            string  `json:"feasibility"`
	CurrentMonthlySavings  float64 `json:"current_monthly_savings"`
	RequiredMonthlySavings float64 `json:"required_monthly_savings"`
	MonthlyShortage        float64 `json:"monthly_shortage"`
	Recommendation         string  `json:"recommendation"`
	SuccessProbability     float64 `json:"success_probability"`
}

// AnalyzeFeasibility grades a goal against the observed monthly
// savings capacity.
func AnalyzeFeasibility(goal Goal, txs []domain.Transaction) Feasibility {
	capacity := savingsCapacity(txs)
	required := goal.MonthlySavingsNeeded
	shortage := required - capacity
	if shortage < 0 {
		shortage = 0
	}

	f := Feasibility{
		CurrentMonthlySavings:  capacity,
		RequiredMonthlySavings: required,
		MonthlyShortage:        shortage,
	}

	switch {
	case capacity >= required:
		f.Feasibility = FeasibilityEasy
		f.Recommendation = "You're already saving enough to reach this goal!"
	case capacity >= required*0.8:
		f.Feasibility = FeasibilityAchievable
		f.Recommendation = fmt.Sprintf(
			"You need to save an additional $%.2f per month. Consider reducing discretionary spending.", shortage)
	case capacity >= required*0.5:
		f.Feasibility = FeasibilityChallenging
		f.Recommendation = fmt.Sprintf(
			"This goal is challenging. You need $%.2f more per month. Consider extending the timeline or reducing the target amount.", shortage)
	default:
		f.Feasibility = FeasibilityDifficult
		f.Recommendation = fmt.Sprintf(
			"This goal may be unrealistic with current spending. You need $%.2f more per month. Consider major budget changes or extending the timeline significantly.", shortage)
	}

	if required <= 0 {
		f.SuccessProbability = 100
	} else {
		f.SuccessProbability = clamp(capacity/required*100, 10, 100)
	}
	return f
}

// Strategy is one way to close a monthly savings shortage.
type Strategy struct {
	Strategy         string  `json:"strategy"`
	Description      string  `json:"description"`
	PotentialSavings float64 `json:"potential_savings"`
	Difficulty       string  `json:"difficulty"`
	Category         string  `json:"category"`
}

// GenerateStrategies proposes up to five savings strategies, largest
// potential first.
func GenerateStrategies(goal Goal, txs []domain.Transaction) []Strategy {
	shortage := goal.MonthlySavingsNeeded - savingsCapacity(txs)
	if shortage <= 0 {
		return []Strategy{{
			Strategy:    "Stay on Track",
			Description: "You're already saving enough! Keep up the good work.",
			Difficulty:  FeasibilityEasy,
			Category:    "Maintenance",
		}}
	}

	months := monthCount(txs)
	spending := totalCategorySpending(txs)

	var strategies []Strategy

	// Trim the biggest categories first.
	for _, cs := range topCategories(spending, 3) {
		monthly := cs.amount / months
		reduction := monthly * 0.15
		if reduction >= shortage*0.3 {
			strategies = append(strategies, Strategy{
				Strategy:         fmt.Sprintf("Reduce %s Spending", cs.category),
				Description:      fmt.Sprintf("Cut %s spending by 15%% to save $%.2f/month", cs.category, reduction),
				PotentialSavings: reduction,
				Difficulty:       "Medium",
				Category:         cs.category,
			})
		}
	}

	for _, category := range DiscretionaryCategories {
		amount, ok := spending[category]
		if !ok {
			continue
		}
		reduction := amount / months * 0.25
		difficulty := FeasibilityEasy
		if reduction >= 100 {
			difficulty = "Medium"
		}
		strategies = append(strategies, Strategy{
			Strategy:         fmt.Sprintf("Cut %s", category),
			Description:      fmt.Sprintf("Reduce %s by 25%% to save $%.2f/month", category, reduction),
			PotentialSavings: reduction,
			Difficulty:       difficulty,
			Category:         category,
		})
	}

	// Extra gross income covers the shortage after an assumed 30% going
	// to taxes and expenses.
	strategies = append(strategies, Strategy{
		Strategy:         "Increase Income",
		Description:      fmt.Sprintf("Increase monthly income by $%.2f through side work or raises", shortage/0.7),
		PotentialSavings: shortage,
		Difficulty:       "Hard",
		Category:         "Income",
	})

	if len(strategies) > 1 {
		combined := strategies[0].PotentialSavings + strategies[1].PotentialSavings
		if combined >= shortage {
			strategies = append(strategies, Strategy{
				Strategy:         "Combination Approach",
				Description:      fmt.Sprintf("Combine multiple small changes to save $%.2f/month", combined),
				PotentialSavings: combined,
				Difficulty:       "Medium",
				Category:         "Mixed",
			})
		}
	}

	sort.SliceStable(strategies, func(i, j int) bool {
		if strategies[i].PotentialSavings != strategies[j].PotentialSavings {
			return strategies[i].PotentialSavings > strategies[j].PotentialSavings
		}
		return difficultyScore(strategies[i].Difficulty) < difficultyScore(strategies[j].Difficulty)
	})
	if len(strategies) > 5 {
		strategies = strategies[:5]
	}
	return strategies
}

// Progress compares actual progress against the linear schedule from
// creation to target date.
type Progress struct {
	CurrentAmount        float64   `json:"current_amount"`
	TargetAmount         float64   `json:"target_amount"`
	ProgressPercentage   float64   `json:"progress_percentage"`
	ExpectedProgress     float64   `json:"expected_progress"`
	AheadBehind          float64   `json:"ahead_behind"`
	MonthlySavingsNeeded float64   `json:"monthly_savings_needed"`
	DaysRemaining        int       `json:"days_remaining"`
	ProjectedCompletion  time.Time `json:"projected_completion"`
	OnTrack              bool      `json:"on_track"`
}

// TrackProgress reports where a goal stands as of now.
func TrackProgress(goal Goal, txs []domain.Transaction, now time.Time) Progress {
	capacity := savingsCapacity(txs)

	elapsed := midnight(now).Sub(goal.CreatedDate).Hours() / 24
	total := goal.TargetDate.Sub(goal.CreatedDate).Hours() / 24
	if total < 1 {
		total = 1
	}
	expected := elapsed / total * 100
	diff := goal.ProgressPercentage - expected

	return Progress{
		CurrentAmount:        goal.CurrentAmount,
		TargetAmount:         goal.TargetAmount,
		ProgressPercentage:   goal.ProgressPercentage,
		ExpectedProgress:     expected,
		AheadBehind:          diff,
		MonthlySavingsNeeded: goal.MonthlySavingsNeeded,
		DaysRemaining:        goal.DaysRemaining,
		ProjectedCompletion:  projectCompletion(goal, capacity, now),
		OnTrack:              diff >= -10 && diff <= 10,
	}
}

func projectCompletion(goal Goal, monthlySavings float64, now time.Time) time.Time {
	if monthlySavings <= 0 {
		return goal.TargetDate
	}
	remaining := goal.TargetAmount - goal.CurrentAmount
	monthsNeeded := remaining / monthlySavings
	return midnight(now).AddDate(0, 0, int(monthsNeeded*DaysPerMonth))
}

// Recommendations surveys all goals together for portfolio-level
// advice.
func Recommendations(allGoals []Goal, txs []domain.Transaction) []string {
	if len(allGoals) == 0 {
		return []string{"Start by setting your first financial goal! Emergency funds are usually a great place to begin."}
	}

	var recs []string

	var urgent []string
	for _, g := range allGoals {
		if g.DaysRemaining < 90 {
			urgent = append(urgent, g.Name)
		}
	}
	if len(urgent) > 0 {
		if len(urgent) > 2 {
			urgent = urgent[:2]
		}
		recs = append(recs, fmt.Sprintf("Focus on urgent goals: %s", strings.Join(urgent, ", ")))
	}

	var totalNeeded float64
	for _, g := range allGoals {
		totalNeeded += g.MonthlySavingsNeeded
	}
	if totalNeeded > savingsCapacity(txs)*1.2 {
		recs = append(recs, "You have conflicting goals. Consider prioritizing or extending timelines for some goals.")
	}

	hasEmergency := false
	for _, g := range allGoals {
		if strings.Contains(strings.ToLower(g.Name), "emergency") {
			hasEmergency = true
			break
		}
	}
	if !hasEmergency {
		recs = append(recs, "Consider adding an emergency fund goal (3-6 months of expenses).")
	}

	types := make(map[string]bool)
	for _, g := range allGoals {
		types[g.Type] = true
	}
	if len(types) == 1 && len(allGoals) > 1 {
		recs = append(recs, "Consider diversifying your goals across different categories (savings, investment, debt payoff).")
	}
	return recs
}

// savingsCapacity is the average monthly income minus the average
// monthly expense, floored at zero.
func savingsCapacity(txs []domain.Transaction) float64 {
	income := timeseries.Mean(timeseries.Values(timeseries.MonthlyIncome(txs)))
	expense := timeseries.Mean(timeseries.Values(timeseries.MonthlyExpenses(txs)))
	capacity := income - expense
	if capacity < 0 {
		return 0
	}
	return capacity
}

func monthCount(txs []domain.Transaction) float64 {
	months := make(map[domain.MonthPeriod]bool)
	for _, tx := range txs {
		months[tx.MonthPeriod] = true
	}
	if len(months) == 0 {
		return 1
	}
	return float64(len(months))
}

func totalCategorySpending(txs []domain.Transaction) map[string]float64 {
	spending := make(map[string]float64)
	for _, tx := range txs {
		if tx.IsExpense() {
			spending[tx.Category] += tx.AbsAmount
		}
	}
	return spending
}

type categoryAmount struct {
	category string
	amount   float64
}

func topCategories(spending map[string]float64, n int) []categoryAmount {
	out := make([]categoryAmount, 0, len(spending))
	for category, amount := range spending {
		out = append(out, categoryAmount{category, amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].amount != out[j].amount {
			return out[i].amount > out[j].amount
		}
		return out[i].category < out[j].category
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func difficultyScore(difficulty string) int {
	switch difficulty {
	case FeasibilityEasy:
		return 3
	case "Medium":
		return 2
	case "Hard":
		return 1
	default:
		return 1
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
