package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/namrata251104/AI-FinancePilot/internal/alerts"
	"github.com/namrata251104/AI-FinancePilot/internal/calendar"
	"github.com/namrata251104/AI-FinancePilot/internal/categorize"
	"github.com/namrata251104/AI-FinancePilot/internal/conversation"
	"github.com/namrata251104/AI-FinancePilot/internal/goals"
	"github.com/namrata251104/AI-FinancePilot/internal/health"
	"github.com/namrata251104/AI-FinancePilot/internal/ingest"
	"github.com/namrata251104/AI-FinancePilot/internal/predict"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Summarize and categorize a transaction CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		txs, err := loadTransactions()
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{
			"summary":      ingest.Summarize(txs),
			"distribution": categorize.Distribute(txs),
			"suggestions":  categorize.SuggestCustomCategories(txs),
		})
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Compute the financial health score",
	RunE: func(cmd *cobra.Command, args []string) error {
		txs, err := loadTransactions()
		if err != nil {
			return err
		}
		return printJSON(health.Calculate(txs))
	},
}

var forecastMonths int

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Predict future spending and flag anomalies",
	RunE: func(cmd *cobra.Command, args []string) error {
		if forecastMonths < 1 || forecastMonths > 24 {
			return fmt.Errorf("--months must be between 1 and 24")
		}
		txs, err := loadTransactions()
		if err != nil {
			return err
		}
		budgets, err := parseBudgets()
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{
			"spending":   predict.Spending(txs, forecastMonths, time.Now()),
			"categories": predict.CategorySpending(txs),
			"anomalies":  predict.Anomalies(txs),
			"risks":      predict.BudgetRisks(txs, budgets),
		})
	},
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Generate spending alerts for the current month",
	RunE: func(cmd *cobra.Command, args []string) error {
		txs, err := loadTransactions()
		if err != nil {
			return err
		}
		budgets, err := parseBudgets()
		if err != nil {
			return err
		}
		generated := alerts.Generate(txs, budgets, time.Now())
		return printJSON(map[string]interface{}{
			"alerts":  generated,
			"summary": alerts.Summarize(generated),
		})
	},
}

var (
	calendarYear  int
	calendarMonth int
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show the monthly spending calendar",
	RunE: func(cmd *cobra.Command, args []string) error {
		if calendarMonth < 1 || calendarMonth > 12 {
			return fmt.Errorf("--month must be between 1 and 12")
		}
		txs, err := loadTransactions()
		if err != nil {
			return err
		}
		view := calendar.BuildView(txs, calendarYear, time.Month(calendarMonth))
		return printJSON(map[string]interface{}{
			"view":     view,
			"insights": calendar.Insights(view),
		})
	},
}

var (
	goalName    string
	goalType    string
	goalTarget  float64
	goalCurrent float64
	goalDate    string
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Analyze the feasibility of a savings goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		if goalName == "" || goalTarget <= 0 {
			return fmt.Errorf("--name and a positive --target are required")
		}
		targetDate, err := time.Parse("2006-01-02", goalDate)
		if err != nil {
			return fmt.Errorf("--date must be YYYY-MM-DD")
		}
		txs, err := loadTransactions()
		if err != nil {
			return err
		}

		now := time.Now()
		goal := goals.New(goalName, goalTarget, targetDate, goalType, goalCurrent, now)
		return printJSON(map[string]interface{}{
			"goal":        goal,
			"feasibility": goals.AnalyzeFeasibility(goal, txs),
			"strategies":  goals.GenerateStrategies(goal, txs),
			"progress":    goals.TrackProgress(goal, txs, now),
		})
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Ask a question about your transactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		txs, err := loadTransactions()
		if err != nil {
			return err
		}

		// Model access is best effort; the rule-based fallback still
		// answers when it is unavailable.
		var model conversation.Model
		if gemini, err := conversation.NewGeminiModel(cmd.Context()); err == nil {
			model = gemini
		}
		responder := conversation.NewResponder(model)

		fmt.Println(responder.Respond(cmd.Context(), args[0], txs, time.Now()))
		return nil
	},
}

func init() {
	now := time.Now()

	forecastCmd.Flags().IntVarP(&forecastMonths, "months", "m", 3, "Months ahead to forecast")

	calendarCmd.Flags().IntVar(&calendarYear, "year", now.Year(), "Calendar year")
	calendarCmd.Flags().IntVar(&calendarMonth, "month", int(now.Month()), "Calendar month (1-12)")

	goalCmd.Flags().StringVar(&goalName, "name", "", "Goal name")
	goalCmd.Flags().StringVar(&goalType, "type", "Custom Goal", "Goal type")
	goalCmd.Flags().Float64Var(&goalTarget, "target", 0, "Target amount")
	goalCmd.Flags().Float64Var(&goalCurrent, "current", 0, "Amount saved so far")
	goalCmd.Flags().StringVar(&goalDate, "date", "", "Target date (YYYY-MM-DD)")
}
