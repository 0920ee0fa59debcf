// Package cli implements the finance-pilot command line interface.
// Every subcommand reads a transaction CSV, runs one analysis engine,
// and prints the result as indented JSON.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/namrata251104/AI-FinancePilot/internal/categorize"
	"github.com/namrata251104/AI-FinancePilot/internal/domain"
	"github.com/namrata251104/AI-FinancePilot/internal/ingest"
)

var (
	filePath    string
	budgetFlags []string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "finance-pilot",
	Short: "Analyze personal finance transaction exports",
	Long: `finance-pilot reads bank transaction CSVs and runs analytics over them:
automatic categorization, a financial health score, spending forecasts,
smart alerts, a spending calendar, and savings goal planning.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&filePath, "file", "f", "", "Transaction CSV file to analyze")
	RootCmd.PersistentFlags().StringArrayVarP(&budgetFlags, "budget", "b", nil,
		"Monthly category budget as 'Category=Amount' (repeatable)")

	RootCmd.AddCommand(analyzeCmd)
	RootCmd.AddCommand(healthCmd)
	RootCmd.AddCommand(forecastCmd)
	RootCmd.AddCommand(alertsCmd)
	RootCmd.AddCommand(calendarCmd)
	RootCmd.AddCommand(goalCmd)
	RootCmd.AddCommand(chatCmd)
}

// loadTransactions reads, cleans and categorizes the --file CSV.
func loadTransactions() ([]domain.Transaction, error) {
	if filePath == "" {
		return nil, fmt.Errorf("--file is required")
	}
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer f.Close()

	txs, report, err := ingest.Load(f, time.Now())
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filePath, err)
	}
	if report.Dropped > 0 {
		fmt.Fprintf(os.Stderr, "dropped %d invalid row(s)\n", report.Dropped)
	}
	categorize.All(txs, nil)
	return txs, nil
}

func parseBudgets() (domain.Budgets, error) {
	budgets := domain.Budgets{}
	for _, flagValue := range budgetFlags {
		parts := strings.SplitN(flagValue, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid budget %q: expected 'Category=Amount'", flagValue)
		}
		amount, err := strconv.ParseFloat(parts[1], 64)
		if err != nil || amount < 0 {
			return nil, fmt.Errorf("invalid budget amount %q for %s", parts[1], parts[0])
		}
		budgets[parts[0]] = amount
	}
	return budgets, nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
