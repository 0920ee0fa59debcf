package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namrata251104/AI-FinancePilot/internal/domain"
)

func TestParseBudgets(t *testing.T) {
	budgetFlags = []string{"Food & Dining=300", "Entertainment=50.5"}
	t.Cleanup(func() { budgetFlags = nil })

	budgets, err := parseBudgets()
	require.NoError(t, err)
	assert.Equal(t, domain.Budgets{
		"Food & Dining": 300,
		"Entertainment": 50.5,
	}, budgets)
}

func TestParseBudgetsErrors(t *testing.T) {
	tests := []struct {
		name string
		flag string
	}{
		{"missing equals", "Food 300"},
		{"non numeric", "Food=lots"},
		{"negative", "Food=-5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budgetFlags = []string{tt.flag}
			t.Cleanup(func() { budgetFlags = nil })

			_, err := parseBudgets()
			assert.Error(t, err)
		})
	}
}

func TestLoadTransactionsRequiresFile(t *testing.T) {
	filePath = ""
	_, err := loadTransactions()
	assert.ErrorContains(t, err, "--file is required")
}

func TestRootCommandWiring(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range RootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"analyze", "health", "forecast", "alerts", "calendar", "goal", "chat"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}
