package main

import (
	"os"

	"github.com/namrata251104/AI-FinancePilot/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
