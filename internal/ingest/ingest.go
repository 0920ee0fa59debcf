// Package ingest loads transaction CSVs exported from banks. Headers
// vary across institutions, so columns are matched against a list of
// known aliases; amounts arrive with currency symbols and thousands
// separators and are cleaned before parsing.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/namrata251104/AI-FinancePilot/internal/domain"
)

var columnAliases = map[string][]string{
	"date":        {"date", "transaction_date", "posting_date", "transaction date"},
	"description": {"description", "desc", "memo", "transaction description"},
	"amount":      {"amount", "transaction_amount", "debit", "credit", "transaction amount"},
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

var amountClean = regexp.MustCompile(`[^\d.\-]`)

// Report describes what a load kept and dropped.
type Report struct {
	Loaded  int `json:"loaded"`
	Dropped int `json:"dropped"`
}

// Load reads a CSV of transactions, maps its headers, cleans values,
// and drops rows that are unusable: missing fields, zero amounts, or
// dates after now. Returned transactions are normalized but not yet
// categorized.
func Load(r io.Reader, now time.Time) ([]domain.Transaction, Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, Report{}, fmt.Errorf("ingest.Load: reading header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, Report{}, fmt.Errorf("ingest.Load: %w", err)
	}

	var (
		txs    []domain.Transaction
		report Report
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, Report{}, fmt.Errorf("ingest.Load: reading row: %w", err)
		}

		tx, ok := parseRow(record, cols, now)
		if !ok {
			report.Dropped++
			continue
		}
		txs = append(txs, tx)
	}
	report.Loaded = len(txs)
	return domain.Normalize(txs), report, nil
}

// columns holds the resolved index of each field, -1 when absent.
type columns struct {
	date, description, amount, category int
}

func mapColumns(header []string) (columns, error) {
	cols := columns{date: -1, description: -1, amount: -1, category: -1}
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case cols.date < 0 && matchesAlias(name, "date"):
			cols.date = i
		case cols.description < 0 && matchesAlias(name, "description"):
			cols.description = i
		case cols.amount < 0 && matchesAlias(name, "amount"):
			cols.amount = i
		case cols.category < 0 && name == "category":
			cols.category = i
		}
	}
	var missing []string
	if cols.date < 0 {
		missing = append(missing, "date")
	}
	if cols.description < 0 {
		missing = append(missing, "description")
	}
	if cols.amount < 0 {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("required column(s) %s not found in header %v",
			strings.Join(missing, ", "), header)
	}
	return cols, nil
}

func matchesAlias(name, field string) bool {
	for _, alias := range columnAliases[field] {
		if name == alias {
			return true
		}
	}
	return false
}

func parseRow(record []string, cols columns, now time.Time) (domain.Transaction, bool) {
	if cols.date >= len(record) || cols.description >= len(record) || cols.amount >= len(record) {
		return domain.Transaction{}, false
	}

	date, ok := parseDate(strings.TrimSpace(record[cols.date]))
	if !ok || date.After(now) {
		return domain.Transaction{}, false
	}

	description := strings.TrimSpace(record[cols.description])
	if description == "" {
		return domain.Transaction{}, false
	}

	amount, ok := parseAmount(record[cols.amount])
	if !ok || amount == 0 {
		return domain.Transaction{}, false
	}

	tx := domain.Transaction{
		Date:        date,
		Description: description,
		Amount:      amount,
	}
	if cols.category >= 0 && cols.category < len(record) {
		tx.Category = strings.TrimSpace(record[cols.category])
	}
	return tx, true
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAmount strips currency symbols and separators, then parses via
// decimal to avoid repeated float rounding of statement values.
func parseAmount(s string) (float64, bool) {
	cleaned := amountClean.ReplaceAllString(strings.TrimSpace(s), "")
	if cleaned == "" || cleaned == "-" {
		return 0, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// Summary holds dataset-level statistics of a loaded batch.
type Summary struct {
	TotalTransactions  int       `json:"total_transactions"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	TotalDebits        float64   `json:"total_debits"`
	TotalCredits       float64   `json:"total_credits"`
	NetAmount          float64   `json:"net_amount"`
	AvgTransaction     float64   `json:"avg_transaction"`
	UniqueDescriptions int       `json:"unique_descriptions"`
}

// Summarize computes summary statistics over a batch.
func Summarize(txs []domain.Transaction) Summary {
	s := Summary{TotalTransactions: len(txs)}
	if len(txs) == 0 {
		return s
	}

	descriptions := make(map[string]bool)
	s.StartDate = txs[0].Date
	s.EndDate = txs[0].Date
	var total float64
	for _, tx := range txs {
		if tx.Date.Before(s.StartDate) {
			s.StartDate = tx.Date
		}
		if tx.Date.After(s.EndDate) {
			s.EndDate = tx.Date
		}
		if tx.Amount < 0 {
			s.TotalDebits += tx.Amount
		} else {
			s.TotalCredits += tx.Amount
		}
		total += tx.Amount
		descriptions[tx.Description] = true
	}
	s.NetAmount = total
	s.AvgTransaction = total / float64(len(txs))
	s.UniqueDescriptions = len(descriptions)
	return s
}

// Merge combines batches, dropping exact duplicates (same date,
// description and amount) and returning the result in date order.
func Merge(batches ...[]domain.Transaction) []domain.Transaction {
	type key struct {
		date        time.Time
		description string
		amount      float64
	}
	seen := make(map[key]bool)
	var out []domain.Transaction
	for _, batch := range batches {
		for _, tx := range batch {
			k := key{tx.Date, tx.Description, tx.Amount}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
