// Package categorize assigns taxonomy categories to transactions using
// ordered keyword rules. The rule order is part of the contract: when a
// description matches several categories ("netflix" is both a bill and
// entertainment), the first rule in the list wins, so batch runs are
// reproducible.
package categorize

import (
	"regexp"
	"sort"
	"strings"

	"github.com/namrata251104/AI-FinancePilot/internal/domain"
)

// Rule pairs a category with its keyword list. Matching is
// case-insensitive substring containment, unanchored.
type Rule struct {
	Category string
	Keywords []string
}

// IncomeKeywords short-circuit categorization for positive amounts
// before the ordered rules are consulted.
var IncomeKeywords = []string{"salary", "payroll", "deposit", "refund", "cashback", "dividend"}

// Rules is the ordered rule list. Keep it a slice, never a map: the
// precedence between overlapping keyword sets depends on this order.
var Rules = []Rule{
	{domain.CategoryFood, []string{
		"restaurant", "cafe", "food", "dining", "pizza", "burger", "starbucks",
		"mcdonald", "subway", "grocery", "market", "supermarket", "uber eats",
		"doordash", "grubhub", "delivery", "takeout",
	}},
	{domain.CategoryTransport, []string{
		"gas", "fuel", "uber", "lyft", "taxi", "bus", "train", "metro",
		"parking", "toll", "car", "vehicle", "auto", "mechanic", "tire",
	}},
	{domain.CategoryShopping, []string{
		"amazon", "walmart", "target", "mall", "store", "retail", "clothing",
		"shoes", "electronics", "books", "home depot", "lowes",
	}},
	{domain.CategoryBills, []string{
		"electric", "electricity", "gas bill", "water", "internet", "phone",
		"cable", "subscription", "netflix", "spotify", "utility", "bill",
	}},
	{domain.CategoryEntertainment, []string{
		"movie", "cinema", "theater", "concert", "game", "sport", "gym",
		"fitness", "netflix", "spotify", "entertainment", "club", "bar",
	}},
	{domain.CategoryHealth, []string{
		"doctor", "hospital", "pharmacy", "medical", "health", "dental",
		"vision", "clinic", "prescription", "medicine", "cvs", "walgreens",
	}},
	{domain.CategoryTravel, []string{
		"airline", "flight", "hotel", "airbnb", "rental car", "vacation",
		"travel", "booking", "expedia", "trip", "resort",
	}},
	{domain.CategoryEducation, []string{
		"school", "university", "college", "tuition", "education", "book",
		"course", "training", "certification",
	}},
	{domain.CategoryInsurance, []string{
		"insurance", "premium", "policy", "coverage", "deductible",
	}},
	{domain.CategoryInvestment, []string{
		"investment", "stock", "bond", "mutual fund", "401k", "ira",
		"retirement", "savings", "dividend", "brokerage",
	}},
	{domain.CategoryIncome, []string{
		"salary", "payroll", "wage", "bonus", "refund", "cashback",
		"deposit", "payment received", "income",
	}},
	{domain.CategoryTransfer, []string{
		"transfer", "atm", "withdrawal", "deposit", "check", "wire",
		"payment to", "send money",
	}},
}

// Categorize maps a single transaction to its category. Positive
// amounts matching an income keyword return Income before the general
// rules run; otherwise the first matching rule wins, else Other.
// Pure function: same inputs always give the same category.
func Categorize(description string, amount float64) string {
	desc := strings.ToLower(strings.TrimSpace(description))

	if amount > 0 {
		for _, kw := range IncomeKeywords {
			if strings.Contains(desc, kw) {
				return domain.CategoryIncome
			}
		}
	}

	for _, rule := range Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(desc, kw) {
				return rule.Category
			}
		}
	}
	return domain.CategoryOther
}

// ProgressFunc observes batch categorization progress. It is an
// optional injected observer; the engine never depends on it.
type ProgressFunc func(done, total int)

// All categorizes every transaction in place, overwriting any existing
// category, and reports progress after each row when a callback is set.
func All(txs []domain.Transaction, progress ProgressFunc) []domain.Transaction {
	total := len(txs)
	for i := range txs {
		txs[i].Category = Categorize(txs[i].Description, txs[i].Amount)
		if progress != nil {
			progress(i+1, total)
		}
	}
	return txs
}

// Distribution describes how categories are represented in a table.
type Distribution struct {
	Counts      map[string]int     `json:"counts"`
	Amounts     map[string]float64 `json:"amounts"`
	Percentages map[string]float64 `json:"percentages"`
}

// Distribute computes per-category transaction counts, absolute amount
// totals and count percentages.
func Distribute(txs []domain.Transaction) Distribution {
	dist := Distribution{
		Counts:      make(map[string]int),
		Amounts:     make(map[string]float64),
		Percentages: make(map[string]float64),
	}
	for _, tx := range txs {
		dist.Counts[tx.Category]++
		dist.Amounts[tx.Category] += tx.AbsAmount
	}
	if len(txs) > 0 {
		for cat, n := range dist.Counts {
			dist.Percentages[cat] = float64(n) / float64(len(txs)) * 100
		}
	}
	return dist
}

var wordPattern = regexp.MustCompile(`\b[a-zA-Z]{4,}\b`)

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"payment": true, "transaction": true,
}

// SuggestCustomCategories mines frequent description words that could
// serve as user-defined categories. Words must appear more than five
// times; the top ten suggestions are returned, most frequent first.
func SuggestCustomCategories(txs []domain.Transaction) []string {
	counts := make(map[string]int)
	for _, tx := range txs {
		for _, w := range wordPattern.FindAllString(strings.ToLower(tx.Description), -1) {
			counts[w]++
		}
	}

	type wordCount struct {
		word  string
		count int
	}
	var frequent []wordCount
	for w, n := range counts {
		if n > 5 && !stopWords[w] {
			frequent = append(frequent, wordCount{w, n})
		}
	}
	sort.Slice(frequent, func(i, j int) bool {
		if frequent[i].count != frequent[j].count {
			return frequent[i].count > frequent[j].count
		}
		return frequent[i].word < frequent[j].word
	})

	var suggestions []string
	for _, wc := range frequent {
		suggestions = append(suggestions, strings.ToUpper(wc.word[:1])+wc.word[1:])
		if len(suggestions) == 10 {
			break
		}
	}
	return suggestions
}
