package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/budgetglass/budgetglass/internal/parser"
)

// CategoryTotal is one category's slice of spending.
type CategoryTotal struct {
	Category string  `json:"category"`
	Color    string  `json:"color"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// PeriodTotal is spending grouped into one calendar period.
type PeriodTotal struct {
	Period string  `json:"period"`
	Total  float64 `json:"total"`
	Count  int     `json:"count"`
}

// Summary is the aggregation contract downstream reporting consumes.
// Expense figures cover negative-amount transactions whose category is not
// flagged ExcludeFromSpending (card payments are transfers, not spending).
type Summary struct {
	TotalSpent     float64         `json:"totalSpent"`
	AverageExpense float64         `json:"averageExpense"`
	LargestExpense float64         `json:"largestExpense"`
	ExpenseCount   int             `json:"expenseCount"`
	ByCategory     []CategoryTotal `json:"byCategory"`
	ByMonth        []PeriodTotal   `json:"byMonth"`
	ByWeek         []PeriodTotal   `json:"byWeek"`
}

// Summarize aggregates the current list by category, month and ISO week.
// Dates without a year get one inferred relative to now (months later than
// the current month belong to the previous year). Category groups are
// sorted by total descending, periods chronologically.
func (l *Ledger) Summarize(now time.Time) Summary {
	l.mu.Lock()
	txns := make([]txnView, len(l.txns))
	for i, t := range l.txns {
		txns[i] = txnView{t.Date, t.Description, t.Amount, t.Category}
	}
	l.mu.Unlock()

	var sum Summary
	byCat := make(map[string]*CategoryTotal)
	byMonth := make(map[string]*PeriodTotal)
	byWeek := make(map[string]*PeriodTotal)

	for _, t := range txns {
		if t.amount >= 0 {
			continue
		}
		if cat, ok := l.engine.Rules().Lookup(t.category); ok && cat.ExcludeFromSpending {
			continue
		}
		spent := -t.amount

		sum.TotalSpent += spent
		sum.ExpenseCount++
		if spent > sum.LargestExpense {
			sum.LargestExpense = spent
		}

		ct, ok := byCat[t.category]
		if !ok {
			color := ""
			if cat, found := l.engine.Rules().Lookup(t.category); found {
				color = cat.Color
			}
			ct = &CategoryTotal{Category: t.category, Color: color}
			byCat[t.category] = ct
		}
		ct.Total += spent
		ct.Count++

		if month, week, ok := periodKeys(t.date, now); ok {
			addPeriod(byMonth, month, spent)
			addPeriod(byWeek, week, spent)
		}
	}

	if sum.ExpenseCount > 0 {
		sum.AverageExpense = sum.TotalSpent / float64(sum.ExpenseCount)
	}

	for _, ct := range byCat {
		sum.ByCategory = append(sum.ByCategory, *ct)
	}
	sort.Slice(sum.ByCategory, func(a, b int) bool {
		return sum.ByCategory[a].Total > sum.ByCategory[b].Total
	})

	sum.ByMonth = sortedPeriods(byMonth)
	sum.ByWeek = sortedPeriods(byWeek)
	return sum
}

// txnView is the minimal projection Summarize works on outside the lock.
type txnView struct {
	date        string
	description string
	amount      float64
	category    string
}

func addPeriod(m map[string]*PeriodTotal, key string, spent float64) {
	pt, ok := m[key]
	if !ok {
		pt = &PeriodTotal{Period: key}
		m[key] = pt
	}
	pt.Total += spent
	pt.Count++
}

func sortedPeriods(m map[string]*PeriodTotal) []PeriodTotal {
	out := make([]PeriodTotal, 0, len(m))
	for _, pt := range m {
		out = append(out, *pt)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Period < out[b].Period })
	return out
}

// periodKeys resolves a stored date to "YYYY-MM" and "YYYY-Wnn" keys.
func periodKeys(date string, now time.Time) (month, week string, ok bool) {
	m, d, y, ok := parser.SplitDate(date)
	if !ok {
		return "", "", false
	}
	if y == 0 {
		y = parser.InferYear(m, now)
	}
	month = fmt.Sprintf("%04d-%02d", y, m)

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	isoYear, isoWeek := t.ISOWeek()
	week = fmt.Sprintf("%04d-W%02d", isoYear, isoWeek)
	return month, week, true
}
