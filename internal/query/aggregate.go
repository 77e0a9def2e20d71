package query

import (
	"time"

	"github.com/khademul4765/arther-hiseb-sub001/internal/models"
)

// Totals holds income/expense sums over a transaction list.
// Transfers are never counted on either side.
type Totals struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Net     int64 `json:"net"`
}

// DateGroup is one calendar day of transactions with its daily subtotals.
type DateGroup struct {
	Date         time.Time            `json:"date"`
	Totals       Totals               `json:"totals"`
	Transactions []models.Transaction `json:"transactions"`
}

// Sum computes income/expense totals for a transaction list.
func Sum(txs []models.Transaction) Totals {
	var t Totals
	for i := range txs {
		switch txs[i].Type {
		case models.TransactionTypeIncome:
			t.Income += txs[i].Amount
		case models.TransactionTypeExpense:
			t.Expense += txs[i].Amount
		}
	}
	t.Net = t.Income - t.Expense
	return t
}

// TotalBalance sums the balances of all accounts.
func TotalBalance(accounts []models.Account) int64 {
	var total int64
	for i := range accounts {
		total += accounts[i].Balance
	}
	return total
}

// GroupByDate splits transactions into calendar-date groups, newest date
// first, each group internally ordered by the standard sort. The input
// is sorted first so callers can pass an unordered list.
func GroupByDate(txs []models.Transaction) []DateGroup {
	ordered := Sort(txs)

	var groups []DateGroup
	for i := range ordered {
		day := calendarDate(ordered[i].Date)
		if len(groups) == 0 || !groups[len(groups)-1].Date.Equal(day) {
			groups = append(groups, DateGroup{Date: day})
		}
		g := &groups[len(groups)-1]
		g.Transactions = append(g.Transactions, ordered[i])
	}

	for i := range groups {
		groups[i].Totals = Sum(groups[i].Transactions)
	}
	return groups
}
