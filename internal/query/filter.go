// Package query derives filtered, sorted, and grouped views from
// transaction lists. Everything here is a pure function: no database
// access, no mutation of the input slices.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/khademul4765/arther-hiseb-sub001/internal/models"
)

// Filter is a conjunction of optional predicates over transactions.
// A nil field means "no constraint".
type Filter struct {
	AccountID  *string
	Type       *models.TransactionType
	CategoryID *string
	DateStart  *time.Time
	DateEnd    *time.Time
	Search     string
}

// Apply returns the subsequence of txs satisfying every set predicate.
//
// Transfer handling follows the ledger's single-record representation:
// when the type filter is income or expense, transfer records are always
// excluded so they never pollute income/expense views; when the type
// filter is transfer, the category filter is ignored because transfers
// carry no user category.
func Apply(txs []models.Transaction, f Filter) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for i := range txs {
		if matches(&txs[i], f) {
			out = append(out, txs[i])
		}
	}
	return out
}

func matches(tx *models.Transaction, f Filter) bool {
	if f.Type != nil {
		switch *f.Type {
		case models.TransactionTypeIncome, models.TransactionTypeExpense:
			if tx.Type != *f.Type {
				return false
			}
		case models.TransactionTypeTransfer:
			if !tx.IsTransfer() {
				return false
			}
		}
	}

	if f.AccountID != nil {
		// A transfer touches both endpoints, so it shows up when either
		// side is the filtered account.
		if tx.AccountID != *f.AccountID &&
			(tx.ToAccountID == nil || *tx.ToAccountID != *f.AccountID) {
			return false
		}
	}

	// Category matching never applies to transfers.
	if f.CategoryID != nil && (f.Type == nil || *f.Type != models.TransactionTypeTransfer) {
		if tx.IsTransfer() {
			return false
		}
		if tx.CategoryID == nil || *tx.CategoryID != *f.CategoryID {
			return false
		}
	}

	if f.DateStart != nil && calendarDate(tx.Date).Before(calendarDate(*f.DateStart)) {
		return false
	}
	if f.DateEnd != nil && calendarDate(tx.Date).After(calendarDate(*f.DateEnd)) {
		return false
	}

	if f.Search != "" && !matchesSearch(tx, f.Search) {
		return false
	}

	return true
}

func matchesSearch(tx *models.Transaction, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(tx.Note), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(tx.Person), needle) {
		return true
	}
	for _, tag := range tx.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// Sort orders transactions by calendar date descending, then by
// time-of-day descending. A missing or unparseable time sorts as the
// earliest moment of its day. The input slice is not modified.
func Sort(txs []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := calendarDate(out[i].Date), calendarDate(out[j].Date)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return minutesOfDay(out[i].Time) > minutesOfDay(out[j].Time)
	})
	return out
}

// minutesOfDay parses "HH:MM" into minutes since midnight.
// Returns -1 for missing or malformed values so they sort earliest.
func minutesOfDay(clock string) int {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return -1
	}
	return t.Hour()*60 + t.Minute()
}

// calendarDate truncates a timestamp to its local calendar date.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
