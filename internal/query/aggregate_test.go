package query

import (
	"testing"
	"time"

	"github.com/khademul4765/arther-hiseb-sub001/internal/models"
)

func TestSum(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	to := "acc-2"
	transfer := tx(models.TransactionTypeTransfer, 9999, day, "")
	transfer.ToAccountID = &to

	txs := []models.Transaction{
		tx(models.TransactionTypeIncome, 1000, day, ""),
		tx(models.TransactionTypeIncome, 500, day, ""),
		tx(models.TransactionTypeExpense, 300, day, ""),
		transfer,
	}

	totals := Sum(txs)
	if totals.Income != 1500 {
		t.Errorf("expected income 1500, got %d", totals.Income)
	}
	if totals.Expense != 300 {
		t.Errorf("expected expense 300, got %d", totals.Expense)
	}
	if totals.Net != 1200 {
		t.Errorf("expected net 1200, got %d", totals.Net)
	}
}

func TestSumEmpty(t *testing.T) {
	totals := Sum(nil)
	if totals.Income != 0 || totals.Expense != 0 || totals.Net != 0 {
		t.Errorf("expected zero totals, got %+v", totals)
	}
}

func TestTotalBalance(t *testing.T) {
	accounts := []models.Account{
		{Balance: 1000},
		{Balance: -250},
		{Balance: 4000},
	}
	if got := TotalBalance(accounts); got != 4750 {
		t.Errorf("expected total 4750, got %d", got)
	}
}

func TestGroupByDate(t *testing.T) {
	t.Run("groups_by_calendar_date_newest_first", func(t *testing.T) {
		d1 := time.Date(2025, 3, 9, 8, 0, 0, 0, time.Local)
		d2morning := time.Date(2025, 3, 10, 7, 0, 0, 0, time.Local)
		d2evening := time.Date(2025, 3, 10, 21, 0, 0, 0, time.Local)

		txs := []models.Transaction{
			tx(models.TransactionTypeIncome, 100, d1, "08:00"),
			tx(models.TransactionTypeExpense, 50, d2morning, "07:00"),
			tx(models.TransactionTypeIncome, 200, d2evening, "21:00"),
		}

		groups := GroupByDate(txs)
		if len(groups) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(groups))
		}
		if !groups[0].Date.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)) {
			t.Errorf("expected newest date first, got %v", groups[0].Date)
		}
		if len(groups[0].Transactions) != 2 {
			t.Errorf("expected 2 transactions on March 10, got %d", len(groups[0].Transactions))
		}
		// Within the day, later time first.
		if groups[0].Transactions[0].Amount != 200 {
			t.Errorf("expected 21:00 record first, got amount %d", groups[0].Transactions[0].Amount)
		}
	})

	t.Run("per_group_totals", func(t *testing.T) {
		d := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
		txs := []models.Transaction{
			tx(models.TransactionTypeIncome, 1000, d, "10:00"),
			tx(models.TransactionTypeExpense, 400, d, "11:00"),
		}

		groups := GroupByDate(txs)
		if len(groups) != 1 {
			t.Fatalf("expected 1 group, got %d", len(groups))
		}
		if groups[0].Totals.Income != 1000 || groups[0].Totals.Expense != 400 || groups[0].Totals.Net != 600 {
			t.Errorf("unexpected totals %+v", groups[0].Totals)
		}
	})

	t.Run("empty_input", func(t *testing.T) {
		if groups := GroupByDate(nil); len(groups) != 0 {
			t.Errorf("expected no groups, got %d", len(groups))
		}
	})
}
