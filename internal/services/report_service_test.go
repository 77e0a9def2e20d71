package services

import (
	"testing"
	"time"

	"github.com/khademul4765/arther-hiseb-sub001/internal/models"
	"github.com/khademul4765/arther-hiseb-sub001/internal/query"
	"github.com/khademul4765/arther-hiseb-sub001/internal/testutil"
)

func TestGetStatement(t *testing.T) {
	t.Run("groups_and_resolves_account_names", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		accountSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, accountSvc, false)
		svc := NewReportService(db, accountSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		day1 := time.Date(2025, 3, 9, 12, 0, 0, 0, time.Local)
		day2 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
		_, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeIncome, 1000, "pay", day1, "09:00", "", nil)
		testutil.AssertNoError(t, err)
		_, err = txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 400, "food", day2, "13:00", "", nil)
		testutil.AssertNoError(t, err)

		statement, err := svc.GetStatement(user.ID, query.Filter{})
		testutil.AssertNoError(t, err)

		if len(statement.Groups) != 2 {
			t.Fatalf("expected 2 date groups, got %d", len(statement.Groups))
		}
		// Newest date first.
		if !statement.Groups[0].Date.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)) {
			t.Errorf("expected March 10 first, got %v", statement.Groups[0].Date)
		}
		if statement.Groups[0].Lines[0].AccountName != account.Name {
			t.Errorf("expected account name %q, got %q", account.Name, statement.Groups[0].Lines[0].AccountName)
		}
		if statement.Totals.Income != 1000 || statement.Totals.Expense != 400 {
			t.Errorf("unexpected overall totals %+v", statement.Totals)
		}
	})

	t.Run("deleted_account_falls_back_to_raw_id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		accountSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, accountSvc, false)
		svc := NewReportService(db, accountSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 100, "", time.Now(), "", "", nil)
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, accountSvc.DeleteAccount(user.ID, account.ID))

		statement, err := svc.GetStatement(user.ID, query.Filter{})
		testutil.AssertNoError(t, err)

		if len(statement.Groups) != 1 {
			t.Fatalf("expected 1 group, got %d", len(statement.Groups))
		}
		if statement.Groups[0].Lines[0].AccountName != account.ID {
			t.Errorf("expected raw ID fallback %q, got %q", account.ID, statement.Groups[0].Lines[0].AccountName)
		}
	})

	t.Run("filter_applies", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		accountSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, accountSvc, false)
		svc := NewReportService(db, accountSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeIncome, 1000, "", time.Now(), "", "", nil)
		testutil.AssertNoError(t, err)
		_, err = txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 400, "", time.Now(), "", "", nil)
		testutil.AssertNoError(t, err)

		expense := models.TransactionTypeExpense
		statement, err := svc.GetStatement(user.ID, query.Filter{Type: &expense})
		testutil.AssertNoError(t, err)

		if statement.Totals.Income != 0 {
			t.Errorf("income should be filtered out, got %d", statement.Totals.Income)
		}
		if statement.Totals.Expense != 400 {
			t.Errorf("expected expense 400, got %d", statement.Totals.Expense)
		}
	})
}

func TestGetSummary(t *testing.T) {
	t.Run("totals_across_accounts_exclude_transfers", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		accountSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, accountSvc, false)
		svc := NewReportService(db, accountSvc)
		user := testutil.CreateTestUser(t, db)
		first := testutil.CreateTestAccountWithBalance(t, db, user.ID, 5000)
		second := testutil.CreateTestAccountWithBalance(t, db, user.ID, 2000)

		_, err := txSvc.CreateTransaction(user.ID, first.ID, nil, models.TransactionTypeIncome, 1000, "", time.Now(), "", "", nil)
		testutil.AssertNoError(t, err)
		_, err = txSvc.Transfer(user.ID, first.ID, second.ID, 500, "", time.Now(), "")
		testutil.AssertNoError(t, err)

		summary, err := svc.GetSummary(user.ID)
		testutil.AssertNoError(t, err)

		// 5000 + 2000 + 1000 income; the transfer moves money between
		// the accounts without changing the total.
		if summary.TotalBalance != 8000 {
			t.Errorf("expected total balance 8000, got %d", summary.TotalBalance)
		}
		if summary.Totals.Income != 1000 || summary.Totals.Expense != 0 {
			t.Errorf("transfer must not count as income or expense, got %+v", summary.Totals)
		}
		if len(summary.Accounts) != 2 {
			t.Errorf("expected 2 accounts, got %d", len(summary.Accounts))
		}
	})
}
