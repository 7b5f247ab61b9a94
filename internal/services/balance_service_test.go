package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"moneybook/internal/models"
	"moneybook/internal/testutil"
	"moneybook/internal/uuid"
)

func TestBalanceForUser(t *testing.T) {
	t.Run("settled_income_minus_settled_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBalanceService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestEntry(t, db, user.ID, models.EntryTypeIncome, models.EntryStatusSettled, "100")
		testutil.CreateTestEntry(t, db, user.ID, models.EntryTypeExpense, models.EntryStatusSettled, "40")
		testutil.CreateTestEntry(t, db, user.ID, models.EntryTypeIncome, models.EntryStatusPending, "1000")

		balance, err := svc.BalanceForUser(user.ID)
		testutil.AssertNoError(t, err)
		if !balance.Equal(decimal.NewFromInt(60)) {
			t.Errorf("expected balance 60, got %s", balance)
		}
	})

	t.Run("no_entries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBalanceService(db)
		user := testutil.CreateTestUser(t, db)

		balance, err := svc.BalanceForUser(user.ID)
		testutil.AssertNoError(t, err)
		if !balance.IsZero() {
			t.Errorf("expected zero balance, got %s", balance)
		}
	})

	t.Run("unknown_user_is_zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBalanceService(db)

		balance, err := svc.BalanceForUser(uuid.New())
		testutil.AssertNoError(t, err)
		if !balance.IsZero() {
			t.Errorf("expected zero balance, got %s", balance)
		}
	})

	t.Run("only_expenses_goes_negative", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBalanceService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestEntry(t, db, user.ID, models.EntryTypeExpense, models.EntryStatusSettled, "12.34")

		balance, err := svc.BalanceForUser(user.ID)
		testutil.AssertNoError(t, err)
		if !balance.Equal(decimal.RequireFromString("-12.34")) {
			t.Errorf("expected balance -12.34, got %s", balance)
		}
	})

	t.Run("cent_amounts_sum_exactly", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBalanceService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestEntry(t, db, user.ID, models.EntryTypeIncome, models.EntryStatusSettled, "0.10")
		testutil.CreateTestEntry(t, db, user.ID, models.EntryTypeIncome, models.EntryStatusSettled, "0.20")
		testutil.CreateTestEntry(t, db, user.ID, models.EntryTypeExpense, models.EntryStatusSettled, "0.07")

		balance, err := svc.BalanceForUser(user.ID)
		testutil.AssertNoError(t, err)
		if !balance.Equal(decimal.RequireFromString("0.23")) {
			t.Errorf("expected balance 0.23, got %s", balance)
		}

		summary, err := svc.Summary(user.ID)
		testutil.AssertNoError(t, err)
		if !summary.Income.Equal(decimal.RequireFromString("0.30")) {
			t.Errorf("expected income 0.30, got %s", summary.Income)
		}
	})

	t.Run("ignores_cancelled_and_other_users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBalanceService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)

		testutil.CreateTestEntry(t, db, user.ID, models.EntryTypeIncome, models.EntryStatusSettled, "10")
		testutil.CreateTestEntry(t, db, user.ID, models.EntryTypeIncome, models.EntryStatusCancelled, "500")
		testutil.CreateTestEntry(t, db, user.ID, models.EntryTypeExpense, models.EntryStatusCancelled, "700")
		testutil.CreateTestEntry(t, db, other.ID, models.EntryTypeIncome, models.EntryStatusSettled, "900")

		balance, err := svc.BalanceForUser(user.ID)
		testutil.AssertNoError(t, err)
		if !balance.Equal(decimal.NewFromInt(10)) {
			t.Errorf("expected balance 10, got %s", balance)
		}
	})

	t.Run("reflects_status_changes_immediately", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		balances := NewBalanceService(db)
		entries := NewEntryService(db)
		user := testutil.CreateTestUser(t, db)

		entry, err := entries.Create(testutil.NewEntry(user.ID, models.EntryTypeIncome, "25.50"))
		testutil.AssertNoError(t, err)

		before, err := balances.BalanceForUser(user.ID)
		testutil.AssertNoError(t, err)
		if !before.IsZero() {
			t.Fatalf("pending entry should not count, got %s", before)
		}

		_, err = entries.UpdateStatus(entry, models.EntryStatusSettled)
		testutil.AssertNoError(t, err)

		after, err := balances.BalanceForUser(user.ID)
		testutil.AssertNoError(t, err)
		if !after.Equal(decimal.RequireFromString("25.5")) {
			t.Errorf("expected balance 25.5, got %s", after)
		}
	})
}

func TestBalanceSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBalanceService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestEntry(t, db, user.ID, models.EntryTypeIncome, models.EntryStatusSettled, "300")
	testutil.CreateTestEntry(t, db, user.ID, models.EntryTypeIncome, models.EntryStatusSettled, "0.75")
	testutil.CreateTestEntry(t, db, user.ID, models.EntryTypeExpense, models.EntryStatusSettled, "120.25")

	summary, err := svc.Summary(user.ID)
	testutil.AssertNoError(t, err)

	if !summary.Income.Equal(decimal.RequireFromString("300.75")) {
		t.Errorf("expected income 300.75, got %s", summary.Income)
	}
	if !summary.Expense.Equal(decimal.RequireFromString("120.25")) {
		t.Errorf("expected expense 120.25, got %s", summary.Expense)
	}
	if !summary.Balance.Equal(decimal.RequireFromString("180.5")) {
		t.Errorf("expected balance 180.5, got %s", summary.Balance)
	}
	if summary.UserID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, summary.UserID)
	}
}
