package services

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"moneybook/internal/models"
	"moneybook/internal/testutil"
)

func readExport(t *testing.T, f *excelize.File) [][]string {
	t.Helper()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	reopened, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer reopened.Close()

	rows, err := reopened.GetRows(ExportSheet)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	return rows
}

func TestExportEntries(t *testing.T) {
	t.Run("user_rows_with_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExportService(NewEntryService(db), NewBalanceService(db))
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)

		testutil.CreateTestEntry(t, db, user.ID, models.EntryTypeIncome, models.EntryStatusSettled, "100")
		testutil.CreateTestEntry(t, db, user.ID, models.EntryTypeExpense, models.EntryStatusSettled, "40")
		testutil.CreateTestEntry(t, db, other.ID, models.EntryTypeIncome, models.EntryStatusSettled, "5")

		f, err := svc.ExportEntries(EntryFilter{UserID: &user.ID})
		testutil.AssertNoError(t, err)
		defer f.Close()

		rows := readExport(t, f)
		// header, two entries, blank spacer, balance
		if len(rows) != 5 {
			t.Fatalf("expected 5 rows, got %d: %v", len(rows), rows)
		}
		if rows[0][0] != "Description" || rows[0][5] != "Amount" {
			t.Errorf("unexpected header %v", rows[0])
		}
		if rows[1][3] != "INCOME" || rows[2][3] != "EXPENSE" {
			t.Errorf("unexpected entry types %q, %q", rows[1][3], rows[2][3])
		}
		last := rows[4]
		if last[0] != "Settled balance" || last[5] != "60" {
			t.Errorf("unexpected balance row %v", last)
		}
	})

	t.Run("no_user_no_balance_row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExportService(NewEntryService(db), NewBalanceService(db))
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestEntry(t, db, user.ID, models.EntryTypeIncome, models.EntryStatusPending, "1")

		f, err := svc.ExportEntries(EntryFilter{})
		testutil.AssertNoError(t, err)
		defer f.Close()

		rows := readExport(t, f)
		if len(rows) != 2 {
			t.Fatalf("expected header and one entry, got %v", rows)
		}
	})

	t.Run("sheet_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExportService(NewEntryService(db), NewBalanceService(db))

		f, err := svc.ExportEntries(EntryFilter{})
		testutil.AssertNoError(t, err)
		defer f.Close()

		if got := f.GetSheetName(0); got != ExportSheet {
			t.Errorf("expected sheet %q, got %q", ExportSheet, got)
		}
	})
}
