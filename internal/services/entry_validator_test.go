package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"moneybook/internal/models"
	"moneybook/internal/testutil"
)

func validEntry() *models.Entry {
	return &models.Entry{
		Description: "Salary",
		Month:       6,
		Year:        2024,
		UserID:      "0190a7c4-0000-7000-8000-000000000001",
		Amount:      decimal.RequireFromString("1500.00"),
		Type:        models.EntryTypeIncome,
	}
}

func TestValidateEntry(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(e *models.Entry)
		wantCode string
	}{
		{"valid", func(e *models.Entry) {}, ""},
		{"blank_description", func(e *models.Entry) { e.Description = "   " }, "MISSING_DESCRIPTION"},
		{"empty_description", func(e *models.Entry) { e.Description = "" }, "MISSING_DESCRIPTION"},
		{"month_zero", func(e *models.Entry) { e.Month = 0 }, "INVALID_MONTH"},
		{"month_thirteen", func(e *models.Entry) { e.Month = 13 }, "INVALID_MONTH"},
		{"month_one", func(e *models.Entry) { e.Month = 1 }, ""},
		{"month_twelve", func(e *models.Entry) { e.Month = 12 }, ""},
		{"year_three_digits", func(e *models.Entry) { e.Year = 999 }, "INVALID_YEAR"},
		{"year_five_digits", func(e *models.Entry) { e.Year = 10000 }, "INVALID_YEAR"},
		{"year_lower_bound", func(e *models.Entry) { e.Year = 1000 }, ""},
		{"year_upper_bound", func(e *models.Entry) { e.Year = 9999 }, ""},
		{"missing_user", func(e *models.Entry) { e.UserID = "" }, "MISSING_USER"},
		{"zero_amount", func(e *models.Entry) { e.Amount = decimal.Zero }, "INVALID_AMOUNT"},
		{"negative_amount", func(e *models.Entry) { e.Amount = decimal.RequireFromString("-1") }, "INVALID_AMOUNT"},
		{"smallest_amount", func(e *models.Entry) { e.Amount = decimal.RequireFromString("0.01") }, ""},
		{"sub_cent_amount", func(e *models.Entry) { e.Amount = decimal.RequireFromString("0.001") }, "INVALID_AMOUNT"},
		{"three_decimal_places", func(e *models.Entry) { e.Amount = decimal.RequireFromString("12.345") }, "INVALID_AMOUNT"},
		{"trailing_zero_places", func(e *models.Entry) { e.Amount = decimal.RequireFromString("12.300") }, ""},
		{"largest_amount", func(e *models.Entry) { e.Amount = decimal.RequireFromString("99999999999999.99") }, ""},
		{"amount_too_large", func(e *models.Entry) { e.Amount = decimal.RequireFromString("100000000000000") }, "INVALID_AMOUNT"},
		{"amount_overflows_column", func(e *models.Entry) { e.Amount = decimal.RequireFromString("1e15") }, "INVALID_AMOUNT"},
		{"missing_type", func(e *models.Entry) { e.Type = "" }, "MISSING_TYPE"},
		{"unknown_type", func(e *models.Entry) { e.Type = "TRANSFER" }, "MISSING_TYPE"},
		{"expense", func(e *models.Entry) { e.Type = models.EntryTypeExpense }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.mutate(e)
			err := ValidateEntry(e)
			if tt.wantCode == "" {
				testutil.AssertNoError(t, err)
				return
			}
			testutil.AssertAppError(t, err, tt.wantCode)
		})
	}
}

// Each step clears one more broken field; the reported error must follow
// the fixed order description, month, year, user, amount, type.
func TestValidateEntry_ReportsFirstFailureInOrder(t *testing.T) {
	e := &models.Entry{}

	steps := []struct {
		wantCode string
		fix      func(e *models.Entry)
	}{
		{"MISSING_DESCRIPTION", func(e *models.Entry) { e.Description = "Rent" }},
		{"INVALID_MONTH", func(e *models.Entry) { e.Month = 2 }},
		{"INVALID_YEAR", func(e *models.Entry) { e.Year = 2023 }},
		{"MISSING_USER", func(e *models.Entry) { e.UserID = "0190a7c4-0000-7000-8000-000000000002" }},
		{"INVALID_AMOUNT", func(e *models.Entry) { e.Amount = decimal.NewFromInt(900) }},
		{"MISSING_TYPE", func(e *models.Entry) { e.Type = models.EntryTypeExpense }},
	}

	for _, step := range steps {
		testutil.AssertAppError(t, ValidateEntry(e), step.wantCode)
		step.fix(e)
	}
	testutil.AssertNoError(t, ValidateEntry(e))
}

func TestValidateEntry_IgnoresStatus(t *testing.T) {
	e := validEntry()
	e.Status = "WHATEVER"
	testutil.AssertNoError(t, ValidateEntry(e))
}
