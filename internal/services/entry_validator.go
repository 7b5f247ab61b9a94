package services

import (
	"strings"

	"github.com/shopspring/decimal"

	apperrors "moneybook/internal/errors"
	"moneybook/internal/models"
)

const (
	minYear = 1000
	maxYear = 9999
)

// ValidateEntry checks the fields of an entry before it is written and
// returns the first rule it breaks. The order is fixed so that the same entry
// always yields the same error: description, month, year, user, amount, type.
func ValidateEntry(entry *models.Entry) error {
	if strings.TrimSpace(entry.Description) == "" {
		return apperrors.ErrMissingDescription
	}

	if entry.Month < 1 || entry.Month > 12 {
		return apperrors.ErrInvalidMonth
	}

	// Four digits, no further lower bound.
	if entry.Year < minYear || entry.Year > maxYear {
		return apperrors.ErrInvalidYear
	}

	if entry.UserID == "" {
		return apperrors.ErrMissingUser
	}

	if !validAmount(entry.Amount) {
		return apperrors.ErrInvalidAmount
	}

	if !entry.Type.IsValid() {
		return apperrors.ErrMissingType
	}

	return nil
}

// validAmount accepts positive amounts that fit the stored column exactly:
// at most two decimal places and below MaxAmount.
func validAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() &&
		amount.Equal(amount.Round(models.AmountScale)) &&
		amount.LessThan(models.MaxAmount)
}
