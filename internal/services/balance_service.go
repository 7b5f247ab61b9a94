package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "moneybook/internal/errors"
	"moneybook/internal/models"
)

// balanceService aggregates settled entries. Nothing is cached; every call
// re-reads the entries table.
type balanceService struct {
	db *gorm.DB
}

// NewBalanceService creates a new BalanceServicer.
func NewBalanceService(db *gorm.DB) BalanceServicer {
	return &balanceService{db: db}
}

// BalanceForUser returns settled income minus settled expenses.
func (s *balanceService) BalanceForUser(userID string) (decimal.Decimal, error) {
	summary, err := s.Summary(userID)
	if err != nil {
		return decimal.Zero, err
	}
	return summary.Balance, nil
}

// Summary returns the settled income and expense totals and their difference.
func (s *balanceService) Summary(userID string) (*BalanceSummary, error) {
	income, err := s.settledSum(userID, models.EntryTypeIncome)
	if err != nil {
		return nil, err
	}
	expense, err := s.settledSum(userID, models.EntryTypeExpense)
	if err != nil {
		return nil, err
	}

	return &BalanceSummary{
		UserID:  userID,
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}, nil
}

// settledSum totals the settled entries of one type. No matching rows yields zero.
// SQLite sums decimal columns as floating point, so the total is rounded back
// to the stored scale.
func (s *balanceService) settledSum(userID string, entryType models.EntryType) (decimal.Decimal, error) {
	var result struct {
		Total decimal.NullDecimal
	}
	err := s.db.Model(&models.Entry{}).
		Select("SUM(amount) AS total").
		Where("user_id = ? AND type = ? AND status = ?", userID, entryType, models.EntryStatusSettled).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !result.Total.Valid {
		return decimal.Zero, nil
	}
	return result.Total.Decimal.Round(models.AmountScale), nil
}
