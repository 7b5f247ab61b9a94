package models

import "github.com/shopspring/decimal"

// AmountScale is the number of decimal places an amount is stored with.
const AmountScale = 2

// MaxAmount is the exclusive upper bound of a storable amount, matching the
// decimal(16,2) column.
var MaxAmount = decimal.New(1, 14)

// EntryType tells whether an entry adds to or subtracts from the balance.
type EntryType string

const (
	EntryTypeIncome  EntryType = "INCOME"
	EntryTypeExpense EntryType = "EXPENSE"
)

// IsValid reports whether t is one of the known entry types.
func (t EntryType) IsValid() bool {
	return t == EntryTypeIncome || t == EntryTypeExpense
}

// EntryStatus is the lifecycle state of an entry.
type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "PENDING"
	EntryStatusSettled   EntryStatus = "SETTLED"
	EntryStatusCancelled EntryStatus = "CANCELLED"
)

// IsValid reports whether s is one of the known statuses.
func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusPending, EntryStatusSettled, EntryStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an entry in status s may move to next.
// Only pending entries change status; settled and cancelled are final.
func (s EntryStatus) CanTransitionTo(next EntryStatus) bool {
	if s != EntryStatusPending {
		return false
	}
	return next == EntryStatusSettled || next == EntryStatusCancelled
}

// Entry is a single income or expense line owned by a user.
// Amount is always positive; the direction comes from Type.
type Entry struct {
	Base
	Description string          `gorm:"size:100;not null" json:"description"`
	Month       int             `gorm:"not null" json:"month"`
	Year        int             `gorm:"not null" json:"year"`
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"amount"`
	Type        EntryType       `gorm:"size:20;not null" json:"type"`
	Status      EntryStatus     `gorm:"size:20;not null;index" json:"status"`
}
