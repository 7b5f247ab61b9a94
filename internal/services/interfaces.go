package services

import (
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"moneybook/internal/models"
	"moneybook/internal/pagination"
)

// UserServicer defines the contract for registration and authentication.
type UserServicer interface {
	Register(name, email, password string) (*models.User, error)
	Authenticate(email, password string) (*models.User, error)
	LookupByID(id string) (*models.User, bool, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// EntryFilter selects entries by example: every non-nil field must match
// exactly, nil fields are ignored.
type EntryFilter struct {
	UserID      *string
	Description *string
	Month       *int
	Year        *int
	Type        *models.EntryType
	Status      *models.EntryStatus
}

// EntryServicer defines the contract for entry bookkeeping.
//
// Update, Delete and UpdateStatus panic when handed an entry that was never
// persisted; that is a caller bug, not a business condition.
type EntryServicer interface {
	Create(entry *models.Entry) (*models.Entry, error)
	Update(entry *models.Entry) (*models.Entry, error)
	Delete(entry *models.Entry) error
	FindByID(id string) (*models.Entry, bool, error)
	FindByExample(filter EntryFilter) ([]models.Entry, error)
	List(filter EntryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Entry], error)
	UpdateStatus(entry *models.Entry, status models.EntryStatus) (*models.Entry, error)
}

// BalanceSummary holds the settled totals of a user.
type BalanceSummary struct {
	UserID  string          `json:"user_id"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// BalanceServicer computes balances from settled entries on every call.
type BalanceServicer interface {
	BalanceForUser(userID string) (decimal.Decimal, error)
	Summary(userID string) (*BalanceSummary, error)
}

// ExportServicer renders entries into downloadable workbooks.
type ExportServicer interface {
	ExportEntries(filter EntryFilter) (*excelize.File, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
