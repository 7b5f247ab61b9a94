package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"moneybook/internal/models"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:     fmt.Sprintf("Test User %d", nextID()),
		Email:    email,
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestEntry stores an entry for the given user directly, bypassing the
// service so any status can be seeded. amount is a decimal string.
func CreateTestEntry(t *testing.T, db *gorm.DB, userID string, entryType models.EntryType, status models.EntryStatus, amount string) *models.Entry {
	t.Helper()

	value, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("invalid fixture amount %q: %v", amount, err)
	}

	entry := &models.Entry{
		Description: fmt.Sprintf("Test Entry %d", nextID()),
		Month:       1,
		Year:        2024,
		UserID:      userID,
		Amount:      value,
		Type:        entryType,
		Status:      status,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test entry: %v", err)
	}
	return entry
}

// NewEntry returns a valid, unsaved entry for the given user.
func NewEntry(userID string, entryType models.EntryType, amount string) *models.Entry {
	return &models.Entry{
		Description: "Groceries",
		Month:       3,
		Year:        2024,
		UserID:      userID,
		Amount:      decimal.RequireFromString(amount),
		Type:        entryType,
	}
}
