package services

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"moneybook/internal/auth"
	apperrors "moneybook/internal/errors"
	"moneybook/internal/models"
	"moneybook/internal/uuid"
)

// userService handles user-related business logic.
type userService struct {
	db     *gorm.DB
	hasher auth.PasswordHasher

	decoyOnce sync.Once
	decoy     string
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB, hasher auth.PasswordHasher) UserServicer {
	return &userService{db: db, hasher: hasher}
}

// Register creates a user after checking the email is free. The stored
// password is the hasher's digest of the given plaintext.
func (s *userService) Register(name, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "password must be at most 72 bytes")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: digest,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrDuplicateEmail
		}

		if err := tx.Create(user).Error; err != nil {
			// A concurrent registration can pass the count check; the
			// unique index on users.email still rejects it.
			if isUniqueViolation(err) {
				return apperrors.ErrDuplicateEmail
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies an email/password pair. It reports an unknown email
// and a wrong password with different errors; callers facing the network
// decide whether to reveal the difference.
func (s *userService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Unknown emails cost one comparison, like wrong passwords.
			s.hasher.Matches(password, s.decoyDigest())
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !s.hasher.Matches(password, user.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return &user, nil
}

// LookupByID returns the user with the given id. A missing user is reported
// through the boolean, not as an error.
func (s *userService) LookupByID(id string) (*models.User, bool, error) {
	if !uuid.IsValid(id) {
		return nil, false, nil
	}

	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, true, nil
}

// StoreRefreshTokenHash saves the SHA-256 hash of the user's current refresh token.
func (s *userService) StoreRefreshTokenHash(userID, tokenHash string) error {
	result := s.db.Model(&models.User{}).Where("id = ?", userID).Update("refresh_token_hash", tokenHash)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// GetRefreshTokenHash returns the stored refresh token hash for the user.
func (s *userService) GetRefreshTokenHash(userID string) (string, error) {
	user, found, err := s.LookupByID(userID)
	if err != nil {
		return "", err
	}
	if !found {
		return "", apperrors.ErrUserNotFound
	}
	return user.RefreshTokenHash, nil
}

// decoyDigest returns a digest of a random secret, created on first use.
func (s *userService) decoyDigest() string {
	s.decoyOnce.Do(func() {
		digest, err := s.hasher.Hash(uuid.New())
		if err == nil {
			s.decoy = digest
		}
	})
	return s.decoy
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isUniqueViolation recognises unique-constraint failures from PostgreSQL
// (SQLSTATE 23505) and SQLite.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
