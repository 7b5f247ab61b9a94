package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "moneybook/internal/errors"
	"moneybook/internal/models"
	"moneybook/internal/pagination"
	"moneybook/internal/uuid"
)

// ErrEntryNotPersisted is the panic value raised when an entry without an id
// reaches an operation that needs a stored row.
var ErrEntryNotPersisted = errors.New("entry has not been persisted: missing id")

// entryService handles entry-related business logic.
type entryService struct {
	db *gorm.DB
}

// NewEntryService creates a new EntryServicer.
func NewEntryService(db *gorm.DB) EntryServicer {
	return &entryService{db: db}
}

// Create validates and inserts a new entry. New entries always start PENDING.
func (s *entryService) Create(entry *models.Entry) (*models.Entry, error) {
	if err := ValidateEntry(entry); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		entry.Status = models.EntryStatusPending
		if err := tx.Create(entry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Update re-validates and saves a stored entry. An entry whose row is gone,
// including a soft-deleted one, yields ENTRY_NOT_FOUND.
func (s *entryService) Update(entry *models.Entry) (*models.Entry, error) {
	mustBePersisted(entry)

	if err := ValidateEntry(entry); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(entry).Select("*").Omit("id", "created_at", "deleted_at").Updates(entry)
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrEntryNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes a stored entry.
func (s *entryService) Delete(entry *models.Entry) error {
	mustBePersisted(entry)

	if err := s.db.Delete(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// FindByID returns the entry with the given id. A missing entry, including
// one asked for by a malformed id, is reported through the boolean.
func (s *entryService) FindByID(id string) (*models.Entry, bool, error) {
	if !uuid.IsValid(id) {
		return nil, false, nil
	}

	var entry models.Entry
	if err := s.db.Where("id = ?", id).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, true, nil
}

// FindByExample returns every entry matching the populated filter fields,
// oldest period first.
func (s *entryService) FindByExample(filter EntryFilter) ([]models.Entry, error) {
	var entries []models.Entry
	q := applyEntryFilter(s.db.Model(&models.Entry{}), filter)
	if err := q.Order(entryOrder).Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	return entries, nil
}

// List is the paginated form of FindByExample.
func (s *entryService) List(filter EntryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Entry], error) {
	page.Defaults()

	base := applyEntryFilter(s.db.Model(&models.Entry{}), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.Entry
	if err := base.Scopes(pagination.Paginate(page)).
		Order(entryOrder).
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateStatus moves a pending entry to SETTLED or CANCELLED and saves it
// through Update.
func (s *entryService) UpdateStatus(entry *models.Entry, status models.EntryStatus) (*models.Entry, error) {
	mustBePersisted(entry)

	if !status.IsValid() {
		return nil, apperrors.ErrInvalidStatus
	}
	if !entry.Status.CanTransitionTo(status) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidStatusTransition,
			"cannot change status from "+string(entry.Status)+" to "+string(status))
	}

	previous := entry.Status
	entry.Status = status
	updated, err := s.Update(entry)
	if err != nil {
		entry.Status = previous
		return nil, err
	}
	return updated, nil
}

const entryOrder = "year, month, created_at, id"

func applyEntryFilter(q *gorm.DB, f EntryFilter) *gorm.DB {
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Description != nil {
		q = q.Where("description = ?", *f.Description)
	}
	if f.Month != nil {
		q = q.Where("month = ?", *f.Month)
	}
	if f.Year != nil {
		q = q.Where("year = ?", *f.Year)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	return q
}

func mustBePersisted(entry *models.Entry) {
	if entry == nil || entry.IsNew() {
		panic(ErrEntryNotPersisted)
	}
}
