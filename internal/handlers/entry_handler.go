package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "moneybook/internal/errors"
	"moneybook/internal/models"
	"moneybook/internal/pagination"
	"moneybook/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// EntryHandler handles entry-related requests.
type EntryHandler struct {
	entryService  services.EntryServicer
	exportService services.ExportServicer
	auditService  services.AuditServicer
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryService services.EntryServicer, exportService services.ExportServicer, auditService services.AuditServicer) *EntryHandler {
	return &EntryHandler{entryService: entryService, exportService: exportService, auditService: auditService}
}

// EntryRequest is the payload for creating or replacing an entry. Field
// rules are enforced by the entry validator so errors come back in a fixed
// order.
type EntryRequest struct {
	Description string           `json:"description" binding:"max=100"`
	Month       int              `json:"month"`
	Year        int              `json:"year"`
	Amount      decimal.Decimal  `json:"amount" swaggertype:"string" example:"125.50"`
	Type        models.EntryType `json:"type" enums:"INCOME,EXPENSE"`
}

// UpdateStatusRequest is the payload for a status change.
type UpdateStatusRequest struct {
	Status models.EntryStatus `json:"status" binding:"required" enums:"SETTLED,CANCELLED"`
}

// EntryQuery holds the optional list filters. Every given field must match.
type EntryQuery struct {
	Description *string `form:"description"`
	Month       *int    `form:"month" binding:"omitempty,min=1,max=12"`
	Year        *int    `form:"year" binding:"omitempty,min=1000,max=9999"`
	Type        string  `form:"type" binding:"omitempty,entry_type"`
	Status      string  `form:"status" binding:"omitempty,entry_status"`
}

// EntryResponse represents an entry in the response
type EntryResponse struct {
	ID          string             `json:"id"`
	UserID      string             `json:"user_id"`
	Description string             `json:"description"`
	Month       int                `json:"month"`
	Year        int                `json:"year"`
	Amount      string             `json:"amount" example:"125.5"`
	Type        models.EntryType   `json:"type"`
	Status      models.EntryStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// CreateEntry handles the creation of a new entry
// @Summary     Create an entry
// @Description Record an income or expense for the authenticated user. New entries start PENDING.
// @Tags        entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body EntryRequest true "Entry details"
// @Success     201 {object} EntryResponse "Entry created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /entries [post]
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry := &models.Entry{UserID: userID}
	req.apply(entry)

	entry, err = h.entryService.Create(entry)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_ENTRY", "entry", entry.ID, c.ClientIP(),
		map[string]interface{}{"type": entry.Type, "amount": entry.Amount.String()})

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// ListEntries handles the retrieval of the caller's entries
// @Summary     List entries
// @Description Paginated list of the authenticated user's entries, ordered by year, month and creation time
// @Tags        entries
// @Produce     json
// @Security    BearerAuth
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       description query string false "Exact description"
// @Param       month       query int    false "Month (1-12)"
// @Param       year        query int    false "Four digit year"
// @Param       type        query string false "INCOME or EXPENSE"
// @Param       status      query string false "PENDING, SETTLED or CANCELLED"
// @Success     200 {object} pagination.PageResponse[models.Entry] "Paginated entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /entries [get]
func (h *EntryHandler) ListEntries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseEntryFilter(c, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.entryService.List(filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportEntries streams the caller's entries as a spreadsheet
// @Summary     Export entries
// @Description Download the authenticated user's entries matching the filters as an XLSX workbook, followed by the settled balance
// @Tags        entries
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       description query string false "Exact description"
// @Param       month       query int    false "Month (1-12)"
// @Param       year        query int    false "Four digit year"
// @Param       type        query string false "INCOME or EXPENSE"
// @Param       status      query string false "PENDING, SETTLED or CANCELLED"
// @Success     200 {file}   file          "XLSX workbook"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /entries/export [get]
func (h *EntryHandler) ExportEntries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := parseEntryFilter(c, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	f, err := h.exportService.ExportEntries(filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="entries.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GetEntryByID handles the retrieval of a specific entry
// @Summary     Get entry by ID
// @Description Get one of the authenticated user's entries
// @Tags        entries
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Entry ID"
// @Success     200 {object} EntryResponse "Entry details"
// @Failure     400 {object} ErrorResponse "Invalid entry ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /entries/{id} [get]
func (h *EntryHandler) GetEntryByID(c *gin.Context) {
	entry, ok := h.loadOwnedEntry(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// UpdateEntry handles replacing the fields of an entry
// @Summary     Update entry
// @Description Replace description, month, year, amount and type of an entry. The status is changed through its own endpoint.
// @Tags        entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string       true "Entry ID"
// @Param       request body EntryRequest true "New entry fields"
// @Success     200 {object} EntryResponse "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /entries/{id} [put]
func (h *EntryHandler) UpdateEntry(c *gin.Context) {
	entry, ok := h.loadOwnedEntry(c)
	if !ok {
		return
	}

	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	before := entry.Amount.String()
	req.apply(entry)

	updated, err := h.entryService.Update(entry)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(entry.UserID, "UPDATE_ENTRY", "entry", entry.ID, c.ClientIP(),
		map[string]interface{}{"amount_before": before, "amount_after": updated.Amount.String()})

	c.JSON(http.StatusOK, gin.H{"entry": updated})
}

// UpdateEntryStatus handles a status change
// @Summary     Change entry status
// @Description Settle or cancel a pending entry. Settled and cancelled entries are final.
// @Tags        entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Entry ID"
// @Param       request body UpdateStatusRequest true "Target status"
// @Success     200 {object} EntryResponse "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid status"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     409 {object} ErrorResponse "Transition not allowed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /entries/{id}/status [patch]
func (h *EntryHandler) UpdateEntryStatus(c *gin.Context) {
	entry, ok := h.loadOwnedEntry(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	from := entry.Status
	updated, err := h.entryService.UpdateStatus(entry, req.Status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(entry.UserID, "UPDATE_ENTRY_STATUS", "entry", entry.ID, c.ClientIP(),
		map[string]interface{}{"from": from, "to": updated.Status})

	c.JSON(http.StatusOK, gin.H{"entry": updated})
}

// DeleteEntry handles the deletion of an entry
// @Summary     Delete entry
// @Description Delete one of the authenticated user's entries
// @Tags        entries
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Entry ID"
// @Success     200 {object} MessageResponse "Entry deleted"
// @Failure     400 {object} ErrorResponse "Invalid entry ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /entries/{id} [delete]
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	entry, ok := h.loadOwnedEntry(c)
	if !ok {
		return
	}

	if err := h.entryService.Delete(entry); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(entry.UserID, "DELETE_ENTRY", "entry", entry.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Entry deleted successfully"})
}

// loadOwnedEntry resolves the :id entry of the caller. Entries of other users
// are reported as not found. On failure the response is already written.
func (h *EntryHandler) loadOwnedEntry(c *gin.Context) (*models.Entry, bool) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return nil, false
	}

	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return nil, false
	}

	entry, found, err := h.entryService.FindByID(entryID)
	if err != nil {
		respondWithError(c, err)
		return nil, false
	}
	if !found || entry.UserID != userID {
		respondWithError(c, apperrors.ErrEntryNotFound)
		return nil, false
	}
	return entry, true
}

func (r *EntryRequest) apply(entry *models.Entry) {
	entry.Description = r.Description
	entry.Month = r.Month
	entry.Year = r.Year
	entry.Amount = r.Amount
	entry.Type = r.Type
}

// parseEntryFilter reads the list filters from the query string. The result
// is always scoped to userID.
func parseEntryFilter(c *gin.Context, userID string) (services.EntryFilter, error) {
	var q EntryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return services.EntryFilter{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	filter := services.EntryFilter{
		UserID:      &userID,
		Description: q.Description,
		Month:       q.Month,
		Year:        q.Year,
	}
	if q.Type != "" {
		entryType := models.EntryType(q.Type)
		filter.Type = &entryType
	}
	if q.Status != "" {
		status := models.EntryStatus(q.Status)
		filter.Status = &status
	}
	return filter, nil
}
