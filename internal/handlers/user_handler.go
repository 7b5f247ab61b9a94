package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moneybook/internal/errors"
	"moneybook/internal/services"
)

// UserHandler serves per-user figures.
type UserHandler struct {
	userService    services.UserServicer
	balanceService services.BalanceServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer, balanceService services.BalanceServicer) *UserHandler {
	return &UserHandler{userService: userService, balanceService: balanceService}
}

// GetBalance returns the settled balance of a user
// @Summary     Get user balance
// @Description Settled income minus settled expenses. Pending and cancelled entries are ignored. Callers may only read their own balance.
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {object} services.BalanceSummary "Balance"
// @Failure     400 {object} ErrorResponse "Invalid user ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Another user's balance"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{id}/balance [get]
func (h *UserHandler) GetBalance(c *gin.Context) {
	callerID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if userID != callerID {
		respondWithError(c, apperrors.ErrForbidden)
		return
	}

	_, found, err := h.userService.LookupByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !found {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrUserNotFound, "User not found"))
		return
	}

	summary, err := h.balanceService.Summary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
