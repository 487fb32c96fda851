package handlers

import (
	"carpool/internal/services"
	"carpool/internal/utils"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	history  services.HistoryService
	identity services.IdentityService
}

func NewHistoryHandler(history services.HistoryService, identity services.IdentityService) *HistoryHandler {
	return &HistoryHandler{
		history:  history,
		identity: identity,
	}
}

func (h *HistoryHandler) CaptainHistory(c *gin.Context) {
	user, err := h.identity.CurrentUser(c.Request.Context())
	if err != nil {
		respondBookingError(c, err)
		return
	}

	entries, err := h.history.CaptainHistory(c.Request.Context(), user.Email)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	utils.SuccessResponse(c, "Captain history retrieved successfully", entries)
}

func (h *HistoryHandler) PassengerHistory(c *gin.Context) {
	user, err := h.identity.CurrentUser(c.Request.Context())
	if err != nil {
		respondBookingError(c, err)
		return
	}

	entries, err := h.history.PassengerHistory(c.Request.Context(), user.Email)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	utils.SuccessResponse(c, "Passenger history retrieved successfully", entries)
}

func (h *HistoryHandler) DeleteCaptainHistory(c *gin.Context) {
	user, err := h.identity.CurrentUser(c.Request.Context())
	if err != nil {
		respondBookingError(c, err)
		return
	}

	if err := h.history.ClearCaptainHistory(c.Request.Context(), user.Email); err != nil {
		respondBookingError(c, err)
		return
	}

	utils.SuccessResponse(c, "Your ride history has been deleted", nil)
}

func (h *HistoryHandler) DeletePassengerHistory(c *gin.Context) {
	user, err := h.identity.CurrentUser(c.Request.Context())
	if err != nil {
		respondBookingError(c, err)
		return
	}

	if err := h.history.ClearPassengerHistory(c.Request.Context(), user.Email); err != nil {
		respondBookingError(c, err)
		return
	}

	utils.SuccessResponse(c, "All your ride history has been deleted", nil)
}
