package handlers

import (
	"errors"
	"net/http"

	"carpool/internal/models"
	"carpool/internal/services"
	"carpool/internal/utils"
	"carpool/internal/validators"
	"carpool/pkg/realtime"

	"github.com/gin-gonic/gin"
)

type RideHandler struct {
	catalog  services.CatalogService
	identity services.IdentityService
	hub      *realtime.Hub
}

func NewRideHandler(catalog services.CatalogService, identity services.IdentityService, hub *realtime.Hub) *RideHandler {
	return &RideHandler{
		catalog:  catalog,
		identity: identity,
		hub:      hub,
	}
}

// ListRides returns the open catalog, optionally filtered by destination.
func (h *RideHandler) ListRides(c *gin.Context) {
	destination := c.Query("destination")

	var rides []models.Ride
	var err error
	if destination == "" {
		rides, err = h.catalog.ListAll(c.Request.Context())
	} else {
		rides, err = h.catalog.Search(c.Request.Context(), destination)
	}
	if err != nil {
		respondBookingError(c, err)
		return
	}

	utils.SuccessResponse(c, "Rides retrieved successfully", rides)
}

// PublishRide creates a new ride offer owned by the current captain.
func (h *RideHandler) PublishRide(c *gin.Context) {
	var request validators.PublishRideRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if validationErrors := request.Validate(); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	captain, err := h.identity.CurrentUser(c.Request.Context())
	if err != nil {
		respondBookingError(c, err)
		return
	}

	ride := models.Ride{
		StartingPoint:    request.StartingPoint,
		Destination:      request.Destination,
		Time:             request.Time,
		CaptainName:      captain.Name,
		CaptainEmail:     captain.Email,
		Phone:            captain.Phone,
		CarModel:         request.CarModel,
		CarNumber:        request.CarNumber,
		ProfileImage:     request.ProfileImage,
		SeatsAvailable:   request.SeatsAvailable,
		CostPerPassenger: request.CostPerPassenger,
	}

	published, err := h.catalog.Publish(c.Request.Context(), ride)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	utils.CreatedResponse(c, "Ride published successfully", published)
}

// JoinRide books one seat on the ride for the current user.
func (h *RideHandler) JoinRide(c *gin.Context) {
	rideID := c.Param("id")
	if rideID == "" {
		utils.BadRequestResponse(c, "Ride ID is required")
		return
	}

	user, err := h.identity.CurrentUser(c.Request.Context())
	if err != nil {
		respondBookingError(c, err)
		return
	}

	ride, record, err := h.catalog.BookSeat(c.Request.Context(), rideID, user.AsPassenger())
	if err != nil {
		respondBookingError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride joined successfully", gin.H{
		"ride":   ride,
		"record": record,
	})
}

// ServeWS attaches the client to the realtime catalog event feed.
func (h *RideHandler) ServeWS(c *gin.Context) {
	user, err := h.identity.CurrentUser(c.Request.Context())
	if err != nil {
		respondBookingError(c, err)
		return
	}

	if err := realtime.ServeWS(h.hub, c.Writer, c.Request, user.Email); err != nil {
		utils.InternalServerErrorResponse(c)
	}
}

// respondBookingError maps the booking error taxonomy onto HTTP responses.
// Every kind is recoverable; nothing here terminates the process.
func respondBookingError(c *gin.Context, err error) {
	var storageErr *services.StorageError

	switch {
	case errors.Is(err, services.ErrRideNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, utils.CodeRideNotFound, "Ride not found or already removed")
	case errors.Is(err, services.ErrNoSeatsAvailable):
		utils.ConflictResponse(c, utils.CodeNoSeatsAvailable, "No seats available for this ride")
	case errors.Is(err, services.ErrAlreadyJoined):
		utils.ConflictResponse(c, utils.CodeAlreadyJoined, "You have already joined this ride")
	case errors.Is(err, services.ErrIdentityMissing):
		utils.ErrorResponse(c, http.StatusUnauthorized, utils.CodeIdentityMissing, "User data not found. Please login again.")
	case errors.As(err, &storageErr):
		utils.ErrorResponse(c, http.StatusInternalServerError, utils.CodeStorageFailure, "Storage operation failed")
	default:
		utils.InternalServerErrorResponse(c)
	}
}
