package utils

const (
	AppName = "Carpool"

	StatusSuccess = "success"
	StatusError   = "error"

	ErrInternalServer   = "internal server error"
	ErrValidationFailed = "validation failed"

	// Error codes surfaced to clients
	CodeRideNotFound     = "RIDE_NOT_FOUND"
	CodeNoSeatsAvailable = "NO_SEATS_AVAILABLE"
	CodeAlreadyJoined    = "ALREADY_JOINED"
	CodeIdentityMissing  = "IDENTITY_MISSING"
	CodeStorageFailure   = "STORAGE_FAILURE"
)
