package validators

import (
	"strings"
	"time"
)

type PublishRideRequest struct {
	StartingPoint    string    `json:"starting_point"`
	Destination      string    `json:"destination"`
	Time             time.Time `json:"time"`
	CarModel         string    `json:"car_model"`
	CarNumber        string    `json:"car_number"`
	ProfileImage     string    `json:"profile_image"`
	SeatsAvailable   int       `json:"seats_available"`
	CostPerPassenger float64   `json:"cost_per_passenger"`
}

// Validate returns a field -> message map; empty means the request is valid.
func (r *PublishRideRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.StartingPoint) == "" {
		errors["starting_point"] = "starting point is required"
	}
	if strings.TrimSpace(r.Destination) == "" {
		errors["destination"] = "destination is required"
	}
	if r.Time.IsZero() {
		errors["time"] = "scheduled time is required"
	} else if !r.Time.After(time.Now()) {
		errors["time"] = "scheduled time must be in the future"
	}
	if strings.TrimSpace(r.CarNumber) == "" {
		errors["car_number"] = "car number is required"
	}
	if r.SeatsAvailable < 1 {
		errors["seats_available"] = "at least one seat must be offered"
	}
	if r.CostPerPassenger < 0 {
		errors["cost_per_passenger"] = "cost per passenger cannot be negative"
	}

	return errors
}
