package models

import (
	"time"
)

type RideStatus string

const (
	RideStatusUpcoming  RideStatus = "Upcoming"
	RideStatusCompleted RideStatus = "Completed"
)

// Ride is a captain-published ride offer. A ride stays in the stored
// catalog after selling out so captain history can still see it, but the
// open catalog only exposes rides with seats remaining.
type Ride struct {
	ID               string    `json:"id" bson:"id"`
	StartingPoint    string    `json:"starting_point" bson:"starting_point"`
	Destination      string    `json:"destination" bson:"destination"`
	Time             time.Time `json:"time" bson:"time"`
	CaptainName      string    `json:"captain_name" bson:"captain_name"`
	CaptainEmail     string    `json:"captain_email" bson:"captain_email"`
	Phone            string    `json:"phone" bson:"phone"`
	CarModel         string    `json:"car_model" bson:"car_model"`
	CarNumber        string    `json:"car_number" bson:"car_number"`
	ProfileImage     string    `json:"profile_image,omitempty" bson:"profile_image,omitempty"`
	SeatsAvailable   int       `json:"seats_available" bson:"seats_available"`
	CostPerPassenger float64   `json:"cost_per_passenger" bson:"cost_per_passenger"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
}

// IsOpen reports whether the ride still accepts bookings.
func (r *Ride) IsOpen() bool {
	return r.SeatsAvailable > 0
}

// StatusAt derives the ride status from its scheduled time. The status is
// never stored; history recomputes it against the clock on every read.
func (r *Ride) StatusAt(now time.Time) RideStatus {
	if r.Time.After(now) {
		return RideStatusUpcoming
	}
	return RideStatusCompleted
}

// Passenger is one joined passenger inside a JoinRecord.
type Passenger struct {
	Email    string    `json:"email" bson:"email"`
	Name     string    `json:"name" bson:"name"`
	Phone    string    `json:"phone" bson:"phone"`
	JoinedAt time.Time `json:"joined_at" bson:"joined_at"`
}

// JoinRecord is the durable record that one or more passengers booked a
// ride. It snapshots the ride at booking time so later catalog mutations
// never rewrite history.
type JoinRecord struct {
	RideID           string      `json:"ride_id" bson:"ride_id"`
	StartingPoint    string      `json:"starting_point" bson:"starting_point"`
	Destination      string      `json:"destination" bson:"destination"`
	Time             time.Time   `json:"time" bson:"time"`
	CaptainName      string      `json:"captain_name" bson:"captain_name"`
	CaptainEmail     string      `json:"captain_email" bson:"captain_email"`
	Phone            string      `json:"phone" bson:"phone"`
	CarModel         string      `json:"car_model" bson:"car_model"`
	CarNumber        string      `json:"car_number" bson:"car_number"`
	CostPerPassenger float64     `json:"cost_per_passenger" bson:"cost_per_passenger"`
	JoinedPassengers []Passenger `json:"joined_passengers" bson:"joined_passengers"`
	JoinedDate       time.Time   `json:"joined_date" bson:"joined_date"`
}

// StatusAt mirrors Ride.StatusAt for the snapshotted schedule.
func (j *JoinRecord) StatusAt(now time.Time) RideStatus {
	if j.Time.After(now) {
		return RideStatusUpcoming
	}
	return RideStatusCompleted
}

// HasPassenger reports whether the given passenger identity appears in the
// joined-passengers list.
func (j *JoinRecord) HasPassenger(email string) bool {
	for _, p := range j.JoinedPassengers {
		if p.Email == email {
			return true
		}
	}
	return false
}
