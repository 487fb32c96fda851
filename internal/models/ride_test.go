package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRideStatusAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		time time.Time
		want RideStatus
	}{
		{"future ride is upcoming", now.Add(time.Hour), RideStatusUpcoming},
		{"past ride is completed", now.Add(-time.Hour), RideStatusCompleted},
		{"ride at exactly now is completed", now, RideStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ride := Ride{Time: tt.time}
			assert.Equal(t, tt.want, ride.StatusAt(now))

			record := JoinRecord{Time: tt.time}
			assert.Equal(t, tt.want, record.StatusAt(now))
		})
	}
}

func TestRideIsOpen(t *testing.T) {
	assert.True(t, (&Ride{SeatsAvailable: 1}).IsOpen())
	assert.False(t, (&Ride{SeatsAvailable: 0}).IsOpen())
}

func TestJoinRecordHasPassenger(t *testing.T) {
	record := JoinRecord{
		JoinedPassengers: []Passenger{
			{Email: "a@x.com"},
			{Email: "b@x.com"},
		},
	}

	assert.True(t, record.HasPassenger("a@x.com"))
	assert.False(t, record.HasPassenger("c@x.com"))
	assert.False(t, (&JoinRecord{}).HasPassenger("a@x.com"))
}
