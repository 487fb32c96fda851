package services

import (
	"context"
	"testing"
	"time"

	"carpool/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistory(t *testing.T) (HistoryService, CatalogService, LedgerService) {
	t.Helper()
	catalog, ledger, _ := newTestCatalog(t)
	return NewHistoryService(catalog, ledger, newTestLogger(t)), catalog, ledger
}

func TestCaptainHistoryIncludesSoldOutRides(t *testing.T) {
	history, catalog, _ := newTestHistory(t)
	ctx := context.Background()

	_, err := catalog.Publish(ctx, testRide("r1", "Downtown", 1))
	require.NoError(t, err)
	_, _, err = catalog.BookSeat(ctx, "r1", testPassenger("a@x.com"))
	require.NoError(t, err)

	// Sold out, so gone from the open catalog but still in history.
	open, err := catalog.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	entries, err := history.CaptainHistory(ctx, "asha@x.com")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "r1", entries[0].Ride.ID)
	assert.Equal(t, 0, entries[0].Ride.SeatsAvailable)
}

func TestHistoryStatusDerivedFromClock(t *testing.T) {
	history, catalog, _ := newTestHistory(t)
	ctx := context.Background()

	future := testRide("future", "Downtown", 2)
	future.Time = time.Now().Add(24 * time.Hour)
	_, err := catalog.Publish(ctx, future)
	require.NoError(t, err)

	past := testRide("past", "Airport", 2)
	past.Time = time.Now().Add(-24 * time.Hour)
	_, err = catalog.Publish(ctx, past)
	require.NoError(t, err)

	entries, err := history.CaptainHistory(ctx, "asha@x.com")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byID := map[string]models.RideStatus{}
	for _, entry := range entries {
		byID[entry.Ride.ID] = entry.Status
	}
	assert.Equal(t, models.RideStatusUpcoming, byID["future"])
	assert.Equal(t, models.RideStatusCompleted, byID["past"])
}

func TestPassengerHistory(t *testing.T) {
	history, catalog, _ := newTestHistory(t)
	ctx := context.Background()

	_, err := catalog.Publish(ctx, testRide("r1", "Downtown", 2))
	require.NoError(t, err)
	_, _, err = catalog.BookSeat(ctx, "r1", testPassenger("a@x.com"))
	require.NoError(t, err)

	entries, err := history.PassengerHistory(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "r1", entries[0].Record.RideID)
	assert.Equal(t, models.RideStatusUpcoming, entries[0].Status)

	none, err := history.PassengerHistory(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestClearCaptainHistoryLeavesOtherCaptains(t *testing.T) {
	history, catalog, ledger := newTestHistory(t)
	ctx := context.Background()

	_, err := catalog.Publish(ctx, testRide("r1", "Downtown", 2))
	require.NoError(t, err)
	other := testRide("r2", "Airport", 2)
	other.CaptainEmail = "other@x.com"
	_, err = catalog.Publish(ctx, other)
	require.NoError(t, err)

	_, _, err = catalog.BookSeat(ctx, "r1", testPassenger("a@x.com"))
	require.NoError(t, err)
	_, _, err = catalog.BookSeat(ctx, "r2", testPassenger("a@x.com"))
	require.NoError(t, err)

	require.NoError(t, history.ClearCaptainHistory(ctx, "asha@x.com"))

	mine, err := history.CaptainHistory(ctx, "asha@x.com")
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := history.CaptainHistory(ctx, "other@x.com")
	require.NoError(t, err)
	assert.Len(t, theirs, 1)

	records, err := ledger.ListByCaptain(ctx, "asha@x.com")
	require.NoError(t, err)
	assert.Empty(t, records)

	otherRecords, err := ledger.ListByCaptain(ctx, "other@x.com")
	require.NoError(t, err)
	assert.Len(t, otherRecords, 1)
}

func TestClearPassengerHistory(t *testing.T) {
	history, catalog, _ := newTestHistory(t)
	ctx := context.Background()

	_, err := catalog.Publish(ctx, testRide("r1", "Downtown", 2))
	require.NoError(t, err)
	_, _, err = catalog.BookSeat(ctx, "r1", testPassenger("a@x.com"))
	require.NoError(t, err)

	require.NoError(t, history.ClearPassengerHistory(ctx, "a@x.com"))

	entries, err := history.PassengerHistory(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
