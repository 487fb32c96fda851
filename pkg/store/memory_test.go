package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	value := []byte(`{"hello":"world"}`)
	require.NoError(t, st.Set(ctx, "key", value))

	got, err := st.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestMemoryStoreMissingKey(t *testing.T) {
	st := NewMemoryStore()

	_, err := st.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStoreRemove(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, "key", []byte("value")))
	require.NoError(t, st.Remove(ctx, "key"))

	_, err := st.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Removing an absent key is not an error.
	assert.NoError(t, st.Remove(ctx, "key"))
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	original := []byte("value")
	require.NoError(t, st.Set(ctx, "key", original))
	original[0] = 'X'

	got, err := st.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)

	got[0] = 'Y'
	again, err := st.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), again)
}

// Serialized records must reload with every attribute intact.
func TestStoredRecordRoundTrip(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	type ride struct {
		ID               string    `json:"id"`
		Destination      string    `json:"destination"`
		Time             time.Time `json:"time"`
		SeatsAvailable   int       `json:"seats_available"`
		CostPerPassenger float64   `json:"cost_per_passenger"`
	}

	in := ride{
		ID:               "r1",
		Destination:      "Downtown",
		Time:             time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
		SeatsAvailable:   3,
		CostPerPassenger: 49.5,
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, "rides", data))

	stored, err := st.Get(ctx, "rides")
	require.NoError(t, err)

	var out ride
	require.NoError(t, json.Unmarshal(stored, &out))
	assert.Equal(t, in, out)
}
