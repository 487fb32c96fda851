package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"carpool/internal/config"
	"carpool/internal/models"
	"carpool/pkg/logger"
	"carpool/pkg/store"
)

// LedgerService is the durable record of who joined which ride.
type LedgerService interface {
	Append(ctx context.Context, record models.JoinRecord) error
	ListByPassenger(ctx context.Context, passengerEmail string) ([]models.JoinRecord, error)
	ListByCaptain(ctx context.Context, captainEmail string) ([]models.JoinRecord, error)
	RemoveByPassenger(ctx context.Context, passengerEmail string) error
	RemoveByCaptain(ctx context.Context, captainEmail string) error
	HasJoin(ctx context.Context, rideID, passengerEmail string) (bool, error)
	PassengersForRide(ctx context.Context, rideID string) ([]models.Passenger, error)
}

type ledgerService struct {
	store     store.Store
	logger    *logger.Logger
	booking   *config.BookingConfig
	ledgerKey string

	// Serializes ledger mutations; the ledger persists as one blob, so
	// concurrent appends would otherwise lose records to stale saves.
	mu sync.Mutex
}

func NewLedgerService(st store.Store, log *logger.Logger, storageCfg *config.StorageConfig, bookingCfg *config.BookingConfig) LedgerService {
	return &ledgerService{
		store:     st,
		logger:    log,
		booking:   bookingCfg,
		ledgerKey: storageCfg.KeyPrefix + ":joined_rides",
	}
}

func (s *ledgerService) loadRecords(ctx context.Context) ([]models.JoinRecord, error) {
	data, err := s.store.Get(ctx, s.ledgerKey)
	if errors.Is(err, store.ErrKeyNotFound) {
		return []models.JoinRecord{}, nil
	}
	if err != nil {
		return nil, storageErr("get", s.ledgerKey, err)
	}

	var records []models.JoinRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.WithError(err).Warn("Malformed booking ledger, treating as empty")
		return []models.JoinRecord{}, nil
	}
	return records, nil
}

func (s *ledgerService) saveRecords(ctx context.Context, records []models.JoinRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal booking ledger: %w", err)
	}
	if err := s.store.Set(ctx, s.ledgerKey, data); err != nil {
		return storageErr("set", s.ledgerKey, err)
	}
	return nil
}

func (s *ledgerService) Append(ctx context.Context, record models.JoinRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadRecords(ctx)
	if err != nil {
		return err
	}

	records = append(records, record)
	return s.saveRecords(ctx, records)
}

func (s *ledgerService) ListByPassenger(ctx context.Context, passengerEmail string) ([]models.JoinRecord, error) {
	records, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}

	mine := make([]models.JoinRecord, 0, len(records))
	for _, record := range records {
		if record.HasPassenger(passengerEmail) {
			mine = append(mine, record)
		}
	}
	return mine, nil
}

func (s *ledgerService) ListByCaptain(ctx context.Context, captainEmail string) ([]models.JoinRecord, error) {
	records, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}

	mine := make([]models.JoinRecord, 0, len(records))
	for _, record := range records {
		if record.CaptainEmail == captainEmail {
			mine = append(mine, record)
		}
	}
	return mine, nil
}

// RemoveByPassenger clears a passenger's booking history. The effect on
// records shared with co-passengers depends on the configured delete mode:
// "record" drops every record the passenger appears in, co-passengers
// included, which is what the app has always done; "membership" strips only
// that passenger and keeps the record alive for the others.
func (s *ledgerService) RemoveByPassenger(ctx context.Context, passengerEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadRecords(ctx)
	if err != nil {
		return err
	}

	changed := false
	kept := make([]models.JoinRecord, 0, len(records))
	for _, record := range records {
		if !record.HasPassenger(passengerEmail) {
			kept = append(kept, record)
			continue
		}
		changed = true

		if s.booking.HistoryDeleteMode == config.HistoryDeleteModeMembership {
			remaining := make([]models.Passenger, 0, len(record.JoinedPassengers))
			for _, p := range record.JoinedPassengers {
				if p.Email != passengerEmail {
					remaining = append(remaining, p)
				}
			}
			if len(remaining) > 0 {
				record.JoinedPassengers = remaining
				kept = append(kept, record)
			}
		}
		// "record" mode: drop the whole record.
	}

	if !changed {
		return nil
	}

	s.logger.WithUser(passengerEmail).
		WithField("mode", s.booking.HistoryDeleteMode).
		Info("Passenger history deleted")
	return s.saveRecords(ctx, kept)
}

func (s *ledgerService) RemoveByCaptain(ctx context.Context, captainEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadRecords(ctx)
	if err != nil {
		return err
	}

	kept := make([]models.JoinRecord, 0, len(records))
	for _, record := range records {
		if record.CaptainEmail != captainEmail {
			kept = append(kept, record)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	return s.saveRecords(ctx, kept)
}

func (s *ledgerService) HasJoin(ctx context.Context, rideID, passengerEmail string) (bool, error) {
	records, err := s.loadRecords(ctx)
	if err != nil {
		return false, err
	}

	for _, record := range records {
		if record.RideID == rideID && record.HasPassenger(passengerEmail) {
			return true, nil
		}
	}
	return false, nil
}

// PassengersForRide returns the roster of the latest record for the ride.
// Records accumulate passengers booking by booking, so the newest one
// already holds everyone who joined before it.
func (s *ledgerService) PassengersForRide(ctx context.Context, rideID string) ([]models.Passenger, error) {
	records, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}

	var roster []models.Passenger
	for _, record := range records {
		if record.RideID == rideID {
			roster = record.JoinedPassengers
		}
	}

	out := make([]models.Passenger, len(roster))
	copy(out, roster)
	return out, nil
}
