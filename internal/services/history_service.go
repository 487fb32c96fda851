package services

import (
	"context"
	"time"

	"carpool/internal/models"
	"carpool/pkg/logger"
)

// HistoryService is the read-only per-user projection over the catalog
// and the ledger, annotated with the derived Upcoming/Completed status.
type HistoryService interface {
	CaptainHistory(ctx context.Context, captainEmail string) ([]CaptainHistoryEntry, error)
	PassengerHistory(ctx context.Context, passengerEmail string) ([]PassengerHistoryEntry, error)
	ClearCaptainHistory(ctx context.Context, captainEmail string) error
	ClearPassengerHistory(ctx context.Context, passengerEmail string) error
}

type CaptainHistoryEntry struct {
	Ride   models.Ride       `json:"ride"`
	Status models.RideStatus `json:"status"`
}

type PassengerHistoryEntry struct {
	Record models.JoinRecord `json:"record"`
	Status models.RideStatus `json:"status"`
}

type historyService struct {
	catalog CatalogService
	ledger  LedgerService
	logger  *logger.Logger
	now     func() time.Time
}

func NewHistoryService(catalog CatalogService, ledger LedgerService, log *logger.Logger) HistoryService {
	return &historyService{
		catalog: catalog,
		ledger:  ledger,
		logger:  log,
		now:     time.Now,
	}
}

func (s *historyService) CaptainHistory(ctx context.Context, captainEmail string) ([]CaptainHistoryEntry, error) {
	rides, err := s.catalog.ListByCaptain(ctx, captainEmail)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entries := make([]CaptainHistoryEntry, 0, len(rides))
	for _, ride := range rides {
		entries = append(entries, CaptainHistoryEntry{
			Ride:   ride,
			Status: ride.StatusAt(now),
		})
	}
	return entries, nil
}

func (s *historyService) PassengerHistory(ctx context.Context, passengerEmail string) ([]PassengerHistoryEntry, error) {
	records, err := s.ledger.ListByPassenger(ctx, passengerEmail)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entries := make([]PassengerHistoryEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, PassengerHistoryEntry{
			Record: record,
			Status: record.StatusAt(now),
		})
	}
	return entries, nil
}

// ClearCaptainHistory removes the captain's rides and every join record
// against them. Other captains' rides and records are untouched.
func (s *historyService) ClearCaptainHistory(ctx context.Context, captainEmail string) error {
	if err := s.catalog.RemoveByCaptain(ctx, captainEmail); err != nil {
		return err
	}
	if err := s.ledger.RemoveByCaptain(ctx, captainEmail); err != nil {
		return err
	}

	s.logger.WithUser(captainEmail).Info("Captain history deleted")
	return nil
}

func (s *historyService) ClearPassengerHistory(ctx context.Context, passengerEmail string) error {
	return s.ledger.RemoveByPassenger(ctx, passengerEmail)
}
