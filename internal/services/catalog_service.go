package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"carpool/internal/config"
	"carpool/internal/models"
	"carpool/pkg/logger"
	"carpool/pkg/realtime"
	"carpool/pkg/store"

	"github.com/google/uuid"
)

// CatalogService maintains the set of bookable ride offers. The stored
// list keeps sold-out rides so captain history can still project them;
// every read-side operation filters down to open rides.
type CatalogService interface {
	ListAll(ctx context.Context) ([]models.Ride, error)
	Search(ctx context.Context, destination string) ([]models.Ride, error)
	Publish(ctx context.Context, ride models.Ride) (models.Ride, error)
	BookSeat(ctx context.Context, rideID string, passenger models.Passenger) (models.Ride, models.JoinRecord, error)
	ListByCaptain(ctx context.Context, captainEmail string) ([]models.Ride, error)
	RemoveByCaptain(ctx context.Context, captainEmail string) error
}

// Notifier is the fire-and-forget notification port. Implementations must
// never block the booking flow or surface delivery failures to it.
type Notifier interface {
	Dispatch(title, body string)
	DispatchTo(phone, title, body string)
}

// EventPublisher pushes catalog events to connected dashboards.
// *realtime.Hub satisfies it.
type EventPublisher interface {
	Publish(event realtime.Event)
}

type catalogService struct {
	store    store.Store
	ledger   LedgerService
	notifier Notifier
	events   EventPublisher
	logger   *logger.Logger
	booking  *config.BookingConfig
	ridesKey string
	now      func() time.Time

	// Serializes every catalog mutation. The catalog persists as one
	// blob, so the lock must match that granularity: a finer lock would
	// let a stale whole-list save erase another ride's sold seat.
	mu sync.Mutex
}

func NewCatalogService(st store.Store, ledger LedgerService, notifier Notifier, events EventPublisher, log *logger.Logger, storageCfg *config.StorageConfig, bookingCfg *config.BookingConfig) CatalogService {
	return &catalogService{
		store:    st,
		ledger:   ledger,
		notifier: notifier,
		events:   events,
		logger:   log,
		booking:  bookingCfg,
		ridesKey: storageCfg.KeyPrefix + ":rides",
		now:      time.Now,
	}
}

// loadRides reads the whole stored catalog. A missing key means an empty
// catalog; malformed persisted data degrades to an empty catalog instead
// of failing, to keep the app usable after corruption.
func (s *catalogService) loadRides(ctx context.Context) ([]models.Ride, error) {
	data, err := s.store.Get(ctx, s.ridesKey)
	if errors.Is(err, store.ErrKeyNotFound) {
		return []models.Ride{}, nil
	}
	if err != nil {
		return nil, storageErr("get", s.ridesKey, err)
	}

	var rides []models.Ride
	if err := json.Unmarshal(data, &rides); err != nil {
		s.logger.WithError(err).Warn("Malformed ride catalog, treating as empty")
		return []models.Ride{}, nil
	}
	return rides, nil
}

func (s *catalogService) saveRides(ctx context.Context, rides []models.Ride) error {
	data, err := json.Marshal(rides)
	if err != nil {
		return fmt.Errorf("failed to marshal ride catalog: %w", err)
	}
	if err := s.store.Set(ctx, s.ridesKey, data); err != nil {
		return storageErr("set", s.ridesKey, err)
	}
	return nil
}

func (s *catalogService) ListAll(ctx context.Context) ([]models.Ride, error) {
	rides, err := s.loadRides(ctx)
	if err != nil {
		return nil, err
	}

	open := make([]models.Ride, 0, len(rides))
	for _, ride := range rides {
		if ride.IsOpen() {
			open = append(open, ride)
		}
	}
	return open, nil
}

func (s *catalogService) Search(ctx context.Context, destination string) ([]models.Ride, error) {
	open, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if destination == "" {
		return open, nil
	}

	needle := strings.ToLower(destination)
	matched := make([]models.Ride, 0, len(open))
	for _, ride := range open {
		if strings.Contains(strings.ToLower(ride.Destination), needle) {
			matched = append(matched, ride)
		}
	}
	return matched, nil
}

func (s *catalogService) Publish(ctx context.Context, ride models.Ride) (models.Ride, error) {
	if ride.ID == "" {
		ride.ID = uuid.NewString()
	}
	if ride.CreatedAt.IsZero() {
		ride.CreatedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rides, err := s.loadRides(ctx)
	if err != nil {
		return models.Ride{}, err
	}

	rides = append(rides, ride)
	if err := s.saveRides(ctx, rides); err != nil {
		return models.Ride{}, err
	}

	s.logger.WithRideID(ride.ID).WithUser(ride.CaptainEmail).Info("Ride published")
	s.publishEvent(realtime.Event{
		Type:   realtime.EventRidePublished,
		RideID: ride.ID,
		Data: map[string]interface{}{
			"destination":     ride.Destination,
			"seats_available": ride.SeatsAvailable,
		},
	})

	return ride, nil
}

// BookSeat atomically claims one seat on the ride, records the join in the
// ledger and kicks off the post-booking notifications. The catalog lock is
// held through the ledger append so the seat check, the decrement and the
// roster snapshot form a single indivisible step.
func (s *catalogService) BookSeat(ctx context.Context, rideID string, passenger models.Passenger) (models.Ride, models.JoinRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rides, err := s.loadRides(ctx)
	if err != nil {
		return models.Ride{}, models.JoinRecord{}, err
	}

	idx := -1
	for i := range rides {
		if rides[i].ID == rideID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.Ride{}, models.JoinRecord{}, ErrRideNotFound
	}
	if !rides[idx].IsOpen() {
		return models.Ride{}, models.JoinRecord{}, ErrNoSeatsAvailable
	}

	if !s.booking.AllowRepeatJoin {
		joined, err := s.ledger.HasJoin(ctx, rideID, passenger.Email)
		if err != nil {
			return models.Ride{}, models.JoinRecord{}, err
		}
		if joined {
			return models.Ride{}, models.JoinRecord{}, ErrAlreadyJoined
		}
	}

	rides[idx].SeatsAvailable--
	updated := rides[idx]

	if err := s.saveRides(ctx, rides); err != nil {
		return models.Ride{}, models.JoinRecord{}, err
	}

	if passenger.JoinedAt.IsZero() {
		passenger.JoinedAt = s.now()
	}

	// Each record carries the full passenger roster for the ride so far,
	// matching how the ledger has always been written.
	roster, err := s.ledger.PassengersForRide(ctx, rideID)
	if err != nil {
		return models.Ride{}, models.JoinRecord{}, err
	}
	record := newJoinRecord(updated, append(roster, passenger), s.now())

	if err := s.ledger.Append(ctx, record); err != nil {
		return models.Ride{}, models.JoinRecord{}, err
	}

	s.logger.LogBookingEvent(updated.ID, passenger.Email, "seat_booked")
	s.dispatchBooked(updated, passenger)

	eventType := realtime.EventRideBooked
	if !updated.IsOpen() {
		eventType = realtime.EventRideSoldOut
	}
	s.publishEvent(realtime.Event{
		Type:   eventType,
		RideID: updated.ID,
		Data: map[string]interface{}{
			"seats_available": updated.SeatsAvailable,
		},
	})

	return updated, record, nil
}

func (s *catalogService) ListByCaptain(ctx context.Context, captainEmail string) ([]models.Ride, error) {
	rides, err := s.loadRides(ctx)
	if err != nil {
		return nil, err
	}

	mine := make([]models.Ride, 0, len(rides))
	for _, ride := range rides {
		if ride.CaptainEmail == captainEmail {
			mine = append(mine, ride)
		}
	}
	return mine, nil
}

func (s *catalogService) RemoveByCaptain(ctx context.Context, captainEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rides, err := s.loadRides(ctx)
	if err != nil {
		return err
	}

	kept := make([]models.Ride, 0, len(rides))
	for _, ride := range rides {
		if ride.CaptainEmail != captainEmail {
			kept = append(kept, ride)
		}
	}
	if len(kept) == len(rides) {
		return nil
	}
	return s.saveRides(ctx, kept)
}

func (s *catalogService) dispatchBooked(ride models.Ride, passenger models.Passenger) {
	if s.notifier == nil {
		return
	}

	title := "Ride Joined!"
	body := fmt.Sprintf("Ride from %s to %s with Captain %s at %s",
		ride.StartingPoint, ride.Destination, ride.CaptainName,
		ride.Time.Format("Jan 2, 2006 3:04 PM"))

	s.notifier.Dispatch(title, body)
	if passenger.Phone != "" {
		s.notifier.DispatchTo(passenger.Phone, title, body)
	}
}

func (s *catalogService) publishEvent(event realtime.Event) {
	if s.events != nil {
		s.events.Publish(event)
	}
}

// newJoinRecord snapshots the ride right after the seat decrement, in the
// same shape the ledger persists.
func newJoinRecord(ride models.Ride, passengers []models.Passenger, now time.Time) models.JoinRecord {
	return models.JoinRecord{
		RideID:           ride.ID,
		StartingPoint:    ride.StartingPoint,
		Destination:      ride.Destination,
		Time:             ride.Time,
		CaptainName:      ride.CaptainName,
		CaptainEmail:     ride.CaptainEmail,
		Phone:            ride.Phone,
		CarModel:         ride.CarModel,
		CarNumber:        ride.CarNumber,
		CostPerPassenger: ride.CostPerPassenger,
		JoinedPassengers: passengers,
		JoinedDate:       now,
	}
}
