package services

import (
	"errors"
	"fmt"
)

// Booking error taxonomy. Every one of these is recoverable at the HTTP
// boundary; handlers map them to user-facing messages.
var (
	ErrRideNotFound     = errors.New("ride not found")
	ErrNoSeatsAvailable = errors.New("no seats available")
	ErrIdentityMissing  = errors.New("current user identity unavailable")
	ErrAlreadyJoined    = errors.New("passenger already joined this ride")
)

// StorageError wraps a storage port failure so callers can distinguish
// infrastructure faults from domain errors.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q failed: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op, key string, err error) error {
	return &StorageError{Op: op, Key: key, Err: err}
}
