package bookingRepo

import (
	"errors"

	"fixly/models"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	// ErrNotFound is returned when no booking matches the query.
	ErrNotFound = errors.New("booking not found")
	// ErrStale is returned when a guarded update found the booking in a
	// different lifecycle state than the one the caller checked against.
	ErrStale = errors.New("booking state changed concurrently")
)

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	// GetByID retrieves a booking by its unique ID.
	GetByID(id string) (*models.Booking, error)
	// Create inserts a new booking record.
	Create(booking *models.Booking) error
	// UpdateSetDocument applies a $set document to a booking in a single
	// atomic write. Callers pass the full filtered field set so a request
	// either applies completely or not at all. The guard carries the
	// lifecycle fields the caller's transition checks ran against; the
	// write only lands while they still hold, and ErrStale is returned
	// when the booking exists but the guard no longer matches.
	UpdateSetDocument(id string, setDoc bson.M, guard bson.M) error
	// Delete removes a booking record by its ID.
	Delete(id string) error
	// ListByUser returns a customer's bookings, newest first.
	ListByUser(userID string) ([]models.Booking, error)
	// ListByProvider returns a provider's bookings, newest first.
	ListByProvider(providerID string) ([]models.Booking, error)
}
