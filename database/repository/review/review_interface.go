package reviewRepo

import (
	"errors"

	"fixly/models"
)

var (
	// ErrNotFound is returned when no review matches the query.
	ErrNotFound = errors.New("review not found")
	// ErrDuplicate is returned when an insert violates the (userId,
	// bookingId) uniqueness constraint.
	ErrDuplicate = errors.New("review already exists for this booking")
)

// ReviewRepository defines methods for review data access.
type ReviewRepository interface {
	// GetByID retrieves a review by its unique ID.
	GetByID(id string) (*models.Review, error)
	// Create inserts a new review. Returns ErrDuplicate when the customer
	// has already reviewed the booking.
	Create(review *models.Review) error
	// Update modifies the rating and/or comment of an existing review.
	Update(id string, rating *int, comment *string) error
	// Delete removes a review by its ID.
	Delete(id string) error
	// ListByProvider returns a provider's reviews, newest first.
	ListByProvider(providerID string, skip, limit int64) ([]models.Review, error)
	// ExistsForBooking reports whether any review references the booking.
	ExistsForBooking(bookingID string) (bool, error)
	// AggregateForProvider computes the review count and mean rating for a
	// provider over the live review set.
	AggregateForProvider(providerID string) (count int, mean float64, err error)
}
