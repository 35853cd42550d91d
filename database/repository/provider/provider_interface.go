package providerRepo

import (
	"errors"

	"fixly/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrNotFound is returned when no provider matches the query.
var ErrNotFound = errors.New("provider not found")

// ProviderRepository defines methods for provider data access.
type ProviderRepository interface {
	// GetByID retrieves a provider by its unique ID.
	GetByID(id string) (*models.Provider, error)
	// GetByEmail retrieves a provider by its email address.
	GetByEmail(email string) (*models.Provider, error)
	// Create inserts a new provider record.
	Create(provider *models.Provider) error
	// UpdateSetDocument patches a provider document with a $set document.
	UpdateSetDocument(id string, setDoc bson.M) error
	// UpdateRating writes the denormalized rating aggregate. It is the only
	// write path for averageRating/totalReviews.
	UpdateRating(id string, averageRating float64, totalReviews int) error
	// Delete removes a provider record by its ID.
	Delete(id string) error
}
