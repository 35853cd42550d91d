package models

import (
	"time"
)

// ServiceOffering is a single entry in a provider's catalogue: one category,
// the subcategories the provider covers within it, and the hourly rate.
// An empty Subcategories list means the provider covers the whole category.
type ServiceOffering struct {
	CategoryID    string   `bson:"categoryId" json:"categoryId"`
	Subcategories []string `bson:"subcategories,omitempty" json:"subcategories,omitempty"`
	HourlyRate    float64  `bson:"hourlyRate" json:"hourlyRate"`
}

// GeoPoint represents a GeoJSON Point.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`               // Always "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [longitude, latitude]
}

type ProviderProfile struct {
	Name         string   `bson:"name" json:"name,omitempty"`
	Email        string   `bson:"email" json:"email,omitempty"`
	PhoneNumber  string   `bson:"phoneNumber" json:"phoneNumber,omitempty"`
	Description  string   `bson:"description,omitempty" json:"description,omitempty"`
	ProfileImage string   `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	Address      string   `bson:"address,omitempty" json:"address,omitempty"`
	LocationGeo  GeoPoint `bson:"locationGeo,omitempty" json:"locationGeo,omitzero"`
}

type ProviderSecurity struct {
	Password     string `bson:"-" json:"password,omitempty"`
	PasswordHash string `bson:"passwordHash" json:"-"`
	FCMToken     string `bson:"fcmToken,omitempty" json:"-"`
}

// Provider is a service provider account. AverageRating and TotalReviews are
// denormalized from the reviews collection and are only ever written by the
// rating aggregator; at any quiescent point they equal the review count and
// the half-up one-decimal mean of the provider's ratings (0 and 0 when none).
type Provider struct {
	ID            string            `bson:"id" json:"id"`
	Profile       ProviderProfile   `bson:"profile" json:"profile"`
	Security      ProviderSecurity  `bson:"security" json:"security,omitzero"`
	Services      []ServiceOffering `bson:"services" json:"services"`
	AverageRating float64           `bson:"averageRating" json:"averageRating"`
	TotalReviews  int               `bson:"totalReviews" json:"totalReviews"`
	CreatedAt     time.Time         `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt     time.Time         `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// ProviderUpdateRequest carries the mutable provider fields. Nil means
// "leave unchanged".
type ProviderUpdateRequest struct {
	Name        *string            `json:"name,omitempty"`
	PhoneNumber *string            `json:"phoneNumber,omitempty"`
	Description *string            `json:"description,omitempty"`
	Address     *string            `json:"address,omitempty"`
	Services    *[]ServiceOffering `json:"services,omitempty"`
	FCMToken    *string            `json:"fcmToken,omitempty"`
}
