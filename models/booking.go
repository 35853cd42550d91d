package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// PaymentStatus tracks payment independently of the booking lifecycle.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// UserDetails is a snapshot of the customer's contact data taken when the
// booking is created. It does not follow later profile edits.
type UserDetails struct {
	Name        string `bson:"name" json:"name"`
	PhoneNumber string `bson:"phoneNumber" json:"phoneNumber"`
	Location    string `bson:"location" json:"location"`
}

// Booking represents a booked service. The (CategoryID, SubcategoryID) pair
// was validated against the provider's catalogue at creation time and is not
// re-checked afterwards.
type Booking struct {
	ID            string        `bson:"id" json:"id"`
	UserID        string        `bson:"userId" json:"userId"`
	ProviderID    string        `bson:"providerId" json:"providerId"`
	CategoryID    string        `bson:"categoryId" json:"categoryId"`
	SubcategoryID string        `bson:"subcategoryId,omitempty" json:"subcategoryId,omitempty"`
	Date          string        `bson:"date" json:"date"`   // "YYYY-MM-DD"
	Start         int           `bson:"start" json:"start"` // minutes from midnight
	Hours         float64       `bson:"hours" json:"hours"`
	TotalPrice    float64       `bson:"totalPrice" json:"totalPrice"`
	Status        BookingStatus `bson:"status" json:"status"`
	PaymentStatus PaymentStatus `bson:"paymentStatus" json:"paymentStatus"`
	Notes         string        `bson:"notes,omitempty" json:"notes,omitempty"`
	UserDetails   UserDetails   `bson:"userDetails" json:"userDetails"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// BookingCreateRequest is the input for creating a booking. Either Hours or
// End may be supplied; the other is derived. A provider creating a booking on
// a customer's behalf sets UserID; customers book for themselves.
type BookingCreateRequest struct {
	UserID        string       `json:"userId,omitempty"`
	ProviderID    string       `json:"providerId" binding:"required"`
	CategoryID    string       `json:"categoryId" binding:"required"`
	SubcategoryID string       `json:"subcategoryId,omitempty"`
	Date          string       `json:"date" binding:"required"`
	Start         int          `json:"start"`
	Hours         float64      `json:"hours,omitempty"`
	End           int          `json:"end,omitempty"` // minutes from midnight
	TotalPrice    float64      `json:"totalPrice,omitempty"`
	Notes         string       `json:"notes,omitempty"`
	UserDetails   *UserDetails `json:"userDetails,omitempty"`
}

// BookingUpdateRequest carries requested field changes. Nil means "not
// requested". Fields the acting role may not touch are dropped before the
// update is applied; they are not an error.
type BookingUpdateRequest struct {
	Status        *BookingStatus `json:"status,omitempty"`
	PaymentStatus *PaymentStatus `json:"paymentStatus,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
	Date          *string        `json:"date,omitempty"`
	Start         *int           `json:"start,omitempty"`
	Hours         *float64       `json:"hours,omitempty"`
	TotalPrice    *float64       `json:"totalPrice,omitempty"`
}

// IsEmpty reports whether no field change survived filtering.
func (r BookingUpdateRequest) IsEmpty() bool {
	return r.Status == nil && r.PaymentStatus == nil && r.Notes == nil &&
		r.Date == nil && r.Start == nil && r.Hours == nil && r.TotalPrice == nil
}
