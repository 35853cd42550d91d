package models

// ActorKind identifies the role under which a request is made.
type ActorKind string

const (
	ActorCustomer ActorKind = "customer"
	ActorProvider ActorKind = "provider"
	ActorAdmin    ActorKind = "admin"
)

// Actor is the authenticated party behind a core operation. Every service
// call takes an explicit Actor; services never read session state themselves.
type Actor struct {
	Kind ActorKind `json:"kind"`
	ID   string    `json:"id"`
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Kind == ActorAdmin
}

// OwnsBooking reports whether the actor is the booking's customer.
func (a Actor) OwnsBooking(b *Booking) bool {
	return a.Kind == ActorCustomer && a.ID == b.UserID
}

// FulfillsBooking reports whether the actor is the booking's provider.
func (a Actor) FulfillsBooking(b *Booking) bool {
	return a.Kind == ActorProvider && a.ID == b.ProviderID
}
