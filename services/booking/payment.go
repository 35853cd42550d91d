package booking

import (
	"context"
	"fmt"

	"fixly/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

const paymentCurrency = "usd"

// CreatePaymentIntent creates a Stripe PaymentIntent for the booking total so
// the client can collect payment. It does not touch paymentStatus; that is
// flipped by the provider (or an admin) through the state machine once the
// payment has actually settled.
func (svc *DefaultBookingService) CreatePaymentIntent(ctx context.Context, actor models.Actor, bookingID string) (*models.PaymentIntentData, error) {
	booking, err := svc.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, errNotFound(err, fmt.Sprintf("booking %s not found", bookingID))
	}
	if !actor.IsAdmin() && !actor.OwnsBooking(booking) {
		return nil, NewUnauthorizedError("only the booking's customer or an admin may pay for it")
	}
	if booking.Status == models.BookingCancelled {
		return nil, NewConflictError("cannot pay for a cancelled booking")
	}
	if booking.PaymentStatus != models.PaymentPending {
		return nil, NewConflictError(fmt.Sprintf("payment is already %s", booking.PaymentStatus))
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(booking.TotalPrice * 100)),
		Currency: stripe.String(paymentCurrency),
	}
	params.AddMetadata("bookingId", booking.ID)
	params.AddMetadata("providerId", booking.ProviderID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent for booking %s: %w", bookingID, err)
	}

	return &models.PaymentIntentData{
		PaymentIntentID: pi.ID,
		ClientSecret:    pi.ClientSecret,
		Amount:          booking.TotalPrice,
		Currency:        paymentCurrency,
	}, nil
}
