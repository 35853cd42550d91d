package booking

import (
	"fmt"

	"fixly/models"
)

// statusTransitions is the booking lifecycle graph. completed and cancelled
// are terminal.
var statusTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:   {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed: {models.BookingCompleted, models.BookingCancelled},
}

// paymentTransitions is the orthogonal payment lifecycle.
var paymentTransitions = map[models.PaymentStatus][]models.PaymentStatus{
	models.PaymentPending: {models.PaymentPaid},
	models.PaymentPaid:    {models.PaymentRefunded},
}

// CanTransition reports whether to is reachable from from in one step.
func CanTransition(from, to models.BookingStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionPayment reports whether to is reachable from from.
func CanTransitionPayment(from, to models.PaymentStatus) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known booking status.
func ValidStatus(s models.BookingStatus) bool {
	switch s {
	case models.BookingPending, models.BookingConfirmed, models.BookingCompleted, models.BookingCancelled:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s models.PaymentStatus) bool {
	switch s {
	case models.PaymentPending, models.PaymentPaid, models.PaymentRefunded:
		return true
	}
	return false
}

// filterForActor reduces a requested update to the fields the actor may
// mutate on this booking. A field the role may never touch is dropped
// silently. A field the role may touch whose requested transition is not
// reachable from the current state is an InvalidTransition error. Admin
// requests pass through unfiltered and bypass the transition graph. Actors
// with no relationship to the booking are rejected outright.
func filterForActor(actor models.Actor, b *models.Booking, req models.BookingUpdateRequest) (models.BookingUpdateRequest, error) {
	switch {
	case actor.IsAdmin():
		return req, nil

	case actor.OwnsBooking(b):
		filtered := models.BookingUpdateRequest{Notes: req.Notes}
		// Cancellation is the only status value a customer may request;
		// anything else is outside the role's field rights and dropped.
		if req.Status != nil && *req.Status == models.BookingCancelled {
			if !CanTransition(b.Status, models.BookingCancelled) {
				return models.BookingUpdateRequest{}, NewInvalidTransitionError(
					fmt.Sprintf("cannot cancel a %s booking", b.Status))
			}
			filtered.Status = req.Status
		}
		return filtered, nil

	case actor.FulfillsBooking(b):
		filtered := models.BookingUpdateRequest{}
		if req.Status != nil {
			if !CanTransition(b.Status, *req.Status) {
				return models.BookingUpdateRequest{}, NewInvalidTransitionError(
					fmt.Sprintf("cannot move booking from %s to %s", b.Status, *req.Status))
			}
			filtered.Status = req.Status
		}
		if req.PaymentStatus != nil {
			if !CanTransitionPayment(b.PaymentStatus, *req.PaymentStatus) {
				return models.BookingUpdateRequest{}, NewInvalidTransitionError(
					fmt.Sprintf("cannot move payment from %s to %s", b.PaymentStatus, *req.PaymentStatus))
			}
			filtered.PaymentStatus = req.PaymentStatus
		}
		return filtered, nil
	}

	return models.BookingUpdateRequest{}, NewUnauthorizedError("actor is not a party to this booking")
}
