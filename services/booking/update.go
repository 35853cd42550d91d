package booking

import (
	"context"
	"fmt"
	"time"

	bookingRepo "fixly/database/repository/booking"
	"fixly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const maxUpdateAttempts = 3

// UpdateBooking applies a role-filtered field update. The filtered set is
// written in a single $set so a request either applies completely or not at
// all; an empty surviving set is a no-op, not an error. Transitioned fields
// are guarded by the state the graph checks ran against, so a concurrent
// transition can never be overwritten; a guard miss re-checks the request
// against the fresh state.
func (svc *DefaultBookingService) UpdateBooking(ctx context.Context, actor models.Actor, bookingID string, req models.BookingUpdateRequest) (*models.Booking, error) {
	if err := validateUpdateValues(req); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		booking, err := svc.Bookings.GetByID(bookingID)
		if err != nil {
			return nil, errNotFound(err, fmt.Sprintf("booking %s not found", bookingID))
		}

		filtered, err := filterForActor(actor, booking, req)
		if err != nil {
			return nil, err
		}
		if filtered.IsEmpty() {
			return booking, nil
		}

		statusChanged := filtered.Status != nil && *filtered.Status != booking.Status

		// Admin force-sets bypass the graph and take no guard.
		guard := bson.M{}
		if !actor.IsAdmin() {
			if filtered.Status != nil {
				guard["status"] = booking.Status
			}
			if filtered.PaymentStatus != nil {
				guard["paymentStatus"] = booking.PaymentStatus
			}
		}

		now := time.Now()
		setDoc := bson.M{"updatedAt": now}
		applyUpdate(booking, filtered, setDoc)
		booking.UpdatedAt = now

		if err := svc.Bookings.UpdateSetDocument(bookingID, setDoc, guard); err != nil {
			if err == bookingRepo.ErrStale {
				continue
			}
			return nil, errNotFound(err, fmt.Sprintf("booking %s not found", bookingID))
		}

		if statusChanged && svc.Notification != nil {
			go func(b models.Booking) {
				if err := svc.Notification.NotifyBookingStatusChanged(context.Background(), &b); err != nil {
					svc.Logger.Warn("booking status push failed", zap.String("bookingId", b.ID), zap.Error(err))
				}
			}(*booking)
		}

		return booking, nil
	}

	return nil, NewConflictError(fmt.Sprintf("booking %s is being modified concurrently, retry", bookingID))
}

// validateUpdateValues rejects unknown enum values before any filtering.
func validateUpdateValues(req models.BookingUpdateRequest) error {
	if req.Status != nil && !ValidStatus(*req.Status) {
		return NewValidationError(fmt.Sprintf("unknown booking status %q", *req.Status))
	}
	if req.PaymentStatus != nil && !ValidPaymentStatus(*req.PaymentStatus) {
		return NewValidationError(fmt.Sprintf("unknown payment status %q", *req.PaymentStatus))
	}
	if req.Hours != nil && *req.Hours <= 0 {
		return NewValidationError("hours must be positive")
	}
	if req.Start != nil && (*req.Start < 0 || *req.Start >= minutesPerDay) {
		return NewValidationError("start must be minutes from midnight within the day")
	}
	if req.Date != nil {
		if _, err := time.Parse("2006-01-02", *req.Date); err != nil {
			return NewValidationError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", *req.Date))
		}
	}
	return nil
}

// applyUpdate mirrors the surviving fields onto both the in-memory booking
// and the $set document.
func applyUpdate(b *models.Booking, req models.BookingUpdateRequest, setDoc bson.M) {
	if req.Status != nil {
		b.Status = *req.Status
		setDoc["status"] = *req.Status
	}
	if req.PaymentStatus != nil {
		b.PaymentStatus = *req.PaymentStatus
		setDoc["paymentStatus"] = *req.PaymentStatus
	}
	if req.Notes != nil {
		b.Notes = *req.Notes
		setDoc["notes"] = *req.Notes
	}
	if req.Date != nil {
		b.Date = *req.Date
		setDoc["date"] = *req.Date
	}
	if req.Start != nil {
		b.Start = *req.Start
		setDoc["start"] = *req.Start
	}
	if req.Hours != nil {
		b.Hours = *req.Hours
		setDoc["hours"] = *req.Hours
	}
	if req.TotalPrice != nil {
		b.TotalPrice = *req.TotalPrice
		setDoc["totalPrice"] = *req.TotalPrice
	}
}

// DeleteBooking removes a booking. Only the owning customer or an admin may
// delete, and a booking that already has a review cannot be removed since the
// review (and the provider aggregate derived from it) would dangle.
func (svc *DefaultBookingService) DeleteBooking(ctx context.Context, actor models.Actor, bookingID string) error {
	booking, err := svc.Bookings.GetByID(bookingID)
	if err != nil {
		return errNotFound(err, fmt.Sprintf("booking %s not found", bookingID))
	}

	if !actor.IsAdmin() && !actor.OwnsBooking(booking) {
		return NewUnauthorizedError("only the booking's customer or an admin may delete it")
	}

	reviewed, err := svc.Reviews.ExistsForBooking(bookingID)
	if err != nil {
		return err
	}
	if reviewed {
		return NewConflictError("booking has a review; delete the review first")
	}

	return errNotFound(svc.Bookings.Delete(bookingID), fmt.Sprintf("booking %s not found", bookingID))
}

// GetBooking returns a booking to one of its parties or an admin.
func (svc *DefaultBookingService) GetBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	booking, err := svc.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, errNotFound(err, fmt.Sprintf("booking %s not found", bookingID))
	}
	if !actor.IsAdmin() && !actor.OwnsBooking(booking) && !actor.FulfillsBooking(booking) {
		return nil, NewUnauthorizedError("actor is not a party to this booking")
	}
	return booking, nil
}

// ListBookings returns the actor's own bookings.
func (svc *DefaultBookingService) ListBookings(ctx context.Context, actor models.Actor) ([]models.Booking, error) {
	switch actor.Kind {
	case models.ActorCustomer:
		return svc.Bookings.ListByUser(actor.ID)
	case models.ActorProvider:
		return svc.Bookings.ListByProvider(actor.ID)
	}
	return nil, NewUnauthorizedError("listing requires a customer or provider role")
}
