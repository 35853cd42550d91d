package booking

import (
	"context"
	"fmt"
	"time"

	bookingRepo "fixly/database/repository/booking"
	providerRepo "fixly/database/repository/provider"
	userRepo "fixly/database/repository/user"
	"fixly/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const minutesPerDay = 24 * 60

// CreateBooking validates a booking request against the provider's declared
// capabilities and persists it in the pending state. Customers book for
// themselves; the fulfilling provider (or an admin) may book on a customer's
// behalf by supplying the customer id. The capability check runs against the
// provider document loaded for this request; its result is never reused.
func (svc *DefaultBookingService) CreateBooking(ctx context.Context, actor models.Actor, req models.BookingCreateRequest) (*models.Booking, error) {
	userID, err := resolveBookingUser(actor, req)
	if err != nil {
		return nil, err
	}

	if req.CategoryID == "" {
		return nil, NewValidationError("categoryId is required")
	}
	hours, err := normalizeSchedule(&req)
	if err != nil {
		return nil, err
	}

	provider, err := svc.Providers.GetByID(req.ProviderID)
	if err != nil {
		if err == providerRepo.ErrNotFound {
			return nil, NewNotFoundError(fmt.Sprintf("provider %s not found", req.ProviderID))
		}
		return nil, err
	}

	offering, ok := matchOffering(provider, req.CategoryID, req.SubcategoryID)
	if !ok {
		return nil, capabilityError(req.CategoryID, req.SubcategoryID)
	}

	user, err := svc.Users.GetByID(userID)
	if err != nil {
		if err == userRepo.ErrNotFound {
			return nil, NewNotFoundError(fmt.Sprintf("user %s not found", userID))
		}
		return nil, err
	}

	details := snapshotUserDetails(user, req.UserDetails)

	totalPrice := req.TotalPrice
	if totalPrice <= 0 {
		totalPrice = offering.HourlyRate * hours
	}

	now := time.Now()
	booking := &models.Booking{
		ID:            uuid.New().String(),
		UserID:        userID,
		ProviderID:    req.ProviderID,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		Date:          req.Date,
		Start:         req.Start,
		Hours:         hours,
		TotalPrice:    totalPrice,
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentPending,
		Notes:         req.Notes,
		UserDetails:   details,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := svc.Bookings.Create(booking); err != nil {
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	if svc.Notification != nil {
		go func(b models.Booking) {
			if err := svc.Notification.NotifyBookingCreated(context.Background(), &b); err != nil {
				svc.Logger.Warn("booking created push failed", zap.String("bookingId", b.ID), zap.Error(err))
			}
		}(*booking)
	}

	return booking, nil
}

// resolveBookingUser decides whose booking this is and whether the actor may
// create it.
func resolveBookingUser(actor models.Actor, req models.BookingCreateRequest) (string, error) {
	switch actor.Kind {
	case models.ActorCustomer:
		// Customers always book for themselves.
		return actor.ID, nil
	case models.ActorProvider:
		if actor.ID != req.ProviderID {
			return "", NewUnauthorizedError("providers may only create bookings for themselves to fulfill")
		}
		if req.UserID == "" {
			return "", NewValidationError("userId is required when a provider creates a booking")
		}
		return req.UserID, nil
	case models.ActorAdmin:
		if req.UserID == "" {
			return "", NewValidationError("userId is required when an admin creates a booking")
		}
		return req.UserID, nil
	}
	return "", NewUnauthorizedError("unknown actor role")
}

// normalizeSchedule validates date/start and keeps hours and end mutually
// consistent, returning the effective duration in hours.
func normalizeSchedule(req *models.BookingCreateRequest) (float64, error) {
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return 0, NewValidationError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", req.Date))
	}
	if req.Start < 0 || req.Start >= minutesPerDay {
		return 0, NewValidationError("start must be minutes from midnight within the day")
	}

	hours := req.Hours
	if hours <= 0 && req.End > req.Start {
		hours = float64(req.End-req.Start) / 60.0
	}
	if hours <= 0 {
		return 0, NewValidationError("either hours or an end time after start is required")
	}
	return hours, nil
}

func snapshotUserDetails(user *models.User, override *models.UserDetails) models.UserDetails {
	if override != nil {
		return *override
	}
	return models.UserDetails{
		Name:        user.Name,
		PhoneNumber: user.PhoneNumber,
		Location:    user.Location,
	}
}

// errNotFound converts a repo not-found into the service error taxonomy.
func errNotFound(err error, msg string) error {
	if err == bookingRepo.ErrNotFound {
		return NewNotFoundError(msg)
	}
	return err
}
