package notification

import (
	"context"
	"fmt"

	providerRepo "fixly/database/repository/provider"
	userRepo "fixly/database/repository/user"
	"fixly/models"
	"fixly/utils"

	"firebase.google.com/go/v4/messaging"
)

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Users     userRepo.UserRepository
	Providers providerRepo.ProviderRepository
}

func NewDefaultNotificationService(
	users userRepo.UserRepository,
	providers providerRepo.ProviderRepository,
) (*DefaultNotificationService, error) {
	if users == nil || providers == nil {
		return nil, fmt.Errorf("notification service initialization error: user or provider repository is nil")
	}
	return &DefaultNotificationService{Users: users, Providers: providers}, nil
}

// NotifyBookingCreated pushes a "new booking" notification to the provider.
func (s *DefaultNotificationService) NotifyBookingCreated(ctx context.Context, booking *models.Booking) error {
	p, err := s.Providers.GetByID(booking.ProviderID)
	if err != nil {
		return fmt.Errorf("NotifyBookingCreated: could not find provider %s: %w", booking.ProviderID, err)
	}
	title := "New Booking Received"
	body := fmt.Sprintf("%s booked %s for %s.", booking.UserDetails.Name, booking.CategoryID, booking.Date)
	data := map[string]string{
		"type":       "booking_created",
		"bookingId":  booking.ID,
		"categoryId": booking.CategoryID,
		"date":       booking.Date,
		"role":       "provider",
	}
	return send(ctx, p.Security.FCMToken, title, body, data)
}

// NotifyBookingStatusChanged pushes a status update to the booking's customer.
func (s *DefaultNotificationService) NotifyBookingStatusChanged(ctx context.Context, booking *models.Booking) error {
	u, err := s.Users.GetByID(booking.UserID)
	if err != nil {
		return fmt.Errorf("NotifyBookingStatusChanged: could not find user %s: %w", booking.UserID, err)
	}
	title := "Booking Update"
	body := fmt.Sprintf("Your booking on %s is now %s.", booking.Date, booking.Status)
	data := map[string]string{
		"type":      "booking_status",
		"bookingId": booking.ID,
		"status":    string(booking.Status),
		"role":      "user",
	}
	return send(ctx, u.FCMToken, title, body, data)
}

func send(ctx context.Context, token, title, body string, data map[string]string) error {
	if utils.FCMClient == nil {
		return nil // pushes disabled
	}
	if token == "" {
		return fmt.Errorf("notification: recipient has no FCM token")
	}
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("notification: failed to send FCM message: %w", err)
	}
	return nil
}
