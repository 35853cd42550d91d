package notification

import (
	"context"

	"fixly/models"
)

// NotificationService sends FCM pushes to users and providers. All sends are
// best effort; callers must not block a mutation on a push result.
type NotificationService interface {
	NotifyBookingCreated(ctx context.Context, booking *models.Booking) error
	NotifyBookingStatusChanged(ctx context.Context, booking *models.Booking) error
}
