package booking

import (
	"context"

	bookingRepo "fixly/database/repository/booking"
	providerRepo "fixly/database/repository/provider"
	reviewRepo "fixly/database/repository/review"
	userRepo "fixly/database/repository/user"
	"fixly/models"
	"fixly/services/notification"

	"go.uber.org/zap"
)

// BookingService owns the booking lifecycle: capability-checked creation,
// role-scoped status updates, and deletion.
type BookingService interface {
	CreateBooking(ctx context.Context, actor models.Actor, req models.BookingCreateRequest) (*models.Booking, error)
	UpdateBooking(ctx context.Context, actor models.Actor, bookingID string, req models.BookingUpdateRequest) (*models.Booking, error)
	DeleteBooking(ctx context.Context, actor models.Actor, bookingID string) error
	GetBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context, actor models.Actor) ([]models.Booking, error)
	CreatePaymentIntent(ctx context.Context, actor models.Actor, bookingID string) (*models.PaymentIntentData, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Bookings     bookingRepo.BookingRepository
	Providers    providerRepo.ProviderRepository
	Users        userRepo.UserRepository
	Reviews      reviewRepo.ReviewRepository
	Notification notification.NotificationService
	Logger       *zap.Logger
}

func NewDefaultBookingService(
	bookings bookingRepo.BookingRepository,
	providers providerRepo.ProviderRepository,
	users userRepo.UserRepository,
	reviews reviewRepo.ReviewRepository,
	notifSvc notification.NotificationService,
	logger *zap.Logger,
) *DefaultBookingService {
	return &DefaultBookingService{
		Bookings:     bookings,
		Providers:    providers,
		Users:        users,
		Reviews:      reviews,
		Notification: notifSvc,
		Logger:       logger,
	}
}
