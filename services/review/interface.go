package review

import (
	"context"

	bookingRepo "fixly/database/repository/booking"
	reviewRepo "fixly/database/repository/review"
	"fixly/models"

	"go.uber.org/zap"
)

// ReviewService owns review creation, edits and deletion, and drives the
// rating aggregator after every mutation.
type ReviewService interface {
	CreateReview(ctx context.Context, actor models.Actor, req models.ReviewCreateRequest) (*models.Review, error)
	UpdateReview(ctx context.Context, actor models.Actor, reviewID string, req models.ReviewUpdateRequest) (*models.Review, error)
	DeleteReview(ctx context.Context, actor models.Actor, reviewID string) error
	GetReview(ctx context.Context, reviewID string) (*models.Review, error)
	ListProviderReviews(ctx context.Context, providerID string, skip, limit int64) ([]models.Review, error)
}

// DefaultReviewService is the production implementation.
type DefaultReviewService struct {
	Reviews    reviewRepo.ReviewRepository
	Bookings   bookingRepo.BookingRepository
	Aggregator *RatingAggregator
	Logger     *zap.Logger
}

func NewDefaultReviewService(
	reviews reviewRepo.ReviewRepository,
	bookings bookingRepo.BookingRepository,
	aggregator *RatingAggregator,
	logger *zap.Logger,
) *DefaultReviewService {
	return &DefaultReviewService{
		Reviews:    reviews,
		Bookings:   bookings,
		Aggregator: aggregator,
		Logger:     logger,
	}
}
