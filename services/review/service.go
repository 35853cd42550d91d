package review

import (
	"context"
	"fmt"
	"time"

	bookingRepo "fixly/database/repository/booking"
	reviewRepo "fixly/database/repository/review"
	"fixly/models"

	"github.com/google/uuid"
)

const maxCommentLength = 1000

// CreateReview posts a review for a completed booking. The booking must
// belong to the requesting customer; uniqueness per (customer, booking) is
// enforced by the store's unique index, so a concurrent double submit still
// yields exactly one review. The provider aggregate is recomputed before the
// call returns (queued durably on persistent store failure).
func (svc *DefaultReviewService) CreateReview(ctx context.Context, actor models.Actor, req models.ReviewCreateRequest) (*models.Review, error) {
	if actor.Kind != models.ActorCustomer {
		return nil, NewUnauthorizedError("only customers may post reviews")
	}
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}
	if len(req.Comment) > maxCommentLength {
		return nil, NewValidationError(fmt.Sprintf("comment exceeds %d characters", maxCommentLength))
	}

	booking, err := svc.Bookings.GetByID(req.BookingID)
	if err != nil {
		if err == bookingRepo.ErrNotFound {
			return nil, NewNotFoundError(fmt.Sprintf("booking %s not found", req.BookingID))
		}
		return nil, err
	}
	if booking.UserID != actor.ID {
		return nil, NewUnauthorizedError("booking belongs to a different customer")
	}
	if booking.Status != models.BookingCompleted {
		return nil, NewNotCompletedError("only completed bookings can be reviewed")
	}

	now := time.Now()
	rev := &models.Review{
		ID:         uuid.New().String(),
		UserID:     actor.ID,
		ProviderID: booking.ProviderID,
		BookingID:  booking.ID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := svc.Reviews.Create(rev); err != nil {
		if err == reviewRepo.ErrDuplicate {
			return nil, NewDuplicateError("you have already reviewed this booking")
		}
		return nil, fmt.Errorf("failed to persist review: %w", err)
	}

	svc.Aggregator.RecomputeWithRetry(rev.ProviderID)
	return rev, nil
}

// UpdateReview edits the rating and/or comment of an existing review. Only
// the owning customer or an admin may edit. The aggregate depends on rating
// values, not just review existence, so every update triggers a recompute.
func (svc *DefaultReviewService) UpdateReview(ctx context.Context, actor models.Actor, reviewID string, req models.ReviewUpdateRequest) (*models.Review, error) {
	rev, err := svc.getOwned(actor, reviewID)
	if err != nil {
		return nil, err
	}

	if req.Rating == nil && req.Comment == nil {
		return rev, nil
	}
	if req.Rating != nil {
		if err := validateRating(*req.Rating); err != nil {
			return nil, err
		}
	}
	if req.Comment != nil && len(*req.Comment) > maxCommentLength {
		return nil, NewValidationError(fmt.Sprintf("comment exceeds %d characters", maxCommentLength))
	}

	if err := svc.Reviews.Update(reviewID, req.Rating, req.Comment); err != nil {
		if err == reviewRepo.ErrNotFound {
			return nil, NewNotFoundError(fmt.Sprintf("review %s not found", reviewID))
		}
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	if req.Rating != nil {
		rev.Rating = *req.Rating
	}
	if req.Comment != nil {
		rev.Comment = *req.Comment
	}
	rev.UpdatedAt = time.Now()

	svc.Aggregator.RecomputeWithRetry(rev.ProviderID)
	return rev, nil
}

// DeleteReview removes a review and recomputes the provider aggregate over
// the remaining set.
func (svc *DefaultReviewService) DeleteReview(ctx context.Context, actor models.Actor, reviewID string) error {
	rev, err := svc.getOwned(actor, reviewID)
	if err != nil {
		return err
	}

	if err := svc.Reviews.Delete(reviewID); err != nil {
		if err == reviewRepo.ErrNotFound {
			return NewNotFoundError(fmt.Sprintf("review %s not found", reviewID))
		}
		return fmt.Errorf("failed to delete review: %w", err)
	}

	svc.Aggregator.RecomputeWithRetry(rev.ProviderID)
	return nil
}

// GetReview returns a single review.
func (svc *DefaultReviewService) GetReview(ctx context.Context, reviewID string) (*models.Review, error) {
	rev, err := svc.Reviews.GetByID(reviewID)
	if err != nil {
		if err == reviewRepo.ErrNotFound {
			return nil, NewNotFoundError(fmt.Sprintf("review %s not found", reviewID))
		}
		return nil, err
	}
	return rev, nil
}

// ListProviderReviews returns a provider's reviews, newest first.
func (svc *DefaultReviewService) ListProviderReviews(ctx context.Context, providerID string, skip, limit int64) ([]models.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return svc.Reviews.ListByProvider(providerID, skip, limit)
}

// getOwned fetches a review and checks the actor may mutate it.
func (svc *DefaultReviewService) getOwned(actor models.Actor, reviewID string) (*models.Review, error) {
	rev, err := svc.Reviews.GetByID(reviewID)
	if err != nil {
		if err == reviewRepo.ErrNotFound {
			return nil, NewNotFoundError(fmt.Sprintf("review %s not found", reviewID))
		}
		return nil, err
	}
	if !actor.IsAdmin() && !(actor.Kind == models.ActorCustomer && actor.ID == rev.UserID) {
		return nil, NewUnauthorizedError("only the review's author or an admin may modify it")
	}
	return rev, nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return NewValidationError("rating must be an integer between 1 and 5")
	}
	return nil
}
