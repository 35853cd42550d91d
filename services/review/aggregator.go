package review

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	providerRepo "fixly/database/repository/provider"
	reviewRepo "fixly/database/repository/review"
	"fixly/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RatingAggregator maintains the denormalized (averageRating, totalReviews)
// pair on provider records. Recomputes for the same provider are serialized
// by a per-provider mutex: each recompute reads the live review set and
// writes the aggregate while holding the lock, so concurrent review
// mutations can never leave the provider with a stale snapshot once their
// recomputes have settled. Recomputes for different providers do not
// contend.
type RatingAggregator struct {
	Reviews   reviewRepo.ReviewRepository
	Providers providerRepo.ProviderRepository
	Queue     *asynq.Client // optional durable retry queue
	Logger    *zap.Logger

	locks sync.Map // providerID -> *sync.Mutex
}

func NewRatingAggregator(
	reviews reviewRepo.ReviewRepository,
	providers providerRepo.ProviderRepository,
	queue *asynq.Client,
	logger *zap.Logger,
) *RatingAggregator {
	return &RatingAggregator{
		Reviews:   reviews,
		Providers: providers,
		Queue:     queue,
		Logger:    logger,
	}
}

func (a *RatingAggregator) lockFor(providerID string) *sync.Mutex {
	mu, _ := a.locks.LoadOrStore(providerID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Recompute reads all reviews for the provider and writes the aggregate back
// onto the provider record. Zero reviews write 0/0.
func (a *RatingAggregator) Recompute(providerID string) error {
	mu := a.lockFor(providerID)
	mu.Lock()
	defer mu.Unlock()

	count, mean, err := a.Reviews.AggregateForProvider(providerID)
	if err != nil {
		return fmt.Errorf("rating recompute: %w", err)
	}

	average := 0.0
	if count > 0 {
		average = RoundRating(mean)
	}
	if err := a.Providers.UpdateRating(providerID, average, count); err != nil {
		return fmt.Errorf("rating recompute: %w", err)
	}
	return nil
}

// RecomputeWithRetry runs Recompute with in-process backoff and, if that
// still fails, hands the provider id to the durable queue so the stale (but
// safe) aggregate is reconciled later rather than forgotten. The triggering
// review mutation has already succeeded; this never propagates an error to
// it.
func (a *RatingAggregator) RecomputeWithRetry(providerID string) {
	const maxAttempts = 3

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = a.Recompute(providerID); err == nil {
			return
		}
		a.Logger.Warn("rating recompute failed",
			zap.String("providerId", providerID),
			zap.Int("attempt", attempt),
			zap.Error(err))
		time.Sleep(time.Duration(attempt) * 200 * time.Millisecond)
	}

	a.enqueue(providerID, err)
}

func (a *RatingAggregator) enqueue(providerID string, cause error) {
	if a.Queue == nil {
		a.Logger.Error("rating recompute exhausted retries and no queue is configured",
			zap.String("providerId", providerID), zap.Error(cause))
		return
	}
	payload, err := json.Marshal(models.RatingRecomputePayload{ProviderID: providerID})
	if err != nil {
		a.Logger.Error("rating recompute payload marshal failed", zap.Error(err))
		return
	}
	task := asynq.NewTask(models.TaskRatingRecompute, payload)
	if _, err := a.Queue.Enqueue(task, asynq.MaxRetry(10), asynq.Timeout(time.Minute)); err != nil {
		a.Logger.Error("rating recompute enqueue failed",
			zap.String("providerId", providerID), zap.Error(err))
		return
	}
	a.Logger.Info("rating recompute queued for retry", zap.String("providerId", providerID))
}

// RoundRating rounds a mean rating half-up to one decimal place.
func RoundRating(mean float64) float64 {
	return math.Round(mean*10) / 10
}
