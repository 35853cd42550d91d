package review

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"fixly/models"

	"go.uber.org/zap"
)

func TestRoundRating(t *testing.T) {
	cases := []struct {
		mean float64
		want float64
	}{
		{4.0, 4.0},
		{4.25, 4.3}, // half rounds up
		{3.75, 3.8},
		{14.0 / 3.0, 4.7}, // 4.666...
		{13.0 / 3.0, 4.3}, // 4.333...
		{9.0 / 2.0, 4.5},
		{1.0, 1.0},
		{5.0, 5.0},
	}
	for _, c := range cases {
		if got := RoundRating(c.mean); got != c.want {
			t.Errorf("RoundRating(%v) = %v, want %v", c.mean, got, c.want)
		}
	}
}

func TestRecomputeWritesAggregate(t *testing.T) {
	reviews := newFakeReviewRepo()
	providers := newFakeProviderRepo(&models.Provider{ID: "prov-1"})
	agg := NewRatingAggregator(reviews, providers, nil, zap.NewNop())

	for i, rating := range []int{5, 4, 4} {
		if err := reviews.Create(&models.Review{
			ID:         fmt.Sprintf("rev-%d", i),
			UserID:     fmt.Sprintf("cust-%d", i),
			ProviderID: "prov-1",
			BookingID:  fmt.Sprintf("bk-%d", i),
			Rating:     rating,
		}); err != nil {
			t.Fatalf("seed review: %v", err)
		}
	}

	if err := agg.Recompute("prov-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, _ := providers.GetByID("prov-1")
	if p.TotalReviews != 3 {
		t.Fatalf("expected 3 reviews, got %d", p.TotalReviews)
	}
	if p.AverageRating != 4.3 { // mean 4.333... rounded half-up
		t.Fatalf("expected 4.3, got %v", p.AverageRating)
	}
}

func TestRecomputeZeroReviews(t *testing.T) {
	reviews := newFakeReviewRepo()
	providers := newFakeProviderRepo(&models.Provider{ID: "prov-1", AverageRating: 4.5, TotalReviews: 9})
	agg := NewRatingAggregator(reviews, providers, nil, zap.NewNop())

	if err := agg.Recompute("prov-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := providers.GetByID("prov-1")
	if p.TotalReviews != 0 || p.AverageRating != 0 {
		t.Fatalf("zero reviews must write 0/0, got %v/%v", p.AverageRating, p.TotalReviews)
	}
}

// Three customers post reviews for the same provider at the same time. No
// matter how the recomputes interleave, the settled aggregate must reflect
// all three ratings.
func TestConcurrentReviewsConverge(t *testing.T) {
	reviews := newFakeReviewRepo()
	providers := newFakeProviderRepo(&models.Provider{ID: "prov-1"})
	agg := NewRatingAggregator(reviews, providers, nil, zap.NewNop())

	bookings := newFakeBookingRepo(
		completedBooking("bk-1", "cust-1"),
		completedBooking("bk-2", "cust-2"),
		completedBooking("bk-3", "cust-3"),
	)
	svc := NewDefaultReviewService(reviews, bookings, agg, zap.NewNop())

	ratings := map[string]int{"cust-1": 5, "cust-2": 4, "cust-3": 5}
	var wg sync.WaitGroup
	for i := 1; i <= 3; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			actor := models.Actor{Kind: models.ActorCustomer, ID: fmt.Sprintf("cust-%d", n)}
			_, err := svc.CreateReview(context.Background(), actor, models.ReviewCreateRequest{
				BookingID: fmt.Sprintf("bk-%d", n),
				Rating:    ratings[actor.ID],
			})
			if err != nil {
				t.Errorf("review %d: %v", n, err)
			}
		}(i)
	}
	wg.Wait()

	p, _ := providers.GetByID("prov-1")
	if p.TotalReviews != 3 {
		t.Fatalf("expected 3 reviews after convergence, got %d", p.TotalReviews)
	}
	if p.AverageRating != 4.7 { // mean 14/3 = 4.666... rounded half-up
		t.Fatalf("expected 4.7 after convergence, got %v", p.AverageRating)
	}
}

// A transient store failure during recompute is retried in process; the
// aggregate still lands without the durable queue.
func TestRecomputeWithRetryRecovers(t *testing.T) {
	reviews := newFakeReviewRepo()
	providers := newFakeProviderRepo(&models.Provider{ID: "prov-1"})
	agg := NewRatingAggregator(reviews, providers, nil, zap.NewNop())

	if err := reviews.Create(&models.Review{
		ID: "rev-1", UserID: "cust-1", ProviderID: "prov-1", BookingID: "bk-1", Rating: 3,
	}); err != nil {
		t.Fatalf("seed review: %v", err)
	}

	reviews.failAggregates = 2
	agg.RecomputeWithRetry("prov-1")

	p, _ := providers.GetByID("prov-1")
	if p.TotalReviews != 1 || p.AverageRating != 3.0 {
		t.Fatalf("retry should have recovered, got %v/%v", p.AverageRating, p.TotalReviews)
	}
	if reviews.aggregateCalls != 3 {
		t.Fatalf("expected 3 aggregate attempts, got %d", reviews.aggregateCalls)
	}
}

// With every attempt failing and no queue configured the aggregate stays
// stale but the caller is never blocked or failed.
func TestRecomputeWithRetryExhaustedWithoutQueue(t *testing.T) {
	reviews := newFakeReviewRepo()
	providers := newFakeProviderRepo(&models.Provider{ID: "prov-1", AverageRating: 4.0, TotalReviews: 2})
	agg := NewRatingAggregator(reviews, providers, nil, zap.NewNop())

	reviews.failAggregates = 10
	agg.RecomputeWithRetry("prov-1")

	p, _ := providers.GetByID("prov-1")
	if p.TotalReviews != 2 || p.AverageRating != 4.0 {
		t.Fatalf("a failed recompute must leave the previous aggregate in place")
	}
	if reviews.aggregateCalls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", reviews.aggregateCalls)
	}
}
