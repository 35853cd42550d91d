package models

// TaskRatingRecompute is the asynq task type for a queued provider rating
// recompute.
const TaskRatingRecompute = "rating:recompute"

// RatingRecomputePayload is the payload of a TaskRatingRecompute task.
type RatingRecomputePayload struct {
	ProviderID string `json:"providerId"`
}
