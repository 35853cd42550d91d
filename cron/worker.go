package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"fixly/config"
	"fixly/models"
	"fixly/services/review"

	"github.com/hibiken/asynq"
)

// NewQueueClient returns an asynq client on the queue Redis DB.
func NewQueueClient() *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
}

// InitRatingWorker runs the async worker that drains queued rating
// recomputes. Tasks land here only when the in-process retry in the
// aggregator was exhausted; asynq retries them with its own backoff until
// the aggregate converges.
func InitRatingWorker(aggregator *review.RatingAggregator) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(models.TaskRatingRecompute, handleRatingRecompute(aggregator))

	go func() {
		log.Println("[RatingWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[RatingWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[RatingWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleRatingRecompute(aggregator *review.RatingAggregator) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.RatingRecomputePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[RatingWorker] invalid payload: %v", err)
			return err
		}
		return aggregator.Recompute(p.ProviderID)
	}
}
