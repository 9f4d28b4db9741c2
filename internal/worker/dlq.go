package worker

// Dead letter queue: jobs that exhaust their retries land on a separate
// redis list per source queue (dlq:{queue}) for manual review.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DLQEntry keeps the failed job together with the reason it was dropped.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	Attempts      int             `json:"attempts"`
	FailedAt      time.Time       `json:"failed_at"`
}

// SendToDLQ moves an exhausted job to the dead letter queue. It never
// returns an error: losing the entry is logged but must not kill the worker.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, jobType string, payload json.RawMessage, reason string, attempts int) {
	key := DLQPrefix + queue
	data, err := json.Marshal(DLQEntry{
		OriginalQueue: queue,
		JobType:       jobType,
		Payload:       payload,
		Reason:        reason,
		Attempts:      attempts,
		FailedAt:      time.Now().UTC(),
	})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to marshal entry")
		return
	}
	if err := rdb.LPush(ctx, key, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", key).Msg("dlq: failed to push entry")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("type", jobType).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job dropped after retries")
}

// DLQLength reports how many entries a dead letter queue has accumulated.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
