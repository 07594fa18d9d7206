package worker

// redrive_cron.go
// Background goroutine that periodically moves dead-lettered jobs back to
// their queue. It only runs while the SMTP circuit breaker is closed, so a
// downed relay is not hammered. Jobs that keep failing are parked for good.

import (
	"context"
	"encoding/json"
	"time"

	"bclick/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	redriveTickInterval = 30 * time.Second
	redriveBatchSize    = 10
	// MaxJobAttempts is how many failed runs a job gets before it is parked.
	MaxJobAttempts = 5
	parkedSuffix   = ":parked"
)

// RedriveCronConfig holds all dependencies for the re-drive goroutine.
type RedriveCronConfig struct {
	RDB      *redis.Client
	CB       *infra.CircuitBreaker
	Queues   []string
	Interval time.Duration
}

// StartRedriveCron ticks every Interval (30s by default) and re-drives DLQ
// entries. It respects the context for graceful shutdown.
func StartRedriveCron(ctx context.Context, cfg RedriveCronConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = redriveTickInterval
	}
	if len(cfg.Queues) == 0 {
		cfg.Queues = []string{QueueOrderEvents, QueueEmail}
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Msg("redrive_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("redrive_cron: shutting down")
				return
			case <-ticker.C:
				redrive(ctx, cfg)
			}
		}
	}()
}

// redrive moves up to redriveBatchSize entries per queue and returns how many
// jobs went back to work.
func redrive(ctx context.Context, cfg RedriveCronConfig) int {
	if cfg.CB.State() != infra.CBClosed {
		log.Debug().Str("breaker", cfg.CB.Name()).Msg("redrive_cron: circuit breaker not closed, skipping tick")
		return 0
	}

	moved := 0
	for _, queue := range cfg.Queues {
		dlqKey := DLQPrefix + queue
		for i := 0; i < redriveBatchSize; i++ {
			// the breaker may have tripped mid-batch
			if cfg.CB.State() != infra.CBClosed {
				return moved
			}
			raw, err := cfg.RDB.RPop(ctx, dlqKey).Result()
			if err == redis.Nil {
				break
			}
			if err != nil {
				log.Error().Err(err).Str("dlq_key", dlqKey).Msg("redrive_cron: failed to pop DLQ")
				break
			}

			var entry DLQEntry
			if err := json.Unmarshal([]byte(raw), &entry); err != nil {
				log.Error().Err(err).Str("dlq_key", dlqKey).Msg("redrive_cron: dropping malformed entry")
				continue
			}
			if entry.Job.Attempts >= MaxJobAttempts {
				_ = cfg.RDB.LPush(ctx, dlqKey+parkedSuffix, raw).Err()
				log.Error().
					Str("queue", queue).
					Str("job_type", entry.Job.Type).
					Int("attempts", entry.Job.Attempts).
					Msg("redrive_cron: max attempts exceeded, job parked")
				continue
			}
			if err := push(ctx, cfg.RDB, queue, entry.Job); err != nil {
				_ = cfg.RDB.RPush(ctx, dlqKey, raw).Err()
				log.Error().Err(err).Str("queue", queue).Msg("redrive_cron: requeue failed")
				return moved
			}
			moved++
		}
	}
	if moved > 0 {
		log.Info().Int("count", moved).Msg("redrive_cron: jobs re-driven")
	}
	return moved
}
