package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bclick/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueOrderEvents = "jobs:order_events"
	QueueEmail       = "jobs:email"

	JobOrderEvent = "order_event"
	JobEmail      = "email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts,omitempty"`
}

// Processor handles one job payload. A returned error sends the job to the DLQ.
type Processor interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// NotifyOrderCreated queues the supplier notification for a new order.
func (d *Dispatcher) NotifyOrderCreated(ctx context.Context, orderID uuid.UUID) error {
	return d.enqueue(ctx, QueueOrderEvents, JobOrderEvent, OrderEventPayload{
		Event:   EventOrderCreated,
		OrderID: orderID.String(),
	})
}

// NotifyStatusChanged queues the client notification for a status change.
func (d *Dispatcher) NotifyStatusChanged(ctx context.Context, orderID uuid.UUID, from, to model.OrderStatus) error {
	return d.enqueue(ctx, QueueOrderEvents, JobOrderEvent, OrderEventPayload{
		Event:   EventStatusChanged,
		OrderID: orderID.String(),
		From:    string(from),
		To:      string(to),
	})
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Pool routes dequeued jobs to their processor by job type.
type Pool struct {
	rdb        *redis.Client
	processors map[string]Processor
	queues     []string
}

func NewPool(rdb *redis.Client, processors map[string]Processor) *Pool {
	return &Pool{
		rdb:        rdb,
		processors: processors,
		queues:     []string{QueueOrderEvents, QueueEmail},
	}
}

// Start launches numWorkers goroutines consuming every queue.
// Each goroutine blocks on BRPOP, so idle workers cost nothing.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// blocking pop; waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
			if err != nil {
				continue
			}
			if len(result) < 2 {
				continue
			}
			p.handle(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) handle(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	proc, ok := p.processors[job.Type]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job, fmt.Sprintf("no processor for job type %q", job.Type))
		return
	}

	start := time.Now()
	if err := proc.Process(ctx, job.Payload); err != nil {
		job.Attempts++
		SendToDLQ(ctx, p.rdb, queue, job, err.Error())
		return
	}
	log.Debug().Str("type", job.Type).Str("queue", queue).Dur("took", time.Since(start)).Msg("job done")
}
