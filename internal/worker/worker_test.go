package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"bclick/internal/infra"
	"bclick/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func popJob(t *testing.T, mr *miniredis.Miniredis, queue string) Job {
	t.Helper()
	raw, err := mr.Lpop(queue)
	require.NoError(t, err)
	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	return job
}

func TestDispatcher_EnqueuesOrderEvents(t *testing.T) {
	mr, rdb := newTestRedis(t)
	d := NewDispatcher(rdb)
	id := uuid.New()
	ctx := context.Background()

	require.NoError(t, d.NotifyOrderCreated(ctx, id))
	require.NoError(t, d.NotifyStatusChanged(ctx, id, model.OrderPending, model.OrderProcessing))

	list, err := mr.List(QueueOrderEvents)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// LPUSH puts the newest job at the head
	job := popJob(t, mr, QueueOrderEvents)
	assert.Equal(t, JobOrderEvent, job.Type)
	var p OrderEventPayload
	require.NoError(t, json.Unmarshal(job.Payload, &p))
	assert.Equal(t, OrderEventPayload{Event: EventStatusChanged, OrderID: id.String(), From: "pending", To: "processing"}, p)

	job = popJob(t, mr, QueueOrderEvents)
	require.NoError(t, json.Unmarshal(job.Payload, &p))
	assert.Equal(t, EventOrderCreated, p.Event)
}

type funcProcessor func(ctx context.Context, raw json.RawMessage) error

func (f funcProcessor) Process(ctx context.Context, raw json.RawMessage) error { return f(ctx, raw) }

func TestPoolHandle_SuccessAndFailure(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()
	var seen []string
	pool := NewPool(rdb, map[string]Processor{
		JobEmail: funcProcessor(func(_ context.Context, raw json.RawMessage) error {
			var p EmailJobPayload
			require.NoError(t, json.Unmarshal(raw, &p))
			seen = append(seen, p.ToEmail)
			if p.ToEmail == "broken@example.com" {
				return errors.New("relay said no")
			}
			return nil
		}),
	})

	enc := func(job Job) string {
		b, err := json.Marshal(job)
		require.NoError(t, err)
		return string(b)
	}
	ok, _ := json.Marshal(EmailJobPayload{ToEmail: "ok@example.com"})
	bad, _ := json.Marshal(EmailJobPayload{ToEmail: "broken@example.com"})

	pool.handle(ctx, QueueEmail, enc(Job{Type: JobEmail, Payload: ok}))
	pool.handle(ctx, QueueEmail, enc(Job{Type: JobEmail, Payload: bad, Attempts: 2}))
	pool.handle(ctx, QueueEmail, enc(Job{Type: "mystery", Payload: ok}))
	pool.handle(ctx, QueueEmail, "{not json")

	assert.Equal(t, []string{"ok@example.com", "broken@example.com"}, seen)

	n, err := DLQLength(ctx, rdb, QueueEmail)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	raw, err := mr.RPop(DLQPrefix + QueueEmail)
	require.NoError(t, err)
	var entry DLQEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &entry))
	assert.Equal(t, QueueEmail, entry.OriginalQueue)
	assert.Equal(t, "relay said no", entry.Reason)
	assert.Equal(t, 3, entry.Job.Attempts)
}

func TestPoolStart_ConsumesQueue(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan string, 1)
	pool := NewPool(rdb, map[string]Processor{
		JobOrderEvent: funcProcessor(func(_ context.Context, raw json.RawMessage) error {
			var p OrderEventPayload
			_ = json.Unmarshal(raw, &p)
			done <- p.OrderID
			return nil
		}),
	})
	pool.Start(ctx, 1)

	id := uuid.New()
	require.NoError(t, NewDispatcher(rdb).NotifyOrderCreated(ctx, id))

	select {
	case got := <-done:
		assert.Equal(t, id.String(), got)
	case <-time.After(3 * time.Second):
		t.Fatal("job was not consumed")
	}
}

func dlqEntry(t *testing.T, queue string, attempts int) string {
	t.Helper()
	payload, _ := json.Marshal(EmailJobPayload{ToEmail: "a@example.com"})
	b, err := json.Marshal(DLQEntry{
		OriginalQueue: queue,
		Job:           Job{Type: JobEmail, Payload: payload, Attempts: attempts},
		Reason:        "boom",
		FailedAt:      time.Now().UTC().Format(time.RFC3339),
	})
	require.NoError(t, err)
	return string(b)
}

func TestRedrive_RequeuesAndParks(t *testing.T) {
	mr, rdb := newTestRedis(t)
	dlqKey := DLQPrefix + QueueEmail
	_, err := mr.Lpush(dlqKey, dlqEntry(t, QueueEmail, 1))
	require.NoError(t, err)
	_, err = mr.Lpush(dlqKey, dlqEntry(t, QueueEmail, MaxJobAttempts))
	require.NoError(t, err)
	_, err = mr.Lpush(dlqKey, "garbage")
	require.NoError(t, err)

	cfg := RedriveCronConfig{
		RDB:    rdb,
		CB:     infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp")),
		Queues: []string{QueueEmail},
	}
	moved := redrive(context.Background(), cfg)

	assert.Equal(t, 1, moved)
	assert.False(t, mr.Exists(dlqKey))

	queued, err := mr.List(QueueEmail)
	require.NoError(t, err)
	require.Len(t, queued, 1)
	var job Job
	require.NoError(t, json.Unmarshal([]byte(queued[0]), &job))
	assert.Equal(t, 1, job.Attempts)

	parked, err := mr.List(dlqKey + parkedSuffix)
	require.NoError(t, err)
	assert.Len(t, parked, 1)
}

func TestRedrive_SkipsWhileBreakerOpen(t *testing.T) {
	mr, rdb := newTestRedis(t)
	dlqKey := DLQPrefix + QueueEmail
	_, err := mr.Lpush(dlqKey, dlqEntry(t, QueueEmail, 1))
	require.NoError(t, err)

	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{Name: "smtp", FailureThreshold: 1, OpenTimeout: time.Hour})
	_ = cb.Execute(func() error { return errors.New("down") })
	require.Equal(t, infra.CBOpen, cb.State())

	moved := redrive(context.Background(), RedriveCronConfig{RDB: rdb, CB: cb, Queues: []string{QueueEmail}})
	assert.Equal(t, 0, moved)
	assert.True(t, mr.Exists(dlqKey))
	assert.False(t, mr.Exists(QueueEmail))
}

func TestWithRetry(t *testing.T) {
	retryBaseDelay = time.Millisecond
	t.Cleanup(func() { retryBaseDelay = time.Second })

	calls := 0
	err := withRetry(context.Background(), 3, func(int) error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	stop := errors.New("stop now")
	err = withRetry(context.Background(), 3, func(int) error {
		calls++
		return errStop{stop}
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = withRetry(ctx, 3, func(int) error { return errors.New("flaky") })
	assert.ErrorIs(t, err, context.Canceled)
}
