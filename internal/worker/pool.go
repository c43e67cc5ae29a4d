package worker

import (
	"context"
	"encoding/json"
	"time"

	"javopos/internal/ledger"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueAudit = "jobs:audit"
	QueueAlert = "jobs:alert"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
//
// It implements ledger.Publisher: every audit event becomes a persistence job,
// and temporal activation/expiry events additionally fan out an alert job.
// Delivery is fire-and-forget from the ledger's point of view.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// Publish enqueues the event for the audit worker, fanning out to the alert
// queue for the actions an operator wants to hear about.
func (d *Dispatcher) Publish(ctx context.Context, ev ledger.AuditEvent) error {
	if err := d.enqueue(ctx, QueueAudit, "audit", ev); err != nil {
		return err
	}
	switch ev.Action {
	case ledger.ActionActivated, ledger.ActionFinished:
		// Alert delivery is best-effort on top of best-effort: a failed
		// enqueue must not fail the audit publish that already succeeded.
		if err := d.enqueue(ctx, QueueAlert, "alert", ev); err != nil {
			log.Warn().Err(err).Str("action", ev.Action).Msg("dispatcher: alert enqueue failed")
		}
	}
	return nil
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// WorkerHandlers bundles the concrete job handlers wired at the composition root.
type WorkerHandlers struct {
	Audit *AuditWorker
	Alert *AlertWorker
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	queues := []string{QueueAudit, QueueAlert}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	var err error
	switch queue {
	case QueueAudit:
		err = handlers.Audit.Handle(ctx, job.Payload)
	case QueueAlert:
		err = handlers.Alert.Handle(ctx, job.Payload)
	default:
		log.Error().Str("queue", queue).Msg("job from unknown queue")
		return
	}

	if err != nil {
		log.Error().Str("queue", queue).Str("type", job.Type).Err(err).Msg("job failed")
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), 1)
	}
}
