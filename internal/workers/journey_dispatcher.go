package workers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"cred-air/journeys/internal/common"
	"cred-air/journeys/internal/journeys"
	"cred-air/journeys/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventHandler applies one change event to the journey index
type EventHandler interface {
	Handle(ctx context.Context, event journeys.ChangeEvent) error
}

// DispatcherConfig sizes the queue and the worker pool
type DispatcherConfig struct {
	Capacity int
	Workers  int
}

// DispatcherStats is a point-in-time view of the pipeline for monitoring
type DispatcherStats struct {
	WorkerID  string `json:"worker_id"`
	Pending   int    `json:"pending"`
	Capacity  int    `json:"capacity"`
	Workers   int    `json:"workers"`
	Accepting bool   `json:"accepting"`
	Published int64  `json:"published"`
	Dropped   int64  `json:"dropped"`
	Processed int64  `json:"processed"`
	Failed    int64  `json:"failed"`
}

type queuedEvent struct {
	id         int64
	event      journeys.ChangeEvent
	enqueuedAt time.Time
}

// JourneyDispatcher is a bounded in-process queue drained by a fixed pool of workers.
// Publishing never blocks: a full queue drops the event. Shutdown drains what is left.
type JourneyDispatcher struct {
	workerID    string
	concurrency int
	queue       chan queuedEvent
	handler     EventHandler
	ids         *common.IDGenerator
	log         *zap.SugaredLogger
	metrics     *metrics.MetricsRegistry

	// mu guards closed/started; Publish holds the read lock across its non-blocking send
	// so no event can land in the queue after Shutdown starts draining.
	mu      sync.RWMutex
	closed  bool
	started bool
	stop    chan struct{}
	wg      sync.WaitGroup

	published atomic.Int64
	dropped   atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
}

// NewJourneyDispatcher creates a dispatcher. Workers do not run until Start. metricsReg may be nil.
func NewJourneyDispatcher(
	cfg DispatcherConfig,
	handler EventHandler,
	ids *common.IDGenerator,
	log *zap.SugaredLogger,
	metricsReg *metrics.MetricsRegistry,
) *JourneyDispatcher {
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	return &JourneyDispatcher{
		workerID:    "journey-" + uuid.New().String()[:8],
		concurrency: cfg.Workers,
		queue:       make(chan queuedEvent, cfg.Capacity),
		handler:     handler,
		ids:         ids,
		log:         log,
		metrics:     metricsReg,
		stop:        make(chan struct{}),
	}
}

// Start launches the worker pool. Calling it twice, or after Shutdown, does nothing.
func (d *JourneyDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	if d.started || d.closed {
		d.mu.Unlock()
		return
	}
	d.started = true
	d.mu.Unlock()

	d.log.Infow("Starting journey index workers", "worker_id", d.workerID, "workers", d.concurrency, "capacity", cap(d.queue))

	for i := 0; i < d.concurrency; i++ {
		d.wg.Add(1)
		workerName := fmt.Sprintf("%s-worker-%d", d.workerID, i)

		go func() {
			defer d.wg.Done()
			d.runWorker(ctx, workerName)
		}()
	}
}

// Publish enqueues the event if there is room. It returns false, logs a warning and
// counts a drop when the queue is full or the dispatcher is shutting down.
func (d *JourneyDispatcher) Publish(event journeys.ChangeEvent) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(event, "dispatcher shut down")
		return false
	}

	item := queuedEvent{
		id:         d.ids.Next(),
		event:      event,
		enqueuedAt: time.Now(),
	}

	select {
	case d.queue <- item:
		d.published.Add(1)
		if d.metrics != nil {
			d.metrics.EventsPublishedTotal.WithLabelValues(string(event.EventType())).Inc()
			d.metrics.EventQueueDepth.Set(float64(len(d.queue)))
		}
		return true
	default:
		d.drop(event, "queue full")
		return false
	}
}

// PendingEventCount is the number of events waiting for a worker
func (d *JourneyDispatcher) PendingEventCount() int {
	return len(d.queue)
}

// Stats returns counters for the queue monitor and the admin API
func (d *JourneyDispatcher) Stats() DispatcherStats {
	d.mu.RLock()
	accepting := !d.closed
	d.mu.RUnlock()

	return DispatcherStats{
		WorkerID:  d.workerID,
		Pending:   len(d.queue),
		Capacity:  cap(d.queue),
		Workers:   d.concurrency,
		Accepting: accepting,
		Published: d.published.Load(),
		Dropped:   d.dropped.Load(),
		Processed: d.processed.Load(),
		Failed:    d.failed.Load(),
	}
}

// Shutdown stops accepting events, lets each worker finish its current event, then
// processes whatever is still queued on the calling goroutine. If ctx expires first the
// remaining events are abandoned and counted in the returned error.
func (d *JourneyDispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	close(d.stop)

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		d.log.Warnw("Journey workers did not stop before shutdown deadline",
			"worker_id", d.workerID,
			"pending", len(d.queue),
		)
		return fmt.Errorf("waiting for journey workers: %w", ctx.Err())
	}

	return d.drain(ctx)
}

func (d *JourneyDispatcher) runWorker(ctx context.Context, workerName string) {
	for {
		// Stop wins over queued work; leftovers are drained by Shutdown.
		select {
		case <-d.stop:
			return
		case <-ctx.Done():
			return
		default:
		}

		select {
		case <-d.stop:
			return
		case <-ctx.Done():
			return
		case item := <-d.queue:
			d.process(ctx, workerName, item)
		}
	}
}

func (d *JourneyDispatcher) drain(ctx context.Context) error {
	drained := 0
	for {
		if err := ctx.Err(); err != nil {
			remaining := len(d.queue)
			d.log.Warnw("Journey queue drain interrupted",
				"worker_id", d.workerID,
				"drained", drained,
				"abandoned", remaining,
			)
			return fmt.Errorf("draining journey queue, %d events abandoned: %w", remaining, err)
		}

		select {
		case item := <-d.queue:
			d.process(ctx, d.workerID+"-drain", item)
			drained++
		default:
			d.log.Infow("Journey queue drained", "worker_id", d.workerID, "drained", drained)
			return nil
		}
	}
}

// process handles one event; a failure or panic is logged and the caller moves on
func (d *JourneyDispatcher) process(ctx context.Context, workerName string, item queuedEvent) {
	start := time.Now()
	eventType := string(item.event.EventType())

	err := d.safeHandle(ctx, item.event)

	outcome := "ok"
	if err != nil {
		outcome = "failed"
		d.failed.Add(1)
		d.log.Errorw("Failed to apply journey event",
			"worker", workerName,
			"event_id", item.id,
			"event_type", eventType,
			"flight_id", item.event.TargetFlightID(),
			"queued_for_ms", start.Sub(item.enqueuedAt).Milliseconds(),
			"error", err,
		)
	} else {
		d.processed.Add(1)
	}

	if d.metrics != nil {
		d.metrics.EventsProcessedTotal.WithLabelValues(eventType, outcome).Inc()
		d.metrics.EventHandleDuration.WithLabelValues(eventType).Observe(time.Since(start).Seconds())
		d.metrics.EventQueueDepth.Set(float64(len(d.queue)))
	}
}

func (d *JourneyDispatcher) safeHandle(ctx context.Context, event journeys.ChangeEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while handling %s: %v", event.EventType(), r)
		}
	}()
	return d.handler.Handle(ctx, event)
}

func (d *JourneyDispatcher) drop(event journeys.ChangeEvent, reason string) {
	total := d.dropped.Add(1)
	if d.metrics != nil {
		d.metrics.EventsDroppedTotal.Inc()
	}
	d.log.Warnw("Dropped journey event",
		"reason", reason,
		"event_type", event.EventType(),
		"flight_id", event.TargetFlightID(),
		"dropped_total", total,
	)
}
