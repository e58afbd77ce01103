package workers

import (
	"context"
	"time"
)

// WorkersContainer holds the running background workers of the journey index pipeline
type WorkersContainer struct {
	Dispatcher *JourneyDispatcher
	Monitor    *JourneyQueueMonitor
}

// InitWorkers starts the dispatcher pool on workerCtx and the queue monitor on monitorCtx.
// workerCtx should outlive the shutdown signal so Shutdown can still drain.
func InitWorkers(
	workerCtx context.Context,
	monitorCtx context.Context,
	dispatcher *JourneyDispatcher,
	monitor *JourneyQueueMonitor,
	monitorInterval time.Duration,
) *WorkersContainer {
	dispatcher.Start(workerCtx)

	// Start monitor
	go monitor.Start(monitorCtx, monitorInterval)

	return &WorkersContainer{
		Dispatcher: dispatcher,
		Monitor:    monitor,
	}
}

// Shutdown stops the queue from accepting events and drains it
func (wc *WorkersContainer) Shutdown(ctx context.Context) error {
	return wc.Dispatcher.Shutdown(ctx)
}
