package workers

import (
	"context"
	"time"

	"cred-air/journeys/internal/metrics"

	"go.uber.org/zap"
)

// queueStatsSource is the part of the dispatcher the monitor reads
type queueStatsSource interface {
	Stats() DispatcherStats
}

// JourneyQueueMonitor periodically reports journey queue health
type JourneyQueueMonitor struct {
	source  queueStatsSource
	log     *zap.SugaredLogger
	metrics *metrics.MetricsRegistry

	lastDropped int64
}

// NewJourneyQueueMonitor creates a new queue monitor. metricsReg may be nil.
func NewJourneyQueueMonitor(source queueStatsSource, log *zap.SugaredLogger, metricsReg *metrics.MetricsRegistry) *JourneyQueueMonitor {
	return &JourneyQueueMonitor{
		source:  source,
		log:     log,
		metrics: metricsReg,
	}
}

// Start checks the queue every interval until ctx is cancelled
func (m *JourneyQueueMonitor) Start(ctx context.Context, interval time.Duration) {
	m.log.Infow("Starting journey queue monitoring", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start
	m.checkQueue()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("Journey queue monitor shutting down")
			return
		case <-ticker.C:
			m.checkQueue()
		}
	}
}

// checkQueue logs queue health and returns the status label
func (m *JourneyQueueMonitor) checkQueue() string {
	stats := m.source.Stats()

	if m.metrics != nil {
		m.metrics.EventQueueDepth.Set(float64(stats.Pending))
	}

	newDrops := stats.Dropped - m.lastDropped
	m.lastDropped = stats.Dropped

	status := "OK"
	switch {
	case newDrops > 0:
		status = "DROPPING"
	case stats.Capacity > 0 && stats.Pending*5 >= stats.Capacity*4:
		status = "HIGH QUEUE"
	case !stats.Accepting:
		status = "CLOSED"
	}

	fields := []interface{}{
		"status", status,
		"pending", stats.Pending,
		"capacity", stats.Capacity,
		"processed", stats.Processed,
		"failed", stats.Failed,
		"dropped", stats.Dropped,
		"dropped_since_last_check", newDrops,
	}

	if status == "OK" || status == "CLOSED" {
		m.log.Debugw("Journey queue health check", fields...)
	} else {
		m.log.Warnw("Journey queue needs attention", fields...)
	}
	return status
}
