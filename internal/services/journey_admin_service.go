package services

import (
	"context"
	"time"

	"cred-air/journeys/internal/metrics"

	"go.uber.org/zap"
)

// IndexRefresher rebuilds the whole journey index
type IndexRefresher interface {
	RefreshAll(ctx context.Context) (int64, error)
}

// CacheInvalidator is told when the journey index changed wholesale
type CacheInvalidator interface {
	JourneysChanged(ctx context.Context)
}

// JourneyAdminService runs out-of-band index maintenance
type JourneyAdminService struct {
	refresher   IndexRefresher
	invalidator CacheInvalidator
	log         *zap.SugaredLogger
	metrics     *metrics.MetricsRegistry
}

func NewJourneyAdminService(refresher IndexRefresher, invalidator CacheInvalidator, log *zap.SugaredLogger, metricsReg *metrics.MetricsRegistry) *JourneyAdminService {
	return &JourneyAdminService{
		refresher:   refresher,
		invalidator: invalidator,
		log:         log,
		metrics:     metricsReg,
	}
}

// RefreshIndex rebuilds the index from the flights table and returns the rows inserted
// and the time taken. Only one refresh runs at a time; a concurrent call gets
// constants.ErrRefreshInProgress.
func (svc *JourneyAdminService) RefreshIndex(ctx context.Context) (int64, time.Duration, error) {
	start := time.Now()
	svc.log.Info("Journey index refresh started")

	inserted, err := svc.refresher.RefreshAll(ctx)
	elapsed := time.Since(start)

	if svc.invalidator != nil {
		// Even a failed refresh has already cleared rows.
		svc.invalidator.JourneysChanged(ctx)
	}

	if err != nil {
		svc.log.Errorw("Journey index refresh failed", "inserted", inserted, "elapsed", elapsed.String(), "error", err)
		return inserted, elapsed, err
	}

	if svc.metrics != nil {
		svc.metrics.JourneyRefreshDuration.Observe(elapsed.Seconds())
	}
	svc.log.Infow("Journey index refresh finished", "inserted", inserted, "elapsed", elapsed.String())
	return inserted, elapsed, nil
}
