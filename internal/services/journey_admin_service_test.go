package services

import (
	"context"
	"errors"
	"testing"

	"cred-air/journeys/internal/constants"
	"cred-air/journeys/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

type mockRefresher struct {
	refreshFunc func() (int64, error)
}

func (m *mockRefresher) RefreshAll(ctx context.Context) (int64, error) {
	return m.refreshFunc()
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) JourneysChanged(ctx context.Context) {
	c.calls++
}

func TestJourneyAdminService_RefreshIndex(t *testing.T) {
	invalidator := &countingInvalidator{}
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	refresher := &mockRefresher{refreshFunc: func() (int64, error) { return 42, nil }}
	svc := NewJourneyAdminService(refresher, invalidator, zap.NewNop().Sugar(), reg)

	inserted, elapsed, err := svc.RefreshIndex(context.Background())
	if err != nil {
		t.Fatalf("RefreshIndex failed: %v", err)
	}
	if inserted != 42 {
		t.Errorf("Expected 42 journeys, got %d", inserted)
	}
	if elapsed < 0 {
		t.Errorf("Expected non-negative elapsed time, got %s", elapsed)
	}
	if invalidator.calls != 1 {
		t.Errorf("Expected cache invalidated once, got %d", invalidator.calls)
	}
	if got := testutil.CollectAndCount(reg.JourneyRefreshDuration); got != 1 {
		t.Errorf("Expected refresh duration histogram collected, got %d", got)
	}
}

func TestJourneyAdminService_FailedRefreshStillInvalidates(t *testing.T) {
	invalidator := &countingInvalidator{}
	refresher := &mockRefresher{refreshFunc: func() (int64, error) { return 3, constants.ErrRefreshInProgress }}
	svc := NewJourneyAdminService(refresher, invalidator, zap.NewNop().Sugar(), nil)

	inserted, _, err := svc.RefreshIndex(context.Background())
	if !errors.Is(err, constants.ErrRefreshInProgress) {
		t.Fatalf("Expected ErrRefreshInProgress, got %v", err)
	}
	if inserted != 3 {
		t.Errorf("Expected partial count 3, got %d", inserted)
	}
	if invalidator.calls != 1 {
		t.Errorf("Expected cache invalidated after a failed refresh, got %d", invalidator.calls)
	}
}

func TestJourneyAdminService_NilInvalidator(t *testing.T) {
	refresher := &mockRefresher{refreshFunc: func() (int64, error) { return 0, nil }}
	svc := NewJourneyAdminService(refresher, nil, zap.NewNop().Sugar(), nil)

	if _, _, err := svc.RefreshIndex(context.Background()); err != nil {
		t.Fatalf("RefreshIndex failed: %v", err)
	}
}
