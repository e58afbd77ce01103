package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"cred-air/journeys/internal/common"
	"cred-air/journeys/internal/constants"
	"cred-air/journeys/internal/metrics"
	"cred-air/journeys/internal/models/dtos/requests"
	"cred-air/journeys/internal/models/entities"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

// Mock JourneySearcher
type mockJourneySearcher struct {
	calls      int
	lastFilter entities.JourneySearchFilter
	searchFunc func(filter entities.JourneySearchFilter) ([]entities.Journey, int, error)
}

func (m *mockJourneySearcher) Search(ctx context.Context, filter entities.JourneySearchFilter) ([]entities.Journey, int, error) {
	m.calls++
	m.lastFilter = filter
	if m.searchFunc != nil {
		return m.searchFunc(filter)
	}
	return []entities.Journey{
		{
			ID:            11,
			Path:          "1>2",
			Origin:        "DEL",
			Destination:   "BLR",
			DepartureDate: filter.DepartureDate,
			Stops:         1,
			TotalPrice:    6400,
			Currency:      "INR",
			FlightNumbers: "6E1, 6E2",
		},
	}, 1, nil
}

func newTestSearchService(repo JourneySearcher) (*JourneySearchService, *metrics.MetricsRegistry) {
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	cache := common.NewCacheService(5*time.Minute, 10*time.Minute)
	return NewJourneySearchService(repo, cache, time.Minute, zap.NewNop().Sugar(), reg), reg
}

func validSearch() requests.JourneySearchRequest {
	return requests.JourneySearchRequest{Origin: "del", Destination: "blr", Date: "2030-03-10"}
}

func TestJourneySearchService_AppliesDefaults(t *testing.T) {
	repo := &mockJourneySearcher{}
	svc, _ := newTestSearchService(repo)

	req := validSearch()
	req.MaxStops = 7
	req.Limit = 500
	req.Offset = -3

	resp, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	f := repo.lastFilter
	if f.Origin != "DEL" || f.Destination != "BLR" {
		t.Errorf("Expected upper-cased airports, got %s-%s", f.Origin, f.Destination)
	}
	if f.MinSeats != 1 || f.MaxStops != 2 || f.SortBy != "departure" {
		t.Errorf("Expected seats 1, stops 2, sort departure, got %+v", f)
	}
	if f.Limit != constants.MaxSearchPageSize || f.Offset != 0 {
		t.Errorf("Expected limit clamped and offset 0, got %d/%d", f.Limit, f.Offset)
	}

	if len(resp.Journeys) != 1 {
		t.Fatalf("Expected 1 journey, got %d", len(resp.Journeys))
	}
	j := resp.Journeys[0]
	if len(j.FlightIDs) != 2 || j.FlightIDs[0] != 1 || j.FlightIDs[1] != 2 {
		t.Errorf("Expected flight ids [1 2], got %v", j.FlightIDs)
	}
	if len(j.FlightNumbers) != 2 || j.FlightNumbers[1] != "6E2" {
		t.Errorf("Expected flight numbers [6E1 6E2], got %v", j.FlightNumbers)
	}
	if resp.Cached {
		t.Error("Expected the first search to miss the cache")
	}
}

func TestJourneySearchService_RejectsInvalidRequests(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(req *requests.JourneySearchRequest)
	}{
		{"bad origin", func(req *requests.JourneySearchRequest) { req.Origin = "DELHI" }},
		{"same airports", func(req *requests.JourneySearchRequest) { req.Destination = "DEL" }},
		{"bad date", func(req *requests.JourneySearchRequest) { req.Date = "10/03/2030" }},
		{"unknown sort", func(req *requests.JourneySearchRequest) { req.SortBy = "airline" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockJourneySearcher{}
			svc, _ := newTestSearchService(repo)

			req := validSearch()
			tc.mutate(&req)

			if _, err := svc.Search(context.Background(), req); !errors.Is(err, constants.ErrInvalidSearch) {
				t.Errorf("Expected ErrInvalidSearch, got %v", err)
			}
			if repo.calls != 0 {
				t.Errorf("Expected no repository call for an invalid search")
			}
		})
	}
}

func TestJourneySearchService_ServesRepeatSearchFromCache(t *testing.T) {
	repo := &mockJourneySearcher{}
	svc, reg := newTestSearchService(repo)
	ctx := context.Background()

	if _, err := svc.Search(ctx, validSearch()); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	resp, err := svc.Search(ctx, validSearch())
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if repo.calls != 1 {
		t.Errorf("Expected 1 repository call, got %d", repo.calls)
	}
	if !resp.Cached || len(resp.Journeys) != 1 {
		t.Errorf("Expected cached response with 1 journey, got %+v", resp)
	}
	if got := testutil.ToFloat64(reg.CacheHitsTotal.WithLabelValues(searchCachePattern)); got != 1 {
		t.Errorf("Expected 1 cache hit, got %v", got)
	}
	if got := testutil.ToFloat64(reg.CacheMissesTotal.WithLabelValues(searchCachePattern)); got != 1 {
		t.Errorf("Expected 1 cache miss, got %v", got)
	}
}

func TestJourneySearchService_IndexChangeInvalidatesCache(t *testing.T) {
	repo := &mockJourneySearcher{}
	svc, _ := newTestSearchService(repo)
	ctx := context.Background()

	if _, err := svc.Search(ctx, validSearch()); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	svc.JourneysChanged(ctx)

	resp, err := svc.Search(ctx, validSearch())
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if repo.calls != 2 || resp.Cached {
		t.Errorf("Expected a fresh repository read after the index changed, calls=%d cached=%v", repo.calls, resp.Cached)
	}
}

func TestJourneySearchService_ErrorsAreNotCached(t *testing.T) {
	fail := true
	repo := &mockJourneySearcher{}
	repo.searchFunc = func(filter entities.JourneySearchFilter) ([]entities.Journey, int, error) {
		if fail {
			return nil, 0, errors.New("canceling statement due to statement timeout")
		}
		return nil, 0, nil
	}
	svc, _ := newTestSearchService(repo)
	ctx := context.Background()

	if _, err := svc.Search(ctx, validSearch()); err == nil {
		t.Fatal("Expected repository error")
	}

	fail = false
	resp, err := svc.Search(ctx, validSearch())
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if resp.Cached || resp.Total != 0 || len(resp.Journeys) != 0 {
		t.Errorf("Expected an empty uncached page, got %+v", resp)
	}
}

func TestJourneySearchService_ZeroTTLSkipsCache(t *testing.T) {
	repo := &mockJourneySearcher{}
	svc := NewJourneySearchService(repo, common.NewCacheService(time.Minute, time.Minute), 0, zap.NewNop().Sugar(), nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Search(ctx, validSearch()); err != nil {
			t.Fatalf("Search failed: %v", err)
		}
	}
	if repo.calls != 2 {
		t.Errorf("Expected every search to reach the repository, got %d calls", repo.calls)
	}
}
