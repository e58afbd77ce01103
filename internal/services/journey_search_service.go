package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cred-air/journeys/internal/common"
	"cred-air/journeys/internal/constants"
	"cred-air/journeys/internal/metrics"
	"cred-air/journeys/internal/models/dtos/requests"
	"cred-air/journeys/internal/models/dtos/responses"
	"cred-air/journeys/internal/models/entities"

	"go.uber.org/zap"
)

const (
	searchCachePattern = "journey_search"

	// noExpiry is go-cache's NoExpiration and go-redis' KeepTTL, which on a fresh key means no TTL.
	noExpiry = time.Duration(-1)
)

// JourneySearcher reads pages of the journey index
type JourneySearcher interface {
	Search(ctx context.Context, filter entities.JourneySearchFilter) ([]entities.Journey, int, error)
}

// JourneySearchService answers journey searches from the index, with a cache whose keys
// carry an index generation. Bumping the generation orphans every cached page at once.
type JourneySearchService struct {
	repo    JourneySearcher
	cache   common.CacheInterface
	ttl     time.Duration
	log     *zap.SugaredLogger
	metrics *metrics.MetricsRegistry
}

// NewJourneySearchService creates the search service. A zero ttl disables caching.
func NewJourneySearchService(
	repo JourneySearcher,
	cache common.CacheInterface,
	ttl time.Duration,
	log *zap.SugaredLogger,
	metricsReg *metrics.MetricsRegistry,
) *JourneySearchService {
	return &JourneySearchService{
		repo:    repo,
		cache:   cache,
		ttl:     ttl,
		log:     log,
		metrics: metricsReg,
	}
}

// Search validates the request, applies defaults and returns one page of journeys
func (svc *JourneySearchService) Search(ctx context.Context, req requests.JourneySearchRequest) (*responses.JourneySearchResponse, error) {
	filter, err := buildSearchFilter(req)
	if err != nil {
		return nil, err
	}

	if svc.cache == nil || svc.ttl <= 0 {
		return svc.load(ctx, filter)
	}

	key := svc.cacheKey(filter)
	if cached, ok := svc.fromCache(key); ok {
		svc.recordCache(true)
		return cached, nil
	}
	svc.recordCache(false)

	resp, err := svc.load(ctx, filter)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(resp)
	if err != nil {
		svc.log.Warnw("Failed to encode journey search for cache", "key", key, "error", err)
		return resp, nil
	}
	svc.cache.Set(key, string(data), svc.ttl)
	return resp, nil
}

// JourneysChanged starts a new cache generation; called by the index manager after it changed rows
func (svc *JourneySearchService) JourneysChanged(ctx context.Context) {
	if svc.cache == nil {
		return
	}
	svc.cache.Set(string(constants.CachePrefixJourneyGeneration), newGeneration(), noExpiry)
}

func (svc *JourneySearchService) load(ctx context.Context, filter entities.JourneySearchFilter) (*responses.JourneySearchResponse, error) {
	rows, total, err := svc.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &responses.JourneySearchResponse{
		Journeys: make([]responses.JourneyResponse, 0, len(rows)),
		Total:    total,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}
	for _, row := range rows {
		resp.Journeys = append(resp.Journeys, toJourneyResponse(row))
	}
	return resp, nil
}

func (svc *JourneySearchService) fromCache(key string) (*responses.JourneySearchResponse, bool) {
	val, found := svc.cache.Get(key)
	if !found {
		return nil, false
	}
	data, ok := val.(string)
	if !ok {
		return nil, false
	}

	var resp responses.JourneySearchResponse
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		svc.log.Warnw("Discarding unreadable cached journey search", "key", key, "error", err)
		return nil, false
	}
	resp.Cached = true
	return &resp, true
}

func (svc *JourneySearchService) cacheKey(filter entities.JourneySearchFilter) string {
	return fmt.Sprintf("%s%s:%s:%s:%s:%d:%d:%s:%d:%d",
		constants.CachePrefixJourneySearch,
		svc.generation(),
		filter.Origin,
		filter.Destination,
		filter.DepartureDate,
		filter.MinSeats,
		filter.MaxStops,
		filter.SortBy,
		filter.Limit,
		filter.Offset,
	)
}

// generation returns the current cache generation, creating one if the cache lost it
func (svc *JourneySearchService) generation() string {
	key := string(constants.CachePrefixJourneyGeneration)
	if val, found := svc.cache.Get(key); found {
		if gen, ok := val.(string); ok {
			return gen
		}
	}

	gen := newGeneration()
	svc.cache.Set(key, gen, noExpiry)
	return gen
}

func (svc *JourneySearchService) recordCache(hit bool) {
	if svc.metrics == nil {
		return
	}
	if hit {
		svc.metrics.CacheHitsTotal.WithLabelValues(searchCachePattern).Inc()
	} else {
		svc.metrics.CacheMissesTotal.WithLabelValues(searchCachePattern).Inc()
	}
}

func newGeneration() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}

func buildSearchFilter(req requests.JourneySearchRequest) (entities.JourneySearchFilter, error) {
	filter := entities.JourneySearchFilter{
		Origin:        normalizeAirport(req.Origin),
		Destination:   normalizeAirport(req.Destination),
		DepartureDate: strings.TrimSpace(req.Date),
		MinSeats:      req.MinSeats,
		MaxStops:      req.MaxStops,
		SortBy:        strings.ToLower(strings.TrimSpace(req.SortBy)),
		Limit:         req.Limit,
		Offset:        req.Offset,
	}

	if len(filter.Origin) != 3 || len(filter.Destination) != 3 {
		return filter, fmt.Errorf("%w: origin and destination must be 3-letter codes", constants.ErrInvalidSearch)
	}
	if filter.Origin == filter.Destination {
		return filter, fmt.Errorf("%w: origin and destination must differ", constants.ErrInvalidSearch)
	}
	if _, err := time.Parse(constants.DepartureDateLayout, filter.DepartureDate); err != nil {
		return filter, fmt.Errorf("%w: date must be YYYY-MM-DD", constants.ErrInvalidSearch)
	}

	if filter.MinSeats < 1 {
		filter.MinSeats = 1
	}
	if filter.MaxStops < 0 || filter.MaxStops > constants.MaxJourneyLegs-1 {
		filter.MaxStops = constants.MaxJourneyLegs - 1
	}
	if filter.SortBy == "" {
		filter.SortBy = "departure"
	}
	if _, ok := constants.SearchSortColumns[filter.SortBy]; !ok {
		return filter, fmt.Errorf("%w: unsupported sort %q", constants.ErrInvalidSearch, filter.SortBy)
	}
	if filter.Limit <= 0 {
		filter.Limit = constants.DefaultSearchPageSize
	}
	if filter.Limit > constants.MaxSearchPageSize {
		filter.Limit = constants.MaxSearchPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return filter, nil
}

func toJourneyResponse(row entities.Journey) responses.JourneyResponse {
	return responses.JourneyResponse{
		ID:                   row.ID,
		FlightIDs:            splitPath(row.Path),
		FlightNumbers:        strings.Split(row.FlightNumbers, ", "),
		Origin:               row.Origin,
		Destination:          row.Destination,
		DepartureTime:        row.DepartureTime,
		ArrivalTime:          row.ArrivalTime,
		TotalDurationMinutes: row.TotalDurationMinutes,
		Stops:                row.Stops,
		TotalPrice:           row.TotalPrice,
		Currency:             row.Currency,
		AvailableSeats:       row.MinAvailableSeats,
		AirlineName:          row.AirlineName,
		AirlineLogo:          row.AirlineLogo,
		AircraftType:         row.AircraftType,
	}
}

func splitPath(path string) []int64 {
	parts := strings.Split(path, constants.PathSeparator)
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
