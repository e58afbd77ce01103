package constants

import "time"

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixJourneySearch     CachePrefix = "JOURNEY_SEARCH_"
	CachePrefixJourneyGeneration CachePrefix = "JOURNEY_INDEX_GENERATION"
)

// Connection window between two adjacent legs of a journey. Both bounds are inclusive.
const (
	MinConnectionTime = 45 * time.Minute
	MaxConnectionTime = 24 * time.Hour
)

const (
	// MaxJourneyLegs caps itineraries at two stops.
	MaxJourneyLegs = 3

	// PathSeparator joins flight ids in the journeys.path natural-key column.
	PathSeparator = ">"

	// DepartureDateLayout is the partition format of journeys.departure_date.
	DepartureDateLayout = "2006-01-02"
)

const (
	DefaultSearchPageSize = 20
	MaxSearchPageSize     = 100
)
