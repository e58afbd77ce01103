package requests

// JourneySearchRequest holds the query parameters of GET /api/v1/journeys/search
type JourneySearchRequest struct {
	Origin      string
	Destination string
	Date        string
	MinSeats    int
	MaxStops    int
	SortBy      string
	Limit       int
	Offset      int
}
