package api

import (
	"net/http"
	"strconv"

	"cred-air/journeys/internal/constants"
	"cred-air/journeys/internal/models/dtos/requests"
)

// SearchJourneys godoc
// @Summary      Search journeys
// @Description  Returns direct, one-stop and two-stop journeys for a route and departure date from the precomputed index.
// @Tags         Journeys
// @Produce      json
// @Param        origin       query  string  true   "Origin airport"
// @Param        destination  query  string  true   "Destination airport"
// @Param        date         query  string  true   "Departure date (YYYY-MM-DD)"
// @Param        seats        query  int     false  "Minimum seats"               default(1)
// @Param        max_stops    query  int     false  "Maximum stops"               default(2)
// @Param        sort         query  string  false  "departure|arrival|price|duration"
// @Param        limit        query  int     false  "Page size"                   default(20)
// @Param        offset       query  int     false  "Page offset"                 default(0)
// @Success      200  {object}  responses.JourneySearchResponse
// @Failure      400,500  {object}  responses.APIResponse
// @Router       /api/v1/journeys/search [get]
func (h *Handlers) SearchJourneys() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		req := requests.JourneySearchRequest{
			Origin:      q.Get("origin"),
			Destination: q.Get("destination"),
			Date:        q.Get("date"),
			SortBy:      q.Get("sort"),
			MaxStops:    constants.MaxJourneyLegs - 1,
		}

		ints := []struct {
			name string
			dst  *int
		}{
			{"seats", &req.MinSeats},
			{"max_stops", &req.MaxStops},
			{"limit", &req.Limit},
			{"offset", &req.Offset},
		}
		for _, param := range ints {
			raw := q.Get(param.name)
			if raw == "" {
				continue
			}
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				respondWithError(w, http.StatusBadRequest, "Invalid "+param.name+" parameter")
				return
			}
			*param.dst = n
		}

		resp, err := h.deps.Services.JourneySearch.Search(r.Context(), req)
		if err != nil {
			respondWithServiceError(w, err, constants.MsgSearchFailed)
			return
		}
		respondWithSuccess(w, http.StatusOK, resp)
	}
}
