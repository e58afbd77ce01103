package repositories

import (
	"context"
	"fmt"

	"cred-air/journeys/internal/constants"
	"cred-air/journeys/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// JourneySearchRepo reads the journey index for search queries
type JourneySearchRepo struct {
	db *sqlx.DB
}

// NewJourneySearchRepo creates a new journey search repository
func NewJourneySearchRepo(db *sqlx.DB) *JourneySearchRepo {
	return &JourneySearchRepo{db: db}
}

// Search returns one page of journeys and the total number of matches
func (r *JourneySearchRepo) Search(ctx context.Context, filter entities.JourneySearchFilter) ([]entities.Journey, int, error) {
	sortColumn, ok := constants.SearchSortColumns[filter.SortBy]
	if !ok {
		return nil, 0, fmt.Errorf("%w: unsupported sort %q", constants.ErrInvalidSearch, filter.SortBy)
	}

	args := []interface{}{
		filter.Origin,
		filter.Destination,
		filter.DepartureDate,
		filter.MinSeats,
		filter.MaxStops,
	}

	var total int
	countQuery := r.db.Rebind(constants.CountJourneys + constants.SearchJourneysFilter)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count journeys: %w", err)
	}

	if total == 0 {
		return []entities.Journey{}, 0, nil
	}

	query := r.db.Rebind(constants.SearchJourneysColumns + constants.SearchJourneysFilter +
		" ORDER BY " + sortColumn + " ASC, id ASC LIMIT ? OFFSET ?")

	journeys := []entities.Journey{}
	if err := r.db.SelectContext(ctx, &journeys, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return nil, 0, fmt.Errorf("failed to search journeys: %w", err)
	}

	return journeys, total, nil
}
