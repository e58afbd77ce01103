package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"cred-air/journeys/internal/constants"
	"cred-air/journeys/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

func setupSearchRepo(t *testing.T) *JourneySearchRepo {
	t.Helper()

	db := setupTestDB(t)
	seedFlight(t, db, 1, "DEL", "BOM", testBase, 2*time.Hour, 10)
	seedFlight(t, db, 2, "BOM", "BLR", testBase.Add(3*time.Hour), 90*time.Minute, 7)
	seedFlight(t, db, 4, "DEL", "BLR", testBase.Add(time.Hour), 150*time.Minute, 30)

	if _, err := newTestIndexRepo(db).RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll failed: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	return NewJourneySearchRepo(sqlx.NewDb(sqlDB, "sqlite3"))
}

func searchFilter(sortBy string) entities.JourneySearchFilter {
	return entities.JourneySearchFilter{
		Origin:        "DEL",
		Destination:   "BLR",
		DepartureDate: "2030-03-10",
		MinSeats:      1,
		MaxStops:      2,
		SortBy:        sortBy,
		Limit:         20,
	}
}

func TestJourneySearchRepo_SortsByRequestedColumn(t *testing.T) {
	repo := setupSearchRepo(t)
	ctx := context.Background()

	byDeparture, total, err := repo.Search(ctx, searchFilter("departure"))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 2 || len(byDeparture) != 2 {
		t.Fatalf("Expected 2 journeys DEL-BLR, got total %d rows %d", total, len(byDeparture))
	}
	if byDeparture[0].Path != "1>2" {
		t.Errorf("Expected the 06:00 connection first by departure, got %s", byDeparture[0].Path)
	}

	byPrice, _, err := repo.Search(ctx, searchFilter("price"))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if byPrice[0].Path != "4" || byPrice[0].TotalPrice != 100 {
		t.Errorf("Expected the direct flight first by price, got %+v", byPrice[0])
	}
	if !byPrice[1].DepartureTime.Equal(testBase) {
		t.Errorf("Expected connection departure %s, got %s", testBase, byPrice[1].DepartureTime)
	}
}

func TestJourneySearchRepo_FiltersSeatsAndStops(t *testing.T) {
	repo := setupSearchRepo(t)
	ctx := context.Background()

	filter := searchFilter("departure")
	filter.MinSeats = 8
	rows, total, err := repo.Search(ctx, filter)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 1 || rows[0].Path != "4" {
		t.Errorf("Expected only the direct flight to have 8 seats, got %d rows", total)
	}

	filter = searchFilter("departure")
	filter.MaxStops = 0
	rows, _, err = repo.Search(ctx, filter)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Stops != 0 {
		t.Errorf("Expected direct journeys only, got %+v", rows)
	}

	filter = searchFilter("departure")
	filter.DepartureDate = "2030-03-11"
	rows, total, err = repo.Search(ctx, filter)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 0 || len(rows) != 0 {
		t.Errorf("Expected no journeys on another day, got %d", total)
	}
}

func TestJourneySearchRepo_Paging(t *testing.T) {
	repo := setupSearchRepo(t)

	filter := searchFilter("departure")
	filter.Limit = 1
	filter.Offset = 1

	rows, total, err := repo.Search(context.Background(), filter)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 2 {
		t.Errorf("Expected total 2 regardless of page, got %d", total)
	}
	if len(rows) != 1 || rows[0].Path != "4" {
		t.Errorf("Expected the second journey on page 2, got %+v", rows)
	}
}

func TestJourneySearchRepo_RejectsUnknownSort(t *testing.T) {
	repo := setupSearchRepo(t)

	_, _, err := repo.Search(context.Background(), searchFilter("airline; DROP TABLE journeys"))
	if !errors.Is(err, constants.ErrInvalidSearch) {
		t.Errorf("Expected ErrInvalidSearch, got %v", err)
	}
}
