package database

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

const (
	StatusGenerating = "generating"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

type Trip struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Destination string    `json:"destination"`
	Origin      string    `json:"origin"`
	StartDate   int64     `json:"start_date"` // epoch millis
	EndDate     int64     `json:"end_date"`   // epoch millis
	Budget      float64   `json:"budget"`
	Travelers   int       `json:"travelers"`
	Interests   []string  `json:"interests"`
	SkipFlights bool      `json:"skip_flights"`
	SkipHotel   bool      `json:"skip_hotel"`
	Status      string    `json:"status"`
	Generation  int       `json:"generation"`
	Itinerary   *string   `json:"itinerary,omitempty"` // JSON, nil until completed
	CreatedAt   time.Time `json:"created_at"`
}

// ─── CRUD ─────────────────────────────────────────────────────────────────────

func SaveTrip(t *Trip) error {
	_, err := DB.Exec(`
		INSERT INTO trips (id, user_id, destination, origin, start_date, end_date,
			budget, travelers, interests, skip_flights, skip_hotel, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.UserID, t.Destination, t.Origin, t.StartDate, t.EndDate,
		t.Budget, t.Travelers, pq.Array(t.Interests), t.SkipFlights, t.SkipHotel,
		StatusGenerating)
	return err
}

func GetTrip(id string) (*Trip, error) {
	t := &Trip{}
	err := DB.QueryRow(`
		SELECT id, user_id, destination, origin, start_date, end_date, budget,
			travelers, interests, skip_flights, skip_hotel, status, generation,
			itinerary, created_at
		FROM trips WHERE id = $1`, id).
		Scan(&t.ID, &t.UserID, &t.Destination, &t.Origin, &t.StartDate, &t.EndDate,
			&t.Budget, &t.Travelers, pq.Array(&t.Interests), &t.SkipFlights,
			&t.SkipHotel, &t.Status, &t.Generation, &t.Itinerary, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func GetUserTrips(userID string) ([]Trip, error) {
	rows, err := DB.Query(`
		SELECT id, user_id, destination, origin, start_date, end_date, budget,
			travelers, interests, skip_flights, skip_hotel, status, generation,
			itinerary, created_at
		FROM trips WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := []Trip{}
	for rows.Next() {
		var t Trip
		if err := rows.Scan(&t.ID, &t.UserID, &t.Destination, &t.Origin,
			&t.StartDate, &t.EndDate, &t.Budget, &t.Travelers,
			pq.Array(&t.Interests), &t.SkipFlights, &t.SkipHotel, &t.Status,
			&t.Generation, &t.Itinerary, &t.CreatedAt); err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func DeleteTrip(id, userID string) (bool, error) {
	res, err := DB.Exec(`DELETE FROM trips WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ─── Generation token ─────────────────────────────────────────────────────────
//
// Each run of the trip generator holds the generation number it started with.
// Completion/failure writes are conditional on that number still being current,
// so a stale in-flight run cannot overwrite a newer one: the stored itinerary
// always reflects the most recently initiated regeneration.

// StartGeneration bumps the trip's generation counter, marks it generating and
// returns the new token.
func StartGeneration(id string) (int, error) {
	var gen int
	err := DB.QueryRow(`
		UPDATE trips
		SET status = $2, generation = generation + 1, itinerary = NULL
		WHERE id = $1
		RETURNING generation`, id, StatusGenerating).Scan(&gen)
	if err != nil {
		return 0, err
	}
	return gen, nil
}

// CompleteGeneration stores the itinerary if gen is still the current token.
// Returns false when a newer run has superseded this one.
func CompleteGeneration(id string, gen int, itineraryJSON string) (bool, error) {
	res, err := DB.Exec(`
		UPDATE trips SET status = $3, itinerary = $4
		WHERE id = $1 AND generation = $2`,
		id, gen, StatusCompleted, itineraryJSON)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// FailGeneration marks the trip failed with a null itinerary if gen is still
// the current token.
func FailGeneration(id string, gen int) (bool, error) {
	res, err := DB.Exec(`
		UPDATE trips SET status = $3, itinerary = NULL
		WHERE id = $1 AND generation = $2`,
		id, gen, StatusFailed)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ErrNoRows re-exported so handlers don't import database/sql just for this.
var ErrNoRows = sql.ErrNoRows
