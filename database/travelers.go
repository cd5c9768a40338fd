package database

import (
	"fmt"
	"time"
)

type Traveler struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	DateOfBirth     string    `json:"date_of_birth"` // YYYY-MM-DD
	Gender          string    `json:"gender"`
	PassportNumber  string    `json:"passport_number"`
	PassportCountry string    `json:"passport_country"`
	PassportExpiry  string    `json:"passport_expiry"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	IsDefault       bool      `json:"is_default"`
	CreatedAt       time.Time `json:"created_at"`
}

// TravelerWithAge adds booking-time fields derived from the date of birth and
// a supplied departure date. Never stored.
type TravelerWithAge struct {
	Traveler
	Age           int    `json:"age"`
	PassengerType string `json:"passenger_type"` // adult | child | infant
}

// ─── Age derivation ───────────────────────────────────────────────────────────

// AgeAt returns full years between dob and the reference date: the birthday
// anniversary must have passed for the year to count.
func AgeAt(dob, at time.Time) int {
	years := at.Year() - dob.Year()
	if dob.AddDate(years, 0, 0).After(at) {
		years--
	}
	return years
}

// PassengerType maps a date of birth to the IATA passenger type relative to
// the departure date: infant under 2, child under 12, adult otherwise.
func PassengerType(dob, departure time.Time) string {
	age := AgeAt(dob, departure)
	switch {
	case age < 2:
		return "infant"
	case age < 12:
		return "child"
	default:
		return "adult"
	}
}

// ─── CRUD ─────────────────────────────────────────────────────────────────────

// SaveTraveler inserts a traveler. The first traveler for a user is marked
// default automatically; an explicit default unmarks all siblings so at most
// one traveler per user carries the flag.
func SaveTraveler(t *Traveler) error {
	tx, err := DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`
		SELECT COUNT(*) FROM travelers WHERE user_id = $1`, t.UserID).
		Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		t.IsDefault = true
	}

	if t.IsDefault {
		if _, err := tx.Exec(`
			UPDATE travelers SET is_default = FALSE WHERE user_id = $1`,
			t.UserID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO travelers (id, user_id, first_name, last_name, date_of_birth,
			gender, passport_number, passport_country, passport_expiry, email,
			phone, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.UserID, t.FirstName, t.LastName, t.DateOfBirth, t.Gender,
		t.PassportNumber, t.PassportCountry, t.PassportExpiry, t.Email,
		t.Phone, t.IsDefault); err != nil {
		return err
	}

	return tx.Commit()
}

func UpdateTraveler(t *Traveler) (bool, error) {
	tx, err := DB.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if t.IsDefault {
		if _, err := tx.Exec(`
			UPDATE travelers SET is_default = FALSE
			WHERE user_id = $1 AND id <> $2`, t.UserID, t.ID); err != nil {
			return false, err
		}
	}

	res, err := tx.Exec(`
		UPDATE travelers SET first_name = $3, last_name = $4, date_of_birth = $5,
			gender = $6, passport_number = $7, passport_country = $8,
			passport_expiry = $9, email = $10, phone = $11, is_default = $12
		WHERE id = $1 AND user_id = $2`,
		t.ID, t.UserID, t.FirstName, t.LastName, t.DateOfBirth, t.Gender,
		t.PassportNumber, t.PassportCountry, t.PassportExpiry, t.Email,
		t.Phone, t.IsDefault)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return false, nil
	}

	return true, tx.Commit()
}

func DeleteTraveler(id, userID string) (bool, error) {
	res, err := DB.Exec(`
		DELETE FROM travelers WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func GetTravelers(userID string) ([]Traveler, error) {
	rows, err := DB.Query(`
		SELECT id, user_id, first_name, last_name, date_of_birth, gender,
			passport_number, passport_country, passport_expiry, email, phone,
			is_default, created_at
		FROM travelers WHERE user_id = $1
		ORDER BY is_default DESC, created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	travelers := []Traveler{}
	for rows.Next() {
		var t Traveler
		if err := rows.Scan(&t.ID, &t.UserID, &t.FirstName, &t.LastName,
			&t.DateOfBirth, &t.Gender, &t.PassportNumber, &t.PassportCountry,
			&t.PassportExpiry, &t.Email, &t.Phone, &t.IsDefault,
			&t.CreatedAt); err != nil {
			return nil, err
		}
		travelers = append(travelers, t)
	}
	return travelers, rows.Err()
}

// GetTravelersWithAges returns the user's travelers with age and passenger
// type derived against the supplied departure date (YYYY-MM-DD).
func GetTravelersWithAges(userID, departureDate string) ([]TravelerWithAge, error) {
	departure, err := time.Parse("2006-01-02", departureDate)
	if err != nil {
		return nil, fmt.Errorf("invalid departure date %q: %w", departureDate, err)
	}

	travelers, err := GetTravelers(userID)
	if err != nil {
		return nil, err
	}

	out := make([]TravelerWithAge, 0, len(travelers))
	for _, t := range travelers {
		dob, err := time.Parse("2006-01-02", t.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("traveler %s has invalid date of birth %q", t.ID, t.DateOfBirth)
		}
		out = append(out, TravelerWithAge{
			Traveler:      t,
			Age:           AgeAt(dob, departure),
			PassengerType: PassengerType(dob, departure),
		})
	}
	return out, nil
}
