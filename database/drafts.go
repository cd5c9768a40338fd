package database

import "time"

// BookingDraft stages the multi-step flight booking flow: created on entering
// flight extras, patched tab by tab, consumed by the final order submission.
type BookingDraft struct {
	ID                 string    `json:"id"`
	TripID             string    `json:"trip_id"`
	UserID             string    `json:"user_id"`
	OfferID            string    `json:"offer_id"`
	QuotedAmount       string    `json:"quoted_amount"`   // total at draft creation
	QuotedCurrency     string    `json:"quoted_currency"`
	PassengersJSON     string    `json:"passengers_json"`
	SeatsJSON          string    `json:"seats_json"`
	BaggageJSON        string    `json:"baggage_json"`
	PolicyAcknowledged bool      `json:"policy_acknowledged"`
	BookingReference   string    `json:"booking_reference"`
	Status             string    `json:"status"` // draft | booked
	ExpiresAt          time.Time `json:"expires_at"`
	CreatedAt          time.Time `json:"created_at"`
}

func CreateDraft(d *BookingDraft) error {
	_, err := DB.Exec(`
		INSERT INTO booking_drafts (id, trip_id, user_id, offer_id,
			quoted_amount, quoted_currency, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.TripID, d.UserID, d.OfferID, d.QuotedAmount, d.QuotedCurrency,
		d.ExpiresAt)
	return err
}

func GetDraft(id, userID string) (*BookingDraft, error) {
	d := &BookingDraft{}
	err := DB.QueryRow(`
		SELECT id, trip_id, user_id, offer_id, quoted_amount, quoted_currency,
			passengers_json, seats_json, baggage_json, policy_acknowledged,
			booking_reference, status, expires_at, created_at
		FROM booking_drafts WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&d.ID, &d.TripID, &d.UserID, &d.OfferID, &d.QuotedAmount,
			&d.QuotedCurrency, &d.PassengersJSON, &d.SeatsJSON, &d.BaggageJSON,
			&d.PolicyAcknowledged, &d.BookingReference, &d.Status, &d.ExpiresAt,
			&d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func UpdateDraftPassengers(id, userID, passengersJSON string) (bool, error) {
	return patchDraft(id, userID,
		`UPDATE booking_drafts SET passengers_json = $3
		 WHERE id = $1 AND user_id = $2 AND status = 'draft'`, passengersJSON)
}

func UpdateDraftSeats(id, userID, seatsJSON string) (bool, error) {
	return patchDraft(id, userID,
		`UPDATE booking_drafts SET seats_json = $3
		 WHERE id = $1 AND user_id = $2 AND status = 'draft'`, seatsJSON)
}

func UpdateDraftBaggage(id, userID, baggageJSON string) (bool, error) {
	return patchDraft(id, userID,
		`UPDATE booking_drafts SET baggage_json = $3
		 WHERE id = $1 AND user_id = $2 AND status = 'draft'`, baggageJSON)
}

func AcknowledgeDraftPolicy(id, userID string) (bool, error) {
	res, err := DB.Exec(`
		UPDATE booking_drafts SET policy_acknowledged = TRUE
		WHERE id = $1 AND user_id = $2 AND status = 'draft'`, id, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func MarkDraftBooked(id, userID, bookingReference string) (bool, error) {
	res, err := DB.Exec(`
		UPDATE booking_drafts SET status = 'booked', booking_reference = $3
		WHERE id = $1 AND user_id = $2 AND status = 'draft'`,
		id, userID, bookingReference)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// PurgeExpiredDrafts deletes unbooked drafts past their expiry. Run from the
// cleanup cron.
func PurgeExpiredDrafts() (int64, error) {
	res, err := DB.Exec(`
		DELETE FROM booking_drafts WHERE status = 'draft' AND expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func patchDraft(id, userID, query, value string) (bool, error) {
	res, err := DB.Exec(query, id, userID, value)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
