package database

import (
	"database/sql"
	"time"
)

type CartItem struct {
	ID         string    `json:"id"`
	TripID     string    `json:"trip_id"`
	UserID     string    `json:"user_id"`
	ItemType   string    `json:"item_type"` // flight | hotel | activity
	Title      string    `json:"title"`
	Price      float64   `json:"price"`
	Currency   string    `json:"currency"`
	Quantity   int       `json:"quantity"`
	DayIndex   *int      `json:"day_index,omitempty"`
	CheckedOut bool      `json:"checked_out"`
	AddedAt    time.Time `json:"added_at"`
}

func AddCartItem(item *CartItem) error {
	_, err := DB.Exec(`
		INSERT INTO cart_items (id, trip_id, user_id, item_type, title, price,
			currency, quantity, day_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		item.ID, item.TripID, item.UserID, item.ItemType, item.Title,
		item.Price, item.Currency, item.Quantity, item.DayIndex)
	return err
}

func GetCartItems(tripID, userID string) ([]CartItem, error) {
	rows, err := DB.Query(`
		SELECT id, trip_id, user_id, item_type, title, price, currency,
			quantity, day_index, checked_out, added_at
		FROM cart_items
		WHERE trip_id = $1 AND user_id = $2 AND checked_out = FALSE
		ORDER BY added_at`, tripID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []CartItem{}
	for rows.Next() {
		var it CartItem
		var dayIdx sql.NullInt64
		if err := rows.Scan(&it.ID, &it.TripID, &it.UserID, &it.ItemType,
			&it.Title, &it.Price, &it.Currency, &it.Quantity, &dayIdx,
			&it.CheckedOut, &it.AddedAt); err != nil {
			return nil, err
		}
		if dayIdx.Valid {
			d := int(dayIdx.Int64)
			it.DayIndex = &d
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func UpdateCartQuantity(id, userID string, quantity int) (bool, error) {
	res, err := DB.Exec(`
		UPDATE cart_items SET quantity = $3
		WHERE id = $1 AND user_id = $2 AND checked_out = FALSE`,
		id, userID, quantity)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func RemoveCartItem(id, userID string) (bool, error) {
	res, err := DB.Exec(`
		DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func ClearCart(tripID, userID string) error {
	_, err := DB.Exec(`
		DELETE FROM cart_items
		WHERE trip_id = $1 AND user_id = $2 AND checked_out = FALSE`,
		tripID, userID)
	return err
}

// CheckoutCart marks every open item checked out. Terminal: checked out items
// no longer appear in the cart and cannot be edited. Payment is out of scope.
func CheckoutCart(tripID, userID string) (int64, error) {
	res, err := DB.Exec(`
		UPDATE cart_items SET checked_out = TRUE
		WHERE trip_id = $1 AND user_id = $2 AND checked_out = FALSE`,
		tripID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
