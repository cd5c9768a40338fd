package services

import "encoding/json"

// Source labels where a section's data came from.
const (
	SourceLive      = "live"      // provider API
	SourceEstimated = "estimated" // fallback generator
	SourceSkipped   = "skipped"   // user opted out
)

// ─── Section types ────────────────────────────────────────────────────────────

type Flight struct {
	Price               float64 `json:"price"`
	Airline             string  `json:"airline"`
	AirlineCode         string  `json:"airline_code,omitempty"`
	FlightNumber        string  `json:"flight_number,omitempty"`
	DepartureTime       string  `json:"departure_time"`
	ArrivalTime         string  `json:"arrival_time"`
	Duration            string  `json:"duration"`
	Stops               int     `json:"stops"`
	ReturnDepartureTime string  `json:"return_departure_time,omitempty"`
	ReturnArrivalTime   string  `json:"return_arrival_time,omitempty"`
	ReturnDuration      string  `json:"return_duration,omitempty"`
	ReturnStops         int     `json:"return_stops,omitempty"`
	Currency            string  `json:"currency,omitempty"`
}

type Hotel struct {
	Name     string  `json:"name"`
	HotelID  string  `json:"hotel_id,omitempty"`
	Price    float64 `json:"price"`
	Rating   float64 `json:"rating"`
	Location string  `json:"location"`
	PhotoURL string  `json:"photo_url,omitempty"`
	Currency string  `json:"currency,omitempty"`
}

type Activity struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Rating      float64 `json:"rating,omitempty"`
	URL         string  `json:"url,omitempty"`
}

type Restaurant struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cuisine     string  `json:"cuisine,omitempty"`
	PriceLevel  string  `json:"price_level,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	URL         string  `json:"url,omitempty"`
}

type TransportOption struct {
	Mode         string `json:"mode"`
	Description  string `json:"description"`
	TypicalPrice string `json:"typical_price"`
}

// FlightSection tags the flights data instead of leaving consumers to probe
// an untyped blob. Skipped=true means the user opted out and Options is empty.
type FlightSection struct {
	Skipped bool     `json:"skipped"`
	Source  string   `json:"source,omitempty"`
	Options []Flight `json:"options,omitempty"`
}

type HotelSection struct {
	Skipped bool    `json:"skipped"`
	Source  string  `json:"source,omitempty"`
	Options []Hotel `json:"options,omitempty"`
}

// ─── Day-by-day plan ──────────────────────────────────────────────────────────

type DayActivity struct {
	Time        string `json:"time"` // "9:00 AM"
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"` // sightseeing | meal | culture | leisure | transport
	PriceRange  string `json:"price_range,omitempty"`
	Restaurant  string `json:"restaurant,omitempty"` // filled by the merge pass
	URL         string `json:"url,omitempty"`
}

type DayPlan struct {
	Day        int           `json:"day"`
	Date       string        `json:"date"` // YYYY-MM-DD
	Title      string        `json:"title"`
	Activities []DayActivity `json:"activities"`
}

// Itinerary is the validated shape persisted on a completed trip.
type Itinerary struct {
	Flights                FlightSection     `json:"flights"`
	Hotels                 HotelSection      `json:"hotels"`
	Activities             []Activity        `json:"activities"`
	Restaurants            []Restaurant      `json:"restaurants"`
	Transportation         []TransportOption `json:"transportation"`
	DayByDay               []DayPlan         `json:"day_by_day_itinerary"`
	EstimatedDailyExpenses string            `json:"estimated_daily_expenses"`
}

func (it *Itinerary) MarshalString() (string, error) {
	b, err := json.Marshal(it)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func ParseItinerary(s string) (*Itinerary, error) {
	var it Itinerary
	if err := json.Unmarshal([]byte(s), &it); err != nil {
		return nil, err
	}
	return &it, nil
}
