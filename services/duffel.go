package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"voyago/config"
)

// DuffelClient wraps the Duffel air API for the interactive booking flow:
// offer requests, offer listing, single-offer revalidation and order creation.
type DuffelClient struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

var duffelClient *DuffelClient

func InitDuffel(cfg *config.Config) {
	duffelClient = &DuffelClient{
		accessToken: cfg.DuffelAccessToken,
		// Sandbox and live share one host; the token decides the mode
		baseURL: "https://api.duffel.com",
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}

	switch {
	case duffelClient.accessToken == "":
		log.Println("⚠️  DUFFEL_ACCESS_TOKEN not set — interactive flight booking disabled")
	case duffelEnvMismatch(cfg.DuffelEnv, duffelClient.accessToken):
		log.Printf("⚠️  DUFFEL_ENV is %q but the access token mode disagrees — check credentials", cfg.DuffelEnv)
	default:
		log.Printf("✅ Duffel API configured (%s)", cfg.DuffelEnv)
	}
}

// duffelEnvMismatch flags a live env paired with a test token or vice versa.
// Duffel test tokens carry the duffel_test_ prefix.
func duffelEnvMismatch(env, token string) bool {
	testToken := strings.HasPrefix(token, "duffel_test_")
	liveEnv := env == "live" || env == "production"
	return testToken == liveEnv
}

func GetDuffelClient() *DuffelClient {
	return duffelClient
}

func (c *DuffelClient) Configured() bool {
	return c != nil && c.accessToken != ""
}

// ─── Wire types ───────────────────────────────────────────────────────────────

type DuffelSegment struct {
	Origin struct {
		IataCode string `json:"iata_code"`
	} `json:"origin"`
	Destination struct {
		IataCode string `json:"iata_code"`
	} `json:"destination"`
	DepartingAt      string `json:"departing_at"`
	ArrivingAt       string `json:"arriving_at"`
	Duration         string `json:"duration"`
	MarketingCarrier struct {
		Name     string `json:"name"`
		IataCode string `json:"iata_code"`
	} `json:"marketing_carrier"`
	MarketingCarrierFlightNumber string `json:"marketing_carrier_flight_number"`
}

type DuffelSlice struct {
	Segments []DuffelSegment `json:"segments"`
}

type DuffelOffer struct {
	ID            string        `json:"id"`
	TotalAmount   string        `json:"total_amount"`
	TotalCurrency string        `json:"total_currency"`
	ExpiresAt     string        `json:"expires_at"`
	Slices        []DuffelSlice `json:"slices"`
	Owner         struct {
		Name     string `json:"name"`
		IataCode string `json:"iata_code"`
	} `json:"owner"`
}

// OrderPassenger is the passenger payload Duffel expects on order creation.
// The ID must echo the passenger ID issued by the offer request.
type OrderPassenger struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	GivenName   string `json:"given_name"`
	FamilyName  string `json:"family_name"`
	BornOn      string `json:"born_on"`
	Gender      string `json:"gender"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// FlightOption is the UI-facing shape a raw offer is flattened into.
type FlightOption struct {
	OfferID        string  `json:"offer_id"`
	Airline        string  `json:"airline"`
	AirlineCode    string  `json:"airline_code"`
	FlightNumber   string  `json:"flight_number"`
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	DepartureTime  string  `json:"departure_time"`
	ArrivalTime    string  `json:"arrival_time"`
	Duration       string  `json:"duration"`
	Stops          int     `json:"stops"`
	PricePerPerson float64 `json:"price_per_person"`
	TotalPrice     float64 `json:"total_price"`
	Currency       string  `json:"currency"`
	IsBestPrice    bool    `json:"is_best_price"`
	ExpiresAt      string  `json:"expires_at"`
}

// ─── HTTP plumbing ────────────────────────────────────────────────────────────

func (c *DuffelClient) doRequest(method, path string, body []byte) ([]byte, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("duffel not configured")
	}

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewBuffer(body)
	}
	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Duffel-Version", "v2")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("duffel error (%d): %s", resp.StatusCode, duffelErrorMessage(respBody))
	}
	return respBody, nil
}

// duffelErrorMessage surfaces the provider's own message when the error body
// is well-formed, the raw body otherwise.
func duffelErrorMessage(body []byte) string {
	var e struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &e); err == nil && len(e.Errors) > 0 && e.Errors[0].Message != "" {
		return e.Errors[0].Message
	}
	return string(body)
}

// ─── Offer requests and offers ────────────────────────────────────────────────

type OfferRequestResult struct {
	OfferRequestID string        `json:"offer_request_id"`
	Offers         []DuffelOffer `json:"offers"`
}

// CreateOfferRequest starts a flight shopping session. returnDate may be
// empty for one-way trips.
func (c *DuffelClient) CreateOfferRequest(origin, destination, departureDate, returnDate string, adults, children, infants int, cabinClass string) (*OfferRequestResult, error) {
	slices := []map[string]string{
		{"origin": origin, "destination": destination, "departure_date": departureDate},
	}
	if returnDate != "" {
		slices = append(slices, map[string]string{
			"origin": destination, "destination": origin, "departure_date": returnDate,
		})
	}

	passengers := []map[string]string{}
	for i := 0; i < adults; i++ {
		passengers = append(passengers, map[string]string{"type": "adult"})
	}
	for i := 0; i < children; i++ {
		passengers = append(passengers, map[string]string{"type": "child"})
	}
	for i := 0; i < infants; i++ {
		passengers = append(passengers, map[string]string{"type": "infant_without_seat"})
	}

	if cabinClass == "" {
		cabinClass = "economy"
	}

	payload, err := json.Marshal(map[string]interface{}{
		"data": map[string]interface{}{
			"slices":      slices,
			"passengers":  passengers,
			"cabin_class": cabinClass,
		},
	})
	if err != nil {
		return nil, err
	}

	body, err := c.doRequest("POST", "/air/offer_requests", payload)
	if err != nil {
		return nil, fmt.Errorf("offer request failed: %w", err)
	}

	var resp struct {
		Data struct {
			ID     string        `json:"id"`
			Offers []DuffelOffer `json:"offers"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse offer request response: %w", err)
	}

	return &OfferRequestResult{
		OfferRequestID: resp.Data.ID,
		Offers:         resp.Data.Offers,
	}, nil
}

// GetOffers lists offers for an existing offer request, cheapest first.
func (c *DuffelClient) GetOffers(offerRequestID string, limit int) ([]DuffelOffer, error) {
	if limit <= 0 {
		limit = 20
	}
	q := url.Values{}
	q.Set("offer_request_id", offerRequestID)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("sort", "total_amount")

	body, err := c.doRequest("GET", "/air/offers?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("offer listing failed: %w", err)
	}

	var resp struct {
		Data []DuffelOffer `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse offers: %w", err)
	}
	return resp.Data, nil
}

// GetOffer refetches a single offer to revalidate price and availability
// right before booking.
func (c *DuffelClient) GetOffer(offerID string) (*DuffelOffer, error) {
	body, err := c.doRequest("GET", "/air/offers/"+offerID, nil)
	if err != nil {
		return nil, fmt.Errorf("offer fetch failed: %w", err)
	}

	var resp struct {
		Data DuffelOffer `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse offer: %w", err)
	}
	return &resp.Data, nil
}

// OfferPriceChanged reports whether the revalidated total differs from the
// amount quoted when the booking draft was created. Drafts created before a
// quote was recorded carry an empty amount and never trip the check.
func OfferPriceChanged(quotedAmount, currentAmount string) bool {
	if quotedAmount == "" {
		return false
	}
	return parsePrice(quotedAmount) != parsePrice(currentAmount)
}

// ─── Orders ───────────────────────────────────────────────────────────────────

type OrderResult struct {
	OrderID          string `json:"order_id"`
	BookingReference string `json:"booking_reference"`
}

// CreateOrder books the offer. paymentType is "balance" in sandbox.
func (c *DuffelClient) CreateOrder(offer *DuffelOffer, passengers []OrderPassenger, paymentType string) (*OrderResult, error) {
	if paymentType == "" {
		paymentType = "balance"
	}

	payload, err := json.Marshal(map[string]interface{}{
		"data": map[string]interface{}{
			"type":            "instant",
			"selected_offers": []string{offer.ID},
			"passengers":      passengers,
			"payments": []map[string]string{{
				"type":     paymentType,
				"currency": offer.TotalCurrency,
				"amount":   offer.TotalAmount,
			}},
		},
	})
	if err != nil {
		return nil, err
	}

	body, err := c.doRequest("POST", "/air/orders", payload)
	if err != nil {
		return nil, fmt.Errorf("order creation failed: %w", err)
	}

	var resp struct {
		Data struct {
			ID               string `json:"id"`
			BookingReference string `json:"booking_reference"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse order response: %w", err)
	}

	return &OrderResult{
		OrderID:          resp.Data.ID,
		BookingReference: resp.Data.BookingReference,
	}, nil
}

// ─── Transform ────────────────────────────────────────────────────────────────

// TransformOfferToFlightOption flattens a raw offer into the UI contract.
// Pure: same offer and index always produce the same option. The first offer
// in a cheapest-first listing is flagged best price.
func TransformOfferToFlightOption(offer DuffelOffer, adults, index int) FlightOption {
	if adults <= 0 {
		adults = 1
	}

	total := parsePrice(offer.TotalAmount)
	opt := FlightOption{
		OfferID:        offer.ID,
		Airline:        offer.Owner.Name,
		AirlineCode:    offer.Owner.IataCode,
		TotalPrice:     total,
		PricePerPerson: total / float64(adults),
		Currency:       offer.TotalCurrency,
		IsBestPrice:    index == 0,
		ExpiresAt:      offer.ExpiresAt,
	}

	if len(offer.Slices) == 0 || len(offer.Slices[0].Segments) == 0 {
		return opt
	}

	segs := offer.Slices[0].Segments
	first, last := segs[0], segs[len(segs)-1]

	opt.Origin = first.Origin.IataCode
	opt.Destination = last.Destination.IataCode
	opt.DepartureTime = formatLocalTime(first.DepartingAt)
	opt.ArrivalTime = formatLocalTime(last.ArrivingAt)
	opt.Duration = parseISODuration(sliceDuration(segs))
	opt.Stops = len(segs) - 1
	opt.FlightNumber = first.MarketingCarrier.IataCode + first.MarketingCarrierFlightNumber
	if opt.Airline == "" {
		opt.Airline = first.MarketingCarrier.Name
	}

	return opt
}

// sliceDuration sums segment durations into one ISO duration string.
func sliceDuration(segs []DuffelSegment) string {
	totalMin := 0
	for _, s := range segs {
		totalMin += isoDurationMinutes(s.Duration)
	}
	if totalMin == 0 {
		return ""
	}
	return fmt.Sprintf("PT%dH%dM", totalMin/60, totalMin%60)
}

func isoDurationMinutes(iso string) int {
	var h, m int
	if n, _ := fmt.Sscanf(iso, "PT%dH%dM", &h, &m); n == 2 {
		return h*60 + m
	}
	// Sscanf stops at the first literal mismatch, so "PT45M" would satisfy
	// the hour pattern; dispatch on the unit letter instead.
	if strings.Contains(iso, "H") {
		if n, _ := fmt.Sscanf(iso, "PT%dH", &h); n == 1 {
			return h * 60
		}
		return 0
	}
	if n, _ := fmt.Sscanf(iso, "PT%dM", &m); n == 1 {
		return m
	}
	return 0
}

// formatLocalTime renders a provider timestamp as a short local-time string.
// Duffel departure times are local to the airport and carry no zone.
func formatLocalTime(ts string) string {
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format("3:04 PM")
		}
	}
	return ts
}
