package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseISODuration(t *testing.T) {
	assert.Equal(t, "5h 30m", parseISODuration("PT5H30M"))
	assert.Equal(t, "2h", parseISODuration("PT2H"))
	assert.Equal(t, "45m", parseISODuration("PT45M"))
	assert.Equal(t, "", parseISODuration(""))
}

func TestFormatDurationMin(t *testing.T) {
	assert.Equal(t, "4h", formatDurationMin(240))
	assert.Equal(t, "5h 30m", formatDurationMin(330))
	assert.Equal(t, "0h 45m", formatDurationMin(45))
}

func TestParsePrice(t *testing.T) {
	assert.Equal(t, 642.3, parsePrice("642.30"))
	assert.Equal(t, 0.0, parsePrice(""))
	assert.Equal(t, 0.0, parsePrice("n/a"))
}

func TestParseRating(t *testing.T) {
	assert.Equal(t, 4.0, parseRating(""), "missing ratings default to 4.0")
	assert.Equal(t, 3.0, parseRating("3"))
	assert.Equal(t, 5.0, parseRating("9"), "ratings clamp to the 5-star scale")
}

func TestAirportToCity(t *testing.T) {
	assert.Equal(t, "PAR", airportToCity("CDG"))
	assert.Equal(t, "NYC", airportToCity("JFK"))
	assert.Equal(t, "IST", airportToCity("IST"), "unmapped codes pass through")
}

func TestAirlineName(t *testing.T) {
	assert.Equal(t, "Turkish Airlines", airlineName("TK"))
	assert.Equal(t, "XQ Airlines", airlineName("XQ"))
	assert.Equal(t, "Unknown Airline", airlineName(""))
}

func TestParseFlightOffers(t *testing.T) {
	body := []byte(`{
		"data": [{
			"price": {"grandTotal": "523.40", "currency": "USD"},
			"validatingAirlineCodes": ["TK"],
			"itineraries": [
				{
					"duration": "PT4H10M",
					"segments": [{
						"departure": {"iataCode": "IST", "at": "2026-06-01T08:30:00"},
						"arrival": {"iataCode": "CDG", "at": "2026-06-01T11:40:00"},
						"carrierCode": "TK",
						"number": "1821"
					}]
				},
				{
					"duration": "PT3H55M",
					"segments": [{
						"departure": {"iataCode": "CDG", "at": "2026-06-05T13:00:00"},
						"arrival": {"iataCode": "IST", "at": "2026-06-05T17:55:00"},
						"carrierCode": "TK",
						"number": "1822"
					}]
				}
			]
		}]
	}`)

	flights, err := parseFlightOffers(body)
	assert.NoError(t, err)
	assert.Len(t, flights, 1)

	f := flights[0]
	assert.Equal(t, 523.4, f.Price)
	assert.Equal(t, "USD", f.Currency)
	assert.Equal(t, "Turkish Airlines", f.Airline)
	assert.Equal(t, "TK", f.AirlineCode)
	assert.Equal(t, "TK1821", f.FlightNumber)
	assert.Equal(t, "4h 10m", f.Duration)
	assert.Equal(t, 0, f.Stops)
	assert.Equal(t, "2026-06-01T08:30:00", f.DepartureTime)
	assert.Equal(t, "3h 55m", f.ReturnDuration)
	assert.Equal(t, "2026-06-05T17:55:00", f.ReturnArrivalTime)
}

func TestParseFlightOffersSkipsUnpricedAndEmpty(t *testing.T) {
	body := []byte(`{
		"data": [
			{"price": {"grandTotal": "0", "currency": "USD"}, "itineraries": [{"duration": "PT2H", "segments": []}]},
			{"price": {"grandTotal": "310.00", "currency": "USD"}, "itineraries": []}
		]
	}`)

	flights, err := parseFlightOffers(body)
	assert.NoError(t, err)
	assert.Empty(t, flights)
}

func TestSearchFlightsAgainstStubServer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "client_credentials", r.FormValue("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "tok-123", "expires_in": 1799}`))
	})
	mux.HandleFunc("/v2/shopping/flight-offers", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "JFK", r.URL.Query().Get("originLocationCode"))
		assert.Equal(t, "CDG", r.URL.Query().Get("destinationLocationCode"))
		assert.Equal(t, "2", r.URL.Query().Get("adults"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": [{
				"price": {"grandTotal": "480.00", "currency": "USD"},
				"itineraries": [{
					"duration": "PT7H30M",
					"segments": [{
						"departure": {"iataCode": "JFK", "at": "2026-06-01T18:00:00"},
						"arrival": {"iataCode": "CDG", "at": "2026-06-02T07:30:00"},
						"carrierCode": "AF",
						"number": "7"
					}]
				}]
			}]
		}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := &AmadeusClient{
		clientID:     "id",
		clientSecret: "secret",
		baseURL:      srv.URL,
		httpClient:   &http.Client{Timeout: 5 * time.Second},
	}

	flights, err := client.SearchFlights("JFK", "CDG", "2026-06-01", "2026-06-05", 2)
	assert.NoError(t, err)
	assert.Len(t, flights, 1)
	assert.Equal(t, "Air France", flights[0].Airline)
	assert.Equal(t, 480.0, flights[0].Price)
}

func TestSearchFlightsUnconfigured(t *testing.T) {
	var c *AmadeusClient
	assert.False(t, c.Configured())

	c = &AmadeusClient{}
	_, err := c.SearchFlights("JFK", "CDG", "2026-06-01", "2026-06-05", 1)
	assert.Error(t, err)
}
