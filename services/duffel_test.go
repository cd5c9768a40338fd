package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleOffer() DuffelOffer {
	raw := `{
		"id": "off_0000AeD4kwmvjtCePNQlaW",
		"total_amount": "642.30",
		"total_currency": "USD",
		"expires_at": "2026-06-01T12:20:00Z",
		"owner": {"name": "Air France", "iata_code": "AF"},
		"slices": [{
			"segments": [
				{
					"origin": {"iata_code": "JFK"},
					"destination": {"iata_code": "AMS"},
					"departing_at": "2026-06-01T18:25:00",
					"arriving_at": "2026-06-02T07:40:00",
					"duration": "PT7H15M",
					"marketing_carrier": {"name": "KLM", "iata_code": "KL"},
					"marketing_carrier_flight_number": "642"
				},
				{
					"origin": {"iata_code": "AMS"},
					"destination": {"iata_code": "CDG"},
					"departing_at": "2026-06-02T09:10:00",
					"arriving_at": "2026-06-02T10:30:00",
					"duration": "PT1H20M",
					"marketing_carrier": {"name": "KLM", "iata_code": "KL"},
					"marketing_carrier_flight_number": "1233"
				}
			]
		}]
	}`

	var offer DuffelOffer
	if err := json.Unmarshal([]byte(raw), &offer); err != nil {
		panic(err)
	}
	return offer
}

func TestTransformOfferToFlightOption(t *testing.T) {
	opt := TransformOfferToFlightOption(sampleOffer(), 2, 0)

	assert.Equal(t, "off_0000AeD4kwmvjtCePNQlaW", opt.OfferID)
	assert.Equal(t, "Air France", opt.Airline)
	assert.Equal(t, "AF", opt.AirlineCode)
	assert.Equal(t, "KL642", opt.FlightNumber)
	assert.Equal(t, "JFK", opt.Origin)
	assert.Equal(t, "CDG", opt.Destination)
	assert.Equal(t, "6:25 PM", opt.DepartureTime)
	assert.Equal(t, "10:30 AM", opt.ArrivalTime)
	assert.Equal(t, "8h 35m", opt.Duration, "segment durations are summed")
	assert.Equal(t, 1, opt.Stops)
	assert.Equal(t, 642.30, opt.TotalPrice)
	assert.InDelta(t, 321.15, opt.PricePerPerson, 0.001)
	assert.Equal(t, "USD", opt.Currency)
	assert.True(t, opt.IsBestPrice)
	assert.Equal(t, "2026-06-01T12:20:00Z", opt.ExpiresAt)
}

func TestTransformOfferIsPure(t *testing.T) {
	offer := sampleOffer()
	first := TransformOfferToFlightOption(offer, 2, 3)
	second := TransformOfferToFlightOption(offer, 2, 3)
	assert.Equal(t, first, second)
	assert.False(t, first.IsBestPrice, "only index 0 is flagged best price")
}

func TestTransformOfferPricePerPersonTimesAdultsEqualsTotal(t *testing.T) {
	offer := sampleOffer()
	for _, adults := range []int{1, 2, 3, 4} {
		opt := TransformOfferToFlightOption(offer, adults, 0)
		assert.InDelta(t, opt.TotalPrice, opt.PricePerPerson*float64(adults), 0.001)
	}
}

func TestTransformOfferZeroAdultsTreatedAsOne(t *testing.T) {
	opt := TransformOfferToFlightOption(sampleOffer(), 0, 0)
	assert.Equal(t, opt.TotalPrice, opt.PricePerPerson)
}

func TestTransformOfferWithoutSlices(t *testing.T) {
	offer := DuffelOffer{ID: "off_1", TotalAmount: "100.00", TotalCurrency: "EUR"}
	offer.Owner.Name = "Lufthansa"

	opt := TransformOfferToFlightOption(offer, 1, 1)
	assert.Equal(t, "off_1", opt.OfferID)
	assert.Equal(t, "Lufthansa", opt.Airline)
	assert.Empty(t, opt.Origin)
	assert.Empty(t, opt.Duration)
	assert.Zero(t, opt.Stops)
}

func TestIsoDurationMinutes(t *testing.T) {
	assert.Equal(t, 150, isoDurationMinutes("PT2H30M"))
	assert.Equal(t, 120, isoDurationMinutes("PT2H"))
	assert.Equal(t, 45, isoDurationMinutes("PT45M"))
	assert.Equal(t, 0, isoDurationMinutes(""))
	assert.Equal(t, 0, isoDurationMinutes("not-a-duration"))
}

func TestFormatLocalTime(t *testing.T) {
	assert.Equal(t, "6:25 PM", formatLocalTime("2026-06-01T18:25:00"))
	assert.Equal(t, "9:05 AM", formatLocalTime("2026-06-01T09:05:00Z"))
	assert.Equal(t, "garbage", formatLocalTime("garbage"), "unparseable timestamps pass through")
}

func TestDuffelEnvMismatch(t *testing.T) {
	assert.False(t, duffelEnvMismatch("sandbox", "duffel_test_abc123"))
	assert.False(t, duffelEnvMismatch("live", "duffel_live_abc123"))
	assert.True(t, duffelEnvMismatch("live", "duffel_test_abc123"))
	assert.True(t, duffelEnvMismatch("production", "duffel_test_abc123"))
	assert.True(t, duffelEnvMismatch("sandbox", "duffel_live_abc123"))
}

func TestOfferPriceChanged(t *testing.T) {
	assert.False(t, OfferPriceChanged("642.30", "642.30"))
	assert.True(t, OfferPriceChanged("642.30", "689.90"), "a fare increase must surface")
	assert.True(t, OfferPriceChanged("642.30", "599.00"), "a fare drop surfaces too")
	assert.False(t, OfferPriceChanged("", "689.90"), "drafts without a recorded quote pass through")
}

func TestDuffelErrorMessage(t *testing.T) {
	body := []byte(`{"errors":[{"message":"The offer has expired"}]}`)
	assert.Equal(t, "The offer has expired", duffelErrorMessage(body))

	raw := []byte(`<html>bad gateway</html>`)
	assert.Equal(t, "<html>bad gateway</html>", duffelErrorMessage(raw))
}
