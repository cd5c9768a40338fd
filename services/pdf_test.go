package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTripPDF(t *testing.T) {
	itin := &Itinerary{
		Flights: FlightSection{Source: SourceEstimated, Options: []Flight{
			{Airline: "Lufthansa", Price: 420, Duration: "7h 30m", Currency: "USD"},
		}},
		Hotels: HotelSection{Source: SourceEstimated, Options: GenerateHotelsFallback("Paris")},
		DayByDay: TemplateItinerary("Paris",
			time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), 3),
		Transportation:         GenerateTransportation("Paris"),
		EstimatedDailyExpenses: "$120-180",
	}

	data := TripPDFData{
		Destination: "Paris",
		Origin:      "JFK",
		StartDate:   "2026-06-01",
		EndDate:     "2026-06-04",
		Travelers:   2,
		Budget:      2000,
		Itinerary:   itin,
	}

	out, err := GenerateTripPDF(data)
	assert.NoError(t, err)
	assert.True(t, len(out) > 1000)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestGenerateTripPDFSkippedSections(t *testing.T) {
	itin := &Itinerary{
		Flights: FlightSection{Skipped: true, Source: SourceSkipped},
		Hotels:  HotelSection{Skipped: true, Source: SourceSkipped},
		DayByDay: TemplateItinerary("Rome",
			time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), 2),
	}

	out, err := GenerateTripPDF(TripPDFData{
		Destination: "Rome",
		StartDate:   "2026-09-10",
		EndDate:     "2026-09-12",
		Travelers:   1,
		Itinerary:   itin,
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, out)
}
