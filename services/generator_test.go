package services

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"voyago/database"
)

// ─── Fakes ────────────────────────────────────────────────────────────────────

type fakeStore struct {
	trip         *database.Trip
	nextGen      int
	completedGen int
	completed    string
	failedGen    int
	completeErr  error
	current      bool
}

func newFakeStore(trip *database.Trip) *fakeStore {
	return &fakeStore{trip: trip, current: true, completedGen: -1, failedGen: -1}
}

func (s *fakeStore) GetTrip(id string) (*database.Trip, error) { return s.trip, nil }

func (s *fakeStore) StartGeneration(id string) (int, error) {
	s.nextGen++
	return s.nextGen, nil
}

func (s *fakeStore) CompleteGeneration(id string, gen int, itineraryJSON string) (bool, error) {
	if s.completeErr != nil {
		return false, s.completeErr
	}
	s.completedGen = gen
	s.completed = itineraryJSON
	return s.current, nil
}

func (s *fakeStore) FailGeneration(id string, gen int) (bool, error) {
	s.failedGen = gen
	return true, nil
}

type fakeFlightProvider struct {
	calls   int
	flights []Flight
	err     error
}

func (f *fakeFlightProvider) SearchFlights(origin, destination, departureDate, returnDate string, adults int) ([]Flight, error) {
	f.calls++
	return f.flights, f.err
}

func millis(t time.Time) int64 { return t.UnixMilli() }

func parisTrip() *database.Trip {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	return &database.Trip{
		ID:          "trip-1",
		UserID:      "user-1",
		Destination: "Paris",
		Origin:      "JFK",
		StartDate:   millis(start),
		EndDate:     millis(start.AddDate(0, 0, 4)),
		Budget:      2000,
		Travelers:   2,
		Interests:   []string{"Culinary"},
	}
}

// ─── Skip flags ───────────────────────────────────────────────────────────────

func TestGenerateSkipFlightsStoresSentinelWithoutProviderCall(t *testing.T) {
	trip := parisTrip()
	trip.SkipFlights = true

	flights := &fakeFlightProvider{flights: []Flight{{Airline: "KLM", Price: 400}}}
	store := newFakeStore(trip)
	g := &TripGenerator{Flights: flights, Store: store}

	err := g.Generate(trip.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, flights.calls, "flight provider must not be called when flights are skipped")

	var itin Itinerary
	assert.NoError(t, json.Unmarshal([]byte(store.completed), &itin))
	assert.True(t, itin.Flights.Skipped)
	assert.Empty(t, itin.Flights.Options)
	assert.Equal(t, SourceSkipped, itin.Flights.Source)
}

func TestGenerateSkipHotelStoresSentinel(t *testing.T) {
	trip := parisTrip()
	trip.SkipHotel = true

	store := newFakeStore(trip)
	g := &TripGenerator{Store: store}

	assert.NoError(t, g.Generate(trip.ID))

	var itin Itinerary
	assert.NoError(t, json.Unmarshal([]byte(store.completed), &itin))
	assert.True(t, itin.Hotels.Skipped)
	assert.Empty(t, itin.Hotels.Options)
}

// ─── Failure semantics ────────────────────────────────────────────────────────

func TestGenerateFailureMarksTripFailed(t *testing.T) {
	trip := parisTrip()
	store := newFakeStore(trip)
	store.completeErr = errors.New("connection reset")

	g := &TripGenerator{Store: store}

	err := g.Generate(trip.ID)
	assert.Error(t, err)
	assert.Equal(t, 1, store.failedGen, "failure must be recorded under the run's generation token")
	assert.Equal(t, -1, store.completedGen)
}

func TestGenerateWritesUnderItsGenerationToken(t *testing.T) {
	trip := parisTrip()
	store := newFakeStore(trip)
	store.nextGen = 6 // pretend earlier runs happened

	g := &TripGenerator{Store: store}
	assert.NoError(t, g.Generate(trip.ID))
	assert.Equal(t, 7, store.completedGen)
}

func TestGenerateSupersededRunIsNotAnError(t *testing.T) {
	trip := parisTrip()
	store := newFakeStore(trip)
	store.current = false // a newer run won the conditional write

	g := &TripGenerator{Store: store}
	assert.NoError(t, g.Generate(trip.ID))
	assert.Equal(t, -1, store.failedGen)
}

// ─── Flight fallback ──────────────────────────────────────────────────────────

func TestFetchFlightsFallsBackOnProviderError(t *testing.T) {
	flights := &fakeFlightProvider{err: errors.New("503 from upstream")}
	g := &TripGenerator{Flights: flights}

	section := g.fetchFlights("JFK", "CDG", "2026-06-01", "2026-06-05", 2)
	assert.Equal(t, 1, flights.calls)
	assert.Equal(t, SourceEstimated, section.Source)
	assert.NotEmpty(t, section.Options)
}

func TestFetchFlightsUsesLiveDataWhenAvailable(t *testing.T) {
	flights := &fakeFlightProvider{flights: []Flight{{Airline: "Air France", Price: 512}}}
	g := &TripGenerator{Flights: flights}

	section := g.fetchFlights("JFK", "CDG", "2026-06-01", "2026-06-05", 2)
	assert.Equal(t, SourceLive, section.Source)
	assert.Equal(t, "Air France", section.Options[0].Airline)
}

// ─── End to end without providers ─────────────────────────────────────────────

func TestGenerateParisWithoutProviders(t *testing.T) {
	trip := parisTrip()
	store := newFakeStore(trip)
	g := &TripGenerator{Store: store}

	assert.NoError(t, g.Generate(trip.ID))
	assert.NotEmpty(t, store.completed)

	var itin Itinerary
	assert.NoError(t, json.Unmarshal([]byte(store.completed), &itin))

	// Hotels come from the Paris fallback list
	assert.Equal(t, SourceEstimated, itin.Hotels.Source)
	assert.Len(t, itin.Hotels.Options, 3)
	names := []string{}
	for _, h := range itin.Hotels.Options {
		names = append(names, h.Name)
	}
	assert.Contains(t, names, "Hotel Le Marais")
	assert.Contains(t, names, "Pullman Paris Tour Eiffel")
	assert.Contains(t, names, "Ibis Paris Montmartre")

	// Template day-by-day plan: one entry per day, five activities each
	assert.Len(t, itin.DayByDay, DayCount(trip.StartDate, trip.EndDate))
	for _, day := range itin.DayByDay {
		assert.Len(t, day.Activities, 5)
		assert.NotEmpty(t, day.Date)
	}

	// Paris fallback restaurants got merged into the meal slots
	assert.NotEmpty(t, itin.Restaurants)
	lunch := itin.DayByDay[0].Activities[1]
	assert.Equal(t, "meal", lunch.Type)
	assert.NotEmpty(t, lunch.Restaurant)

	assert.NotEmpty(t, itin.Transportation)
	assert.NotEmpty(t, itin.EstimatedDailyExpenses)
}

// ─── Day count ────────────────────────────────────────────────────────────────

func TestDayCount(t *testing.T) {
	day := int64(86_400_000)
	assert.Equal(t, 1, DayCount(0, day))
	assert.Equal(t, 4, DayCount(0, 4*day))
	assert.Equal(t, 4, DayCount(0, 3*day+1), "partial days round up")
	assert.Equal(t, 1, DayCount(0, 0), "degenerate range still plans one day")
	assert.Equal(t, 1, DayCount(day, 0))
}

// ─── AI reply parsing ─────────────────────────────────────────────────────────

func TestParseDayByDayReplyDirectJSON(t *testing.T) {
	raw := `{"day_by_day_itinerary":[{"day":1,"date":"2026-06-01","title":"Arrival","activities":[{"time":"9:00 AM","title":"Check in","description":"","type":"leisure"}]}],"estimated_daily_expenses":"$100-150"}`

	plan, expenses, err := ParseDayByDayReply(raw)
	assert.NoError(t, err)
	assert.Len(t, plan, 1)
	assert.Equal(t, "Arrival", plan[0].Title)
	assert.Equal(t, "$100-150", expenses)
}

func TestParseDayByDayReplyExtractsWrappedJSON(t *testing.T) {
	raw := "Here is your itinerary:\n```json\n" +
		`{"day_by_day_itinerary":[{"day":1,"date":"2026-06-01","title":"Day one","activities":[]}]}` +
		"\n```"

	plan, _, err := ParseDayByDayReply(raw)
	assert.NoError(t, err)
	assert.Len(t, plan, 1)
}

func TestParseDayByDayReplyRejectsGarbage(t *testing.T) {
	_, _, err := ParseDayByDayReply("sorry, I cannot help with that")
	assert.Error(t, err)

	_, _, err = ParseDayByDayReply(`{"day_by_day_itinerary":[]}`)
	assert.Error(t, err)
}

// ─── Prompt construction ──────────────────────────────────────────────────────

func TestBuildItineraryPromptTruncatesListings(t *testing.T) {
	trip := parisTrip()

	activities := make([]Activity, 30)
	for i := range activities {
		activities[i] = Activity{Title: "Activity", Type: "sightseeing"}
	}
	restaurants := make([]Restaurant, 25)
	for i := range restaurants {
		restaurants[i] = Restaurant{Name: "Restaurant", Cuisine: "French"}
	}

	prompt := BuildItineraryPrompt(trip, 4, activities, restaurants)
	assert.Equal(t, 20, strings.Count(prompt, "- Activity (sightseeing)"))
	assert.Equal(t, 15, strings.Count(prompt, "- Restaurant (French"))
	assert.Contains(t, prompt, "Culinary")
	assert.Contains(t, prompt, "day_by_day_itinerary")
}

// ─── Restaurant merge ─────────────────────────────────────────────────────────

func mergeFixturePlan() []DayPlan {
	return []DayPlan{
		{Day: 1, Date: "2026-06-01", Activities: []DayActivity{
			{Time: "12:30 PM", Title: "Lunch", Type: "meal"},
			{Time: "3:00 PM", Title: "Museum visit", Type: "culture"},
			{Time: "7:00 PM", Title: "Dinner", Type: "meal"},
		}},
		{Day: 2, Date: "2026-06-02", Activities: []DayActivity{
			{Time: "7:00 PM", Title: "Dinner", Type: "meal"},
		}},
	}
}

func TestMergeRestaurantsExactNameMatch(t *testing.T) {
	plan := []DayPlan{{Day: 1, Activities: []DayActivity{
		{Time: "7:00 PM", Title: "Roscioli", Type: "meal"},
	}}}
	restaurants := []Restaurant{
		{Name: "Pizzarium", Description: "pizza al taglio"},
		{Name: "Roscioli", Description: "famed for carbonara", PriceLevel: "$$$", URL: "https://example.com/roscioli"},
	}

	MergeRestaurants(plan, restaurants)
	act := plan[0].Activities[0]
	assert.Equal(t, "Roscioli", act.Restaurant)
	assert.Equal(t, "famed for carbonara", act.Description)
	assert.Equal(t, "$$$", act.PriceRange)
	assert.Equal(t, "https://example.com/roscioli", act.URL)
}

func TestMergeRestaurantsSubstringMatch(t *testing.T) {
	plan := []DayPlan{{Day: 1, Activities: []DayActivity{
		{Time: "7:00 PM", Title: "Dinner at Breizh Café", Type: "meal"},
	}}}
	restaurants := []Restaurant{
		{Name: "L'As du Fallafel"},
		{Name: "Breizh Café", Description: "modern crêperie"},
	}

	MergeRestaurants(plan, restaurants)
	assert.Equal(t, "Breizh Café", plan[0].Activities[0].Restaurant)
}

func TestMergeRestaurantsRoundRobinIsDeterministic(t *testing.T) {
	restaurants := []Restaurant{
		{Name: "Alpha"}, {Name: "Beta"}, {Name: "Gamma"}, {Name: "Delta"},
	}

	first := mergeFixturePlan()
	MergeRestaurants(first, restaurants)
	second := mergeFixturePlan()
	MergeRestaurants(second, restaurants)

	for di := range first {
		for ai := range first[di].Activities {
			assert.Equal(t, first[di].Activities[ai].Restaurant,
				second[di].Activities[ai].Restaurant,
				"repeated runs must assign identically")
		}
	}

	// Day 1 meals take slots 0 and 1; day 2's dinner starts at slot 3
	assert.Equal(t, "Alpha", first[0].Activities[0].Restaurant)
	assert.Equal(t, "Beta", first[0].Activities[2].Restaurant)
	assert.Equal(t, "Delta", first[1].Activities[0].Restaurant)

	// Non-meal activities untouched
	assert.Empty(t, first[0].Activities[1].Restaurant)
}

func TestMergeRestaurantsNoRestaurantsIsNoop(t *testing.T) {
	plan := mergeFixturePlan()
	MergeRestaurants(plan, nil)
	assert.Empty(t, plan[0].Activities[0].Restaurant)
}
