package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"voyago/database"
)

// defaultOrigin stands in when a trip was created without an origin airport.
const defaultOrigin = "JFK"

const dayMillis = 86_400_000

// Provider interfaces consumed by the generator. The real clients satisfy
// them; tests inject fakes. A nil provider means unconfigured and routes
// straight to fallback data.

type FlightProvider interface {
	SearchFlights(origin, destination, departureDate, returnDate string, adults int) ([]Flight, error)
}

type HotelProvider interface {
	SearchHotels(cityCode, checkIn, checkOut string, adults int) ([]Hotel, error)
}

type PlaceProvider interface {
	SearchAttractions(destination string) ([]Activity, error)
	SearchRestaurants(destination string) ([]Restaurant, error)
}

type ItineraryAI interface {
	CompleteJSON(systemPrompt, userPrompt string) (string, error)
}

type PhotoProvider interface {
	DestinationPhoto(destination string) (string, error)
}

// TripStore is the slice of persistence the generator needs.
type TripStore interface {
	GetTrip(id string) (*database.Trip, error)
	StartGeneration(id string) (int, error)
	CompleteGeneration(id string, gen int, itineraryJSON string) (bool, error)
	FailGeneration(id string, gen int) (bool, error)
}

// DBTripStore backs TripStore with the database package.
type DBTripStore struct{}

func (DBTripStore) GetTrip(id string) (*database.Trip, error) { return database.GetTrip(id) }
func (DBTripStore) StartGeneration(id string) (int, error)    { return database.StartGeneration(id) }
func (DBTripStore) CompleteGeneration(id string, gen int, itineraryJSON string) (bool, error) {
	return database.CompleteGeneration(id, gen, itineraryJSON)
}
func (DBTripStore) FailGeneration(id string, gen int) (bool, error) {
	return database.FailGeneration(id, gen)
}

// TripGenerator assembles a trip's itinerary from the providers, falling back
// per category, and persists the result under a generation token.
type TripGenerator struct {
	Flights FlightProvider
	Hotels  HotelProvider
	Places  PlaceProvider
	AI      ItineraryAI
	Photos  PhotoProvider
	Store   TripStore
}

var tripGenerator *TripGenerator

// InitGenerator wires the generator from the global clients, passing nil for
// anything unconfigured.
func InitGenerator() {
	g := &TripGenerator{Store: DBTripStore{}}

	if c := GetAmadeusClient(); c.Configured() {
		g.Flights = c
		g.Hotels = c
	}
	if c := GetTripAdvisorClient(); c.Configured() {
		g.Places = c
	}
	if c := GetOpenAIClient(); c.Configured() {
		g.AI = c
	}
	if c := GetUnsplashClient(); c.Configured() {
		g.Photos = c
	}

	tripGenerator = g
}

func GetGenerator() *TripGenerator {
	return tripGenerator
}

// ─── Top-level run ────────────────────────────────────────────────────────────

// Generate runs one generation pass for the trip. The stored itinerary always
// reflects the most recently initiated run: writes from a superseded run are
// dropped by the generation-token compare in the store.
func (g *TripGenerator) Generate(tripID string) error {
	trip, err := g.Store.GetTrip(tripID)
	if err != nil {
		return fmt.Errorf("load trip: %w", err)
	}

	gen, err := g.Store.StartGeneration(tripID)
	if err != nil {
		return fmt.Errorf("start generation: %w", err)
	}

	itinerary, err := g.build(trip)
	if err == nil {
		var payload string
		payload, err = itinerary.MarshalString()
		if err == nil {
			var current bool
			current, err = g.Store.CompleteGeneration(tripID, gen, payload)
			if err == nil {
				if !current {
					log.Printf("⚠️  Trip %s: generation %d superseded, result dropped", tripID, gen)
				} else {
					log.Printf("✅ Trip %s: itinerary generated (%d days)", tripID, len(itinerary.DayByDay))
				}
				return nil
			}
		}
	}

	// Error escaped the per-category guards (or persistence failed): the trip
	// ends failed with a null itinerary, and the error goes back to the caller.
	if _, ferr := g.Store.FailGeneration(tripID, gen); ferr != nil {
		log.Printf("❌ Trip %s: could not record failure: %v", tripID, ferr)
	}
	log.Printf("❌ Trip %s: generation failed: %v", tripID, err)
	return err
}

// ─── Assembly ─────────────────────────────────────────────────────────────────

func (g *TripGenerator) build(trip *database.Trip) (*Itinerary, error) {
	origin := trip.Origin
	if origin == "" {
		origin = defaultOrigin
	}

	start := time.UnixMilli(trip.StartDate).UTC()
	departureDate := start.Format("2006-01-02")
	returnDate := time.UnixMilli(trip.EndDate).UTC().Format("2006-01-02")
	days := DayCount(trip.StartDate, trip.EndDate)

	itin := &Itinerary{}

	// The five category fetches are independent: fan out and join before
	// prompt construction.
	var eg errgroup.Group

	if trip.SkipFlights {
		itin.Flights = FlightSection{Skipped: true, Source: SourceSkipped}
	} else {
		eg.Go(func() error {
			itin.Flights = g.fetchFlights(origin, trip.Destination, departureDate, returnDate, trip.Travelers)
			return nil
		})
	}

	if trip.SkipHotel {
		itin.Hotels = HotelSection{Skipped: true, Source: SourceSkipped}
	} else {
		eg.Go(func() error {
			itin.Hotels = g.fetchHotels(trip.Destination, departureDate, returnDate, trip.Travelers)
			return nil
		})
	}

	eg.Go(func() error {
		itin.Activities = g.fetchActivities(trip.Destination, trip.Interests)
		return nil
	})

	eg.Go(func() error {
		itin.Restaurants = g.fetchRestaurants(trip.Destination)
		return nil
	})

	eg.Go(func() error {
		itin.Transportation = GenerateTransportation(trip.Destination)
		return nil
	})

	// Category workers swallow their own errors; Wait is a pure join.
	_ = eg.Wait()

	if g.Photos != nil && !itin.Hotels.Skipped {
		if photo, err := g.Photos.DestinationPhoto(trip.Destination); err == nil {
			for i := range itin.Hotels.Options {
				if itin.Hotels.Options[i].PhotoURL == "" {
					itin.Hotels.Options[i].PhotoURL = photo
				}
			}
		}
	}

	plan, expenses := g.buildDayByDay(trip, start, days, itin.Activities, itin.Restaurants)
	MergeRestaurants(plan, itin.Restaurants)

	itin.DayByDay = plan
	itin.EstimatedDailyExpenses = expenses

	return itin, nil
}

func (g *TripGenerator) fetchFlights(origin, destination, departureDate, returnDate string, adults int) FlightSection {
	if g.Flights != nil {
		flights, err := g.Flights.SearchFlights(origin, destination, departureDate, returnDate, adults)
		if err == nil && len(flights) > 0 {
			return FlightSection{Source: SourceLive, Options: flights}
		}
		if err != nil {
			log.Printf("⚠️  Flight search failed: %v — using fallback", err)
		} else {
			log.Println("⚠️  Flight search returned 0 offers — using fallback")
		}
	}
	return FlightSection{
		Source:  SourceEstimated,
		Options: GenerateFlightsFallback(origin, destination, departureDate, returnDate),
	}
}

func (g *TripGenerator) fetchHotels(destination, checkIn, checkOut string, adults int) HotelSection {
	if g.Hotels != nil {
		hotels, err := g.Hotels.SearchHotels(destination, checkIn, checkOut, adults)
		if err == nil && len(hotels) > 0 {
			return HotelSection{Source: SourceLive, Options: hotels}
		}
		if err != nil {
			log.Printf("⚠️  Hotel search failed: %v — using fallback", err)
		} else {
			log.Println("⚠️  Hotel search returned 0 offers — using fallback")
		}
	}
	return HotelSection{
		Source:  SourceEstimated,
		Options: GenerateHotelsFallback(destination),
	}
}

// fetchActivities degrades to an empty list, not a fallback generator: the
// day-by-day planner fills activity gaps itself.
func (g *TripGenerator) fetchActivities(destination string, interests []string) []Activity {
	if g.Places == nil {
		return []Activity{}
	}
	activities, err := g.Places.SearchAttractions(destination)
	if err != nil {
		log.Printf("⚠️  Attraction search failed: %v — continuing without", err)
		return []Activity{}
	}
	return PrioritizeActivitiesByStyle(activities, interests)
}

func (g *TripGenerator) fetchRestaurants(destination string) []Restaurant {
	if g.Places == nil {
		return GenerateRestaurantsFallback(destination)
	}
	restaurants, err := g.Places.SearchRestaurants(destination)
	if err != nil {
		log.Printf("⚠️  Restaurant search failed: %v — continuing without", err)
		return []Restaurant{}
	}
	return restaurants
}

// ─── Day-by-day planning ──────────────────────────────────────────────────────

const itinerarySystemPrompt = `You are a travel planner. Reply with a single JSON object and nothing else.`

func (g *TripGenerator) buildDayByDay(trip *database.Trip, start time.Time, days int, activities []Activity, restaurants []Restaurant) ([]DayPlan, string) {
	if g.AI != nil {
		prompt := BuildItineraryPrompt(trip, days, activities, restaurants)
		raw, err := g.AI.CompleteJSON(itinerarySystemPrompt, prompt)
		if err == nil {
			plan, expenses, perr := ParseDayByDayReply(raw)
			if perr == nil && len(plan) > 0 {
				if expenses == "" {
					expenses = estimateDailyExpenses(trip.Budget, days)
				}
				return plan, expenses
			}
			log.Printf("⚠️  AI itinerary parse failed: %v — using template", perr)
		} else {
			log.Printf("⚠️  AI itinerary call failed: %v — using template", err)
		}
	}

	return TemplateItinerary(trip.Destination, start, days), estimateDailyExpenses(trip.Budget, days)
}

// BuildItineraryPrompt embeds the trip parameters, the interest block and
// truncated activity/restaurant listings into one prompt with explicit
// formatting requirements.
func BuildItineraryPrompt(trip *database.Trip, days int, activities []Activity, restaurants []Restaurant) string {
	start := time.UnixMilli(trip.StartDate).UTC()

	var b strings.Builder
	fmt.Fprintf(&b, "Plan a %d-day trip to %s starting %s for %d traveler(s) with a total budget of $%.0f.\n\n",
		days, trip.Destination, start.Format("2006-01-02"), trip.Travelers, trip.Budget)

	if styleBlock := StylePrompt(trip.Interests); styleBlock != "" {
		b.WriteString(styleBlock)
		b.WriteString("\n\n")
	}

	if len(activities) > 0 {
		b.WriteString("Known activities in the area:\n")
		for i, a := range activities {
			if i >= 20 {
				break
			}
			fmt.Fprintf(&b, "- %s (%s)\n", a.Title, a.Type)
		}
		b.WriteString("\n")
	}

	if len(restaurants) > 0 {
		b.WriteString("Known restaurants:\n")
		for i, r := range restaurants {
			if i >= 15 {
				break
			}
			fmt.Fprintf(&b, "- %s (%s %s)\n", r.Name, r.Cuisine, r.PriceLevel)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, `Reply with JSON in exactly this shape:
{
  "day_by_day_itinerary": [
    {"day": 1, "date": "%s", "title": "...", "activities": [
      {"time": "9:00 AM", "title": "...", "description": "...", "type": "sightseeing|meal|culture|leisure|transport", "price_range": "$10-20"}
    ]}
  ],
  "estimated_daily_expenses": "$100-150"
}
Rules: exactly %d days, dates consecutive from %s, 4-6 activities per day
including lunch and dinner as type "meal", times as h:mm AM/PM, price ranges
in US dollars.`,
		start.Format("2006-01-02"), days, start.Format("2006-01-02"))

	return b.String()
}

type dayByDayReply struct {
	DayByDay               []DayPlan `json:"day_by_day_itinerary"`
	EstimatedDailyExpenses string    `json:"estimated_daily_expenses"`
}

// ParseDayByDayReply parses the model's JSON reply. JSON mode usually returns
// a bare object; as a second chance the first {...} span is extracted from
// replies wrapped in prose or code fences.
func ParseDayByDayReply(raw string) ([]DayPlan, string, error) {
	var reply dayByDayReply
	if err := json.Unmarshal([]byte(raw), &reply); err == nil && len(reply.DayByDay) > 0 {
		return reply.DayByDay, reply.EstimatedDailyExpenses, nil
	}

	open := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if open < 0 || end <= open {
		return nil, "", fmt.Errorf("no JSON object in AI reply")
	}
	if err := json.Unmarshal([]byte(raw[open:end+1]), &reply); err != nil {
		return nil, "", fmt.Errorf("AI reply is not valid JSON: %w", err)
	}
	if len(reply.DayByDay) == 0 {
		return nil, "", fmt.Errorf("AI reply has no days")
	}
	return reply.DayByDay, reply.EstimatedDailyExpenses, nil
}

// TemplateItinerary is the fixed fallback plan: five set activities per day.
func TemplateItinerary(destination string, start time.Time, days int) []DayPlan {
	plan := make([]DayPlan, 0, days)
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d).Format("2006-01-02")
		plan = append(plan, DayPlan{
			Day:   d + 1,
			Date:  date,
			Title: fmt.Sprintf("Day %d in %s", d+1, destination),
			Activities: []DayActivity{
				{Time: "9:00 AM", Title: "Morning sightseeing", Description: "Explore the main sights of " + destination, Type: "sightseeing", PriceRange: "$10-20"},
				{Time: "12:30 PM", Title: "Lunch", Description: "Lunch at a local restaurant", Type: "meal", PriceRange: "$15-30"},
				{Time: "2:30 PM", Title: "Local culture", Description: "Visit a museum or cultural landmark", Type: "culture", PriceRange: "$10-25"},
				{Time: "7:00 PM", Title: "Dinner", Description: "Dinner at a recommended spot", Type: "meal", PriceRange: "$25-50"},
				{Time: "9:00 PM", Title: "Evening stroll", Description: "Walk through the city center", Type: "leisure", PriceRange: "Free"},
			},
		})
	}
	return plan
}

func estimateDailyExpenses(budget float64, days int) string {
	if budget <= 0 || days <= 0 {
		return "$80-150"
	}
	daily := budget / float64(days)
	lo := int(daily * 0.6 / 10) * 10
	hi := int(daily * 0.9 / 10) * 10
	if lo < 10 {
		lo = 10
	}
	if hi <= lo {
		hi = lo + 20
	}
	return fmt.Sprintf("$%d-%d", lo, hi)
}

// DayCount derives the trip length in days from epoch-milli bounds, rounding
// partial days up, never below one day.
func DayCount(startMillis, endMillis int64) int {
	diff := endMillis - startMillis
	if diff <= 0 {
		return 1
	}
	return int((diff + dayMillis - 1) / dayMillis)
}

// ─── Restaurant merge ─────────────────────────────────────────────────────────

var mealWords = []string{"breakfast", "brunch", "lunch", "dinner", "meal", "restaurant"}

func isMealActivity(a DayActivity) bool {
	if strings.EqualFold(a.Type, "meal") {
		return true
	}
	title := strings.ToLower(a.Title)
	for _, w := range mealWords {
		if strings.Contains(title, w) {
			return true
		}
	}
	return false
}

// MergeRestaurants splices fetched restaurants into the plan's meal slots.
// Matching is exact name first, then substring, then a deterministic
// round-robin over (day index, meal slot) so repeated runs with identical
// inputs assign identically.
func MergeRestaurants(plan []DayPlan, restaurants []Restaurant) {
	if len(restaurants) == 0 {
		return
	}

	for di := range plan {
		mealSlot := 0
		for ai := range plan[di].Activities {
			act := &plan[di].Activities[ai]
			if !isMealActivity(*act) {
				continue
			}

			r := matchRestaurant(act.Title, restaurants, di, mealSlot)
			act.Restaurant = r.Name
			if r.Description != "" {
				act.Description = r.Description
			}
			if r.PriceLevel != "" {
				act.PriceRange = r.PriceLevel
			}
			if r.URL != "" {
				act.URL = r.URL
			}
			mealSlot++
		}
	}
}

func matchRestaurant(title string, restaurants []Restaurant, dayIndex, mealSlot int) Restaurant {
	titleLower := strings.ToLower(title)

	for _, r := range restaurants {
		if strings.EqualFold(r.Name, title) {
			return r
		}
	}
	for _, r := range restaurants {
		nameLower := strings.ToLower(r.Name)
		if strings.Contains(titleLower, nameLower) || strings.Contains(nameLower, titleLower) {
			return r
		}
	}

	return restaurants[(dayIndex*3+mealSlot)%len(restaurants)]
}
