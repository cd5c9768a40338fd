package services

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Fallback generators cover providers that are unconfigured or failing. They
// are keyed by a lowercase substring match on the destination and return a
// generic set when no city matches. Pure apart from mild price noise in the
// flight generator.

// ─── Hotels ───────────────────────────────────────────────────────────────────

var fallbackHotels = map[string][]Hotel{
	"paris": {
		{Name: "Hotel Le Marais", Price: 220, Rating: 4.6, Location: "Le Marais, Paris", Currency: "USD"},
		{Name: "Pullman Paris Tour Eiffel", Price: 280, Rating: 4.5, Location: "7th Arr., Paris", Currency: "USD"},
		{Name: "Ibis Paris Montmartre", Price: 95, Rating: 4.0, Location: "Montmartre, Paris", Currency: "USD"},
	},
	"london": {
		{Name: "Hilton London Tower Bridge", Price: 180, Rating: 4.4, Location: "Tower Bridge, London", Currency: "USD"},
		{Name: "The Hoxton Shoreditch", Price: 165, Rating: 4.5, Location: "Shoreditch, London", Currency: "USD"},
		{Name: "Premier Inn London City", Price: 95, Rating: 4.1, Location: "City of London", Currency: "USD"},
		{Name: "citizenM London Bankside", Price: 145, Rating: 4.4, Location: "Bankside, London", Currency: "USD"},
	},
	"tokyo": {
		{Name: "Park Hotel Tokyo", Price: 210, Rating: 4.5, Location: "Shiodome, Tokyo", Currency: "USD"},
		{Name: "Shibuya Excel Hotel Tokyu", Price: 160, Rating: 4.3, Location: "Shibuya, Tokyo", Currency: "USD"},
		{Name: "Hotel Gracery Shinjuku", Price: 130, Rating: 4.2, Location: "Shinjuku, Tokyo", Currency: "USD"},
	},
	"new york": {
		{Name: "Pod 51 Hotel", Price: 150, Rating: 4.1, Location: "Midtown East, New York", Currency: "USD"},
		{Name: "Arlo SoHo", Price: 230, Rating: 4.4, Location: "SoHo, New York", Currency: "USD"},
		{Name: "The Jane Hotel", Price: 115, Rating: 3.9, Location: "West Village, New York", Currency: "USD"},
	},
	"rome": {
		{Name: "Hotel Artemide", Price: 190, Rating: 4.6, Location: "Via Nazionale, Rome", Currency: "USD"},
		{Name: "The RomeHello", Price: 85, Rating: 4.3, Location: "Monti, Rome", Currency: "USD"},
		{Name: "Albergo del Senato", Price: 240, Rating: 4.5, Location: "Pantheon, Rome", Currency: "USD"},
	},
	"dubai": {
		{Name: "Rove Downtown", Price: 95, Rating: 4.3, Location: "Downtown Dubai", Currency: "USD"},
		{Name: "JW Marriott Marquis", Price: 220, Rating: 4.6, Location: "Business Bay, Dubai", Currency: "USD"},
		{Name: "Atlantis The Palm", Price: 380, Rating: 4.7, Location: "Palm Jumeirah, Dubai", Currency: "USD"},
	},
	"istanbul": {
		{Name: "Grand Hyatt Istanbul", Price: 180, Rating: 4.7, Location: "Beyoglu, Istanbul", Currency: "USD"},
		{Name: "Sultan Ahmet Palace Hotel", Price: 95, Rating: 4.3, Location: "Sultanahmet, Istanbul", Currency: "USD"},
		{Name: "The Marmara Taksim", Price: 140, Rating: 4.4, Location: "Taksim Square, Istanbul", Currency: "USD"},
	},
}

// GenerateHotelsFallback returns placeholder hotels for the destination.
func GenerateHotelsFallback(destination string) []Hotel {
	destLower := strings.ToLower(destination)
	for city, hotels := range fallbackHotels {
		if strings.Contains(destLower, city) {
			return hotels
		}
	}

	return []Hotel{
		{Name: "Grand City Hotel", Price: 150, Rating: 4.5, Location: "City Center, " + destination, Currency: "USD"},
		{Name: "Boutique Residence", Price: 120, Rating: 4.4, Location: "Arts District, " + destination, Currency: "USD"},
		{Name: "Business Inn", Price: 95, Rating: 4.2, Location: "Business District, " + destination, Currency: "USD"},
		{Name: "Economy Suites", Price: 65, Rating: 3.9, Location: "Near Airport, " + destination, Currency: "USD"},
	}
}

// ─── Restaurants ──────────────────────────────────────────────────────────────

var fallbackRestaurants = map[string][]Restaurant{
	"paris": {
		{Name: "Le Comptoir du Relais", Description: "Classic bistro fare in Saint-Germain", Cuisine: "French", PriceLevel: "$$$", Rating: 4.5},
		{Name: "Breizh Café", Description: "Modern crêperie with Breton cider", Cuisine: "French", PriceLevel: "$$", Rating: 4.4},
		{Name: "L'As du Fallafel", Description: "Famous falafel counter in Le Marais", Cuisine: "Middle Eastern", PriceLevel: "$", Rating: 4.3},
		{Name: "Bouillon Chartier", Description: "Historic budget brasserie since 1896", Cuisine: "French", PriceLevel: "$", Rating: 4.1},
	},
	"tokyo": {
		{Name: "Ichiran Shibuya", Description: "Solo-booth tonkotsu ramen", Cuisine: "Japanese", PriceLevel: "$", Rating: 4.4},
		{Name: "Sushi no Midori", Description: "Queue-worthy value sushi sets", Cuisine: "Japanese", PriceLevel: "$$", Rating: 4.3},
		{Name: "Gonpachi Nishi-Azabu", Description: "Izakaya in a cavernous wooden hall", Cuisine: "Japanese", PriceLevel: "$$$", Rating: 4.2},
	},
	"rome": {
		{Name: "Roscioli", Description: "Deli-restaurant famed for carbonara", Cuisine: "Italian", PriceLevel: "$$$", Rating: 4.6},
		{Name: "Pizzarium", Description: "Gabriele Bonci's pizza al taglio", Cuisine: "Italian", PriceLevel: "$", Rating: 4.5},
		{Name: "Trattoria Da Enzo al 29", Description: "Small Trastevere trattoria", Cuisine: "Italian", PriceLevel: "$$", Rating: 4.5},
	},
}

// GenerateRestaurantsFallback returns placeholder restaurants for the destination.
func GenerateRestaurantsFallback(destination string) []Restaurant {
	destLower := strings.ToLower(destination)
	for city, restaurants := range fallbackRestaurants {
		if strings.Contains(destLower, city) {
			return restaurants
		}
	}

	return []Restaurant{
		{Name: "The Local Table", Description: "Seasonal dishes from nearby farms", Cuisine: "Local", PriceLevel: "$$", Rating: 4.3},
		{Name: "Harbor Grill", Description: "Grilled fish and city views", Cuisine: "Seafood", PriceLevel: "$$$", Rating: 4.2},
		{Name: "Old Town Café", Description: "Coffee, pastries and light lunches", Cuisine: "Café", PriceLevel: "$", Rating: 4.1},
	}
}

// ─── Activities ───────────────────────────────────────────────────────────────

var fallbackActivities = map[string][]Activity{
	"paris": {
		{Title: "Louvre Museum", Description: "World's largest art museum", Type: "culture", Rating: 4.7},
		{Title: "Seine River Cruise", Description: "One-hour sightseeing cruise", Type: "sightseeing", Rating: 4.4},
		{Title: "Montmartre Walking Tour", Description: "Artists' quarter and Sacré-Cœur", Type: "sightseeing", Rating: 4.5},
		{Title: "Marché des Enfants Rouges", Description: "Oldest covered food market", Type: "market", Rating: 4.3},
	},
	"london": {
		{Title: "British Museum", Description: "Human history and culture", Type: "culture", Rating: 4.7},
		{Title: "Borough Market", Description: "Historic food market", Type: "market", Rating: 4.5},
		{Title: "Thames River Walk", Description: "South Bank to Tower Bridge", Type: "sightseeing", Rating: 4.4},
	},
	"tokyo": {
		{Title: "Senso-ji Temple", Description: "Tokyo's oldest temple in Asakusa", Type: "culture", Rating: 4.6},
		{Title: "Tsukiji Outer Market", Description: "Street food and kitchen shops", Type: "market", Rating: 4.5},
		{Title: "Shinjuku Gyoen", Description: "Large landscaped park", Type: "outdoor", Rating: 4.6},
	},
}

// GenerateActivitiesFallback returns placeholder activities for the
// destination. The trip generator deliberately does not call this: failed
// activity lookups degrade to an empty list and the day-by-day planner fills
// the gap. It backs the standalone activity browse endpoint.
func GenerateActivitiesFallback(destination string) []Activity {
	destLower := strings.ToLower(destination)
	for city, activities := range fallbackActivities {
		if strings.Contains(destLower, city) {
			return activities
		}
	}

	return []Activity{
		{Title: "Old Town Walking Tour", Description: "Guided walk through the historic center", Type: "sightseeing", Rating: 4.3},
		{Title: "City Museum", Description: "Local history and art", Type: "culture", Rating: 4.2},
		{Title: "Central Market", Description: "Food stalls and local crafts", Type: "market", Rating: 4.2},
	}
}

// ─── Flights ──────────────────────────────────────────────────────────────────

// GenerateFlightsFallback produces plausible placeholder flights with mild
// random price noise. Clearly labeled estimated downstream.
func GenerateFlightsFallback(origin, destination, departureDate, returnDate string) []Flight {
	type carrierOption struct {
		name     string
		priceMod float64
		stops    int
	}
	options := []carrierOption{
		{"Turkish Airlines", 1.00, 0},
		{"Lufthansa", 1.15, 0},
		{"Emirates", 1.30, 0},
		{"Wizz Air", 0.65, 1},
		{"FlyDubai", 0.80, 1},
	}

	basePrice := 350.0
	baseDurMin := 240

	depDate, _ := time.Parse("2006-01-02", departureDate)
	retDate, _ := time.Parse("2006-01-02", returnDate)

	flights := make([]Flight, 0, len(options))
	for i, opt := range options {
		price := basePrice * opt.priceMod * (0.95 + rand.Float64()*0.1)
		price = float64(int(price/5) * 5)

		dur := baseDurMin
		if opt.stops > 0 {
			dur += 90
		}

		depTime := time.Date(depDate.Year(), depDate.Month(), depDate.Day(), 6+i*3, 0, 0, 0, time.UTC)
		arrTime := depTime.Add(time.Duration(dur) * time.Minute)
		retDepTime := time.Date(retDate.Year(), retDate.Month(), retDate.Day(), 8+i*2, 0, 0, 0, time.UTC)
		retArrTime := retDepTime.Add(time.Duration(dur) * time.Minute)

		flights = append(flights, Flight{
			Price:               price,
			Airline:             opt.name,
			DepartureTime:       depTime.Format(time.RFC3339),
			ArrivalTime:         arrTime.Format(time.RFC3339),
			Duration:            formatDurationMin(dur),
			Stops:               opt.stops,
			ReturnDepartureTime: retDepTime.Format(time.RFC3339),
			ReturnArrivalTime:   retArrTime.Format(time.RFC3339),
			ReturnDuration:      formatDurationMin(dur),
			ReturnStops:         opt.stops,
			Currency:            "USD",
		})
	}
	return flights
}

// ─── Transportation ───────────────────────────────────────────────────────────

// GenerateTransportation synthesizes local transport options. Always succeeds.
func GenerateTransportation(destination string) []TransportOption {
	return []TransportOption{
		{Mode: "Public transit", Description: fmt.Sprintf("Metro, buses and trams cover most of %s; a multi-day pass is usually the best value.", destination), TypicalPrice: "$2-4 per ride"},
		{Mode: "Taxi / rideshare", Description: "Widely available around the center and airport; agree on or meter the fare.", TypicalPrice: "$10-25 per trip"},
		{Mode: "Walking", Description: "The central districts are compact enough to explore on foot.", TypicalPrice: "Free"},
		{Mode: "Bike rental", Description: "Day rentals and city bike-share schemes near major squares.", TypicalPrice: "$10-15 per day"},
	}
}
