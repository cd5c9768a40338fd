package config

import "os"

// Config holds everything read from the environment. Missing provider keys
// are not fatal; the trip generator degrades to fallback data instead.
type Config struct {
	// Amadeus (flights + hotels)
	AmadeusClientID     string
	AmadeusClientSecret string
	AmadeusEnv          string

	// Duffel (interactive flight booking)
	DuffelAccessToken string
	DuffelEnv         string

	// TripAdvisor (restaurants + attractions)
	TripAdvisorAPIKey string

	// OpenAI (day-by-day itinerary)
	OpenAIAPIKey string
	OpenAIModel  string

	// Unsplash (destination photos)
	UnsplashAccessKey string

	// Redis (optional provider-response cache)
	RedisURL string

	// SMTP (booking confirmation mail)
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
}

func Load() *Config {
	return &Config{
		AmadeusClientID:     os.Getenv("AMADEUS_CLIENT_ID"),
		AmadeusClientSecret: os.Getenv("AMADEUS_CLIENT_SECRET"),
		AmadeusEnv:          getEnv("AMADEUS_ENV", "test"),

		DuffelAccessToken: os.Getenv("DUFFEL_ACCESS_TOKEN"),
		DuffelEnv:         getEnv("DUFFEL_ENV", "sandbox"),

		TripAdvisorAPIKey: os.Getenv("TRIPADVISOR_API_KEY"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o"),

		UnsplashAccessKey: os.Getenv("UNSPLASH_ACCESS_KEY"),

		RedisURL: os.Getenv("REDIS_URL"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getEnv("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASSWORD"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
