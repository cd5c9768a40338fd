package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"voyago/config"
	"voyago/database"
	"voyago/handlers"
	"voyago/services"
)

func main() {
	// Load .env file (ignored in production where env vars are set directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found — using environment variables")
	}

	cfg := config.Load()

	database.InitDB()

	services.InitCache(cfg)
	services.InitAmadeus(cfg)
	services.InitDuffel(cfg)
	services.InitTripAdvisor(cfg)
	services.InitOpenAI(cfg)
	services.InitUnsplash(cfg)
	services.InitMailer(cfg)
	services.InitGenerator()

	startDraftCleanupCron()

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.SetTrustedProxies([]string{"0.0.0.0/0"})

	// CORS for the configured frontend origins
	frontendURLs := os.Getenv("FRONTEND_URL")
	allowedOrigins := []string{"http://localhost:8081", "http://localhost:19006"}
	if frontendURLs != "" {
		for _, u := range strings.Split(frontendURLs, ",") {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthHandler)

		// Trips
		api.POST("/trips", handlers.CreateTripHandler)
		api.GET("/trips", handlers.ListTripsHandler)
		api.GET("/trips/:id", handlers.GetTripHandler)
		api.DELETE("/trips/:id", handlers.DeleteTripHandler)
		api.POST("/trips/:id/regenerate", handlers.RegenerateTripHandler)
		api.GET("/trips/:id/pdf", handlers.DownloadTripPDFHandler)

		// Cart
		api.POST("/trips/:id/cart", handlers.AddCartItemHandler)
		api.GET("/trips/:id/cart", handlers.GetCartHandler)
		api.DELETE("/trips/:id/cart", handlers.ClearCartHandler)
		api.POST("/trips/:id/cart/checkout", handlers.CheckoutCartHandler)
		api.PATCH("/cart/:itemId", handlers.UpdateCartItemHandler)
		api.DELETE("/cart/:itemId", handlers.RemoveCartItemHandler)

		// Travelers
		api.POST("/travelers", handlers.CreateTravelerHandler)
		api.GET("/travelers", handlers.ListTravelersHandler)
		api.PUT("/travelers/:id", handlers.UpdateTravelerHandler)
		api.DELETE("/travelers/:id", handlers.DeleteTravelerHandler)

		// Flight booking
		api.POST("/flights/search", handlers.SearchFlightsHandler)
		api.GET("/flights/offers/:requestId", handlers.GetOffersHandler)
		api.POST("/bookings/drafts", handlers.CreateDraftHandler)
		api.GET("/bookings/drafts/:id", handlers.GetDraftHandler)
		api.PUT("/bookings/drafts/:id/passengers", handlers.UpdateDraftPassengersHandler)
		api.PUT("/bookings/drafts/:id/seats", handlers.UpdateDraftSeatsHandler)
		api.PUT("/bookings/drafts/:id/baggage", handlers.UpdateDraftBaggageHandler)
		api.POST("/bookings/drafts/:id/acknowledge", handlers.AcknowledgePolicyHandler)
		api.POST("/bookings/drafts/:id/submit", handlers.SubmitDraftHandler)

		// Explore
		api.GET("/explore/activities", handlers.ExploreActivitiesHandler)
		api.GET("/explore/restaurants", handlers.ExploreRestaurantsHandler)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Voyago backend starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// startDraftCleanupCron purges expired booking drafts every 10 minutes.
func startDraftCleanupCron() {
	c := cron.New()
	_, err := c.AddFunc("*/10 * * * *", func() {
		purged, err := database.PurgeExpiredDrafts()
		if err != nil {
			log.Printf("⚠️  Draft purge failed: %v", err)
			return
		}
		if purged > 0 {
			log.Printf("🧹 Purged %d expired booking drafts", purged)
		}
	})
	if err != nil {
		log.Printf("⚠️  Failed to schedule draft cleanup: %v", err)
		return
	}
	c.Start()
}
