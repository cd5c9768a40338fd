package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"voyago/database"
	"voyago/services"
)

type CreateTripRequest struct {
	Destination string   `json:"destination" binding:"required"`
	Origin      string   `json:"origin"`
	StartDate   int64    `json:"start_date" binding:"required"` // epoch millis
	EndDate     int64    `json:"end_date" binding:"required"`
	Budget      float64  `json:"budget"`
	Travelers   int      `json:"travelers"`
	Interests   []string `json:"interests"`
	SkipFlights bool     `json:"skip_flights"`
	SkipHotel   bool     `json:"skip_hotel"`
}

// TripResponse mirrors the stored trip with the itinerary inlined as JSON
// instead of a doubly-encoded string.
type TripResponse struct {
	ID          string          `json:"id"`
	Destination string          `json:"destination"`
	Origin      string          `json:"origin"`
	StartDate   int64           `json:"start_date"`
	EndDate     int64           `json:"end_date"`
	Budget      float64         `json:"budget"`
	Travelers   int             `json:"travelers"`
	Interests   []string        `json:"interests"`
	SkipFlights bool            `json:"skip_flights"`
	SkipHotel   bool            `json:"skip_hotel"`
	Status      string          `json:"status"`
	Itinerary   json.RawMessage `json:"itinerary,omitempty"`
	CreatedAt   int64           `json:"created_at"`
}

func tripResponse(t *database.Trip) TripResponse {
	resp := TripResponse{
		ID:          t.ID,
		Destination: t.Destination,
		Origin:      t.Origin,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		Budget:      t.Budget,
		Travelers:   t.Travelers,
		Interests:   t.Interests,
		SkipFlights: t.SkipFlights,
		SkipHotel:   t.SkipHotel,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt.UnixMilli(),
	}
	if t.Itinerary != nil {
		resp.Itinerary = json.RawMessage(*t.Itinerary)
	}
	return resp
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

func CreateTripHandler(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	req.Destination = strings.TrimSpace(req.Destination)
	if req.Destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Destination is required"})
		return
	}
	if req.EndDate <= req.StartDate {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End date must be after start date"})
		return
	}
	if req.Travelers <= 0 {
		req.Travelers = 1
	}
	if req.Interests == nil {
		req.Interests = []string{}
	}

	trip := &database.Trip{
		ID:          uuid.New().String(),
		UserID:      userID,
		Destination: req.Destination,
		Origin:      strings.ToUpper(strings.TrimSpace(req.Origin)),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Budget:      req.Budget,
		Travelers:   req.Travelers,
		Interests:   req.Interests,
		SkipFlights: req.SkipFlights,
		SkipHotel:   req.SkipHotel,
		Status:      database.StatusGenerating,
	}

	if err := database.SaveTrip(trip); err != nil {
		log.Printf("❌ Failed to save trip: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save trip"})
		return
	}

	// Generation runs in the background; the client polls trip status.
	go func() {
		if err := services.GetGenerator().Generate(trip.ID); err != nil {
			log.Printf("❌ Trip %s generation error: %v", trip.ID, err)
		}
	}()

	c.JSON(http.StatusCreated, tripResponse(trip))
}

func GetTripHandler(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	trip, err := database.GetTrip(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}
	if trip.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your trip"})
		return
	}

	c.JSON(http.StatusOK, tripResponse(trip))
}

func ListTripsHandler(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	trips, err := database.GetUserTrips(userID)
	if err != nil {
		log.Printf("❌ Failed to list trips: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list trips"})
		return
	}

	out := make([]TripResponse, 0, len(trips))
	for i := range trips {
		out = append(out, tripResponse(&trips[i]))
	}
	c.JSON(http.StatusOK, gin.H{"trips": out})
}

func DeleteTripHandler(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	deleted, err := database.DeleteTrip(c.Param("id"), userID)
	if err != nil {
		log.Printf("❌ Failed to delete trip: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete trip"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// RegenerateTripHandler re-runs the pipeline for an existing trip. A newer
// regenerate supersedes any still-running one via the generation token.
func RegenerateTripHandler(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	trip, err := database.GetTrip(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}
	if trip.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your trip"})
		return
	}

	go func() {
		if err := services.GetGenerator().Generate(trip.ID); err != nil {
			log.Printf("❌ Trip %s regeneration error: %v", trip.ID, err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": database.StatusGenerating})
}
