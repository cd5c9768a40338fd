package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"voyago/database"
	"voyago/services"
)

// draftTTL bounds how long a booking draft stays valid; Duffel offers
// themselves expire on a similar horizon.
const draftTTL = 20 * time.Minute

// ─── Flight search ────────────────────────────────────────────────────────────

type FlightSearchRequest struct {
	Origin        string `json:"origin" binding:"required"`
	Destination   string `json:"destination" binding:"required"`
	DepartureDate string `json:"departure_date" binding:"required"`
	ReturnDate    string `json:"return_date"`
	Adults        int    `json:"adults"`
	Children      int    `json:"children"`
	Infants       int    `json:"infants"`
	CabinClass    string `json:"cabin_class"`
}

func SearchFlightsHandler(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	duffel := services.GetDuffelClient()
	if !duffel.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Flight booking is not available"})
		return
	}

	var req FlightSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if len(req.Origin) != 3 || len(req.Destination) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Airport codes must be exactly 3 characters (e.g. LHR, JFK)"})
		return
	}
	if _, err := time.Parse("2006-01-02", req.DepartureDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid departure date format. Use YYYY-MM-DD"})
		return
	}
	if req.Adults <= 0 {
		req.Adults = 1
	}

	result, err := duffel.CreateOfferRequest(req.Origin, req.Destination,
		req.DepartureDate, req.ReturnDate, req.Adults, req.Children, req.Infants,
		req.CabinClass)
	if err != nil {
		log.Printf("⚠️  Duffel offer request failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	options := make([]services.FlightOption, 0, len(result.Offers))
	for i, offer := range result.Offers {
		options = append(options, services.TransformOfferToFlightOption(offer, req.Adults, i))
	}

	c.JSON(http.StatusOK, gin.H{
		"offer_request_id": result.OfferRequestID,
		"options":          options,
	})
}

func GetOffersHandler(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	duffel := services.GetDuffelClient()
	if !duffel.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Flight booking is not available"})
		return
	}

	adults := 1
	if a, err := parseIntQuery(c, "adults"); err == nil && a > 0 {
		adults = a
	}
	limit, _ := parseIntQuery(c, "limit")

	offers, err := duffel.GetOffers(c.Param("requestId"), limit)
	if err != nil {
		log.Printf("⚠️  Duffel offer listing failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	options := make([]services.FlightOption, 0, len(offers))
	for i, offer := range offers {
		options = append(options, services.TransformOfferToFlightOption(offer, adults, i))
	}

	c.JSON(http.StatusOK, gin.H{"options": options})
}

// ─── Booking draft flow ───────────────────────────────────────────────────────

func CreateDraftHandler(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	duffel := services.GetDuffelClient()
	if !duffel.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Flight booking is not available"})
		return
	}

	var req struct {
		TripID  string `json:"trip_id" binding:"required"`
		OfferID string `json:"offer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	// Pin the quoted price so submission can detect a fare change
	offer, err := duffel.GetOffer(req.OfferID)
	if err != nil {
		log.Printf("⚠️  Offer lookup failed for draft: %v", err)
		c.JSON(http.StatusConflict, gin.H{"error": "Offer is no longer available: " + err.Error()})
		return
	}

	draft := &database.BookingDraft{
		ID:             uuid.New().String(),
		TripID:         req.TripID,
		UserID:         userID,
		OfferID:        req.OfferID,
		QuotedAmount:   offer.TotalAmount,
		QuotedCurrency: offer.TotalCurrency,
		ExpiresAt:      time.Now().Add(draftTTL),
	}

	if err := database.CreateDraft(draft); err != nil {
		log.Printf("❌ Failed to create booking draft: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking draft"})
		return
	}

	c.JSON(http.StatusCreated, draft)
}

func GetDraftHandler(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	draft, err := database.GetDraft(c.Param("id"), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking draft not found"})
		return
	}

	c.JSON(http.StatusOK, draft)
}

// patchDraftSection handles the per-tab draft updates: the body is stored as
// raw JSON, validated only for well-formedness.
func patchDraftSection(c *gin.Context, update func(id, userID, payload string) (bool, error)) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var payload json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	updated, err := update(c.Param("id"), userID, string(payload))
	if err != nil {
		log.Printf("❌ Failed to update booking draft: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking draft"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking draft not found or already booked"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func UpdateDraftPassengersHandler(c *gin.Context) {
	patchDraftSection(c, database.UpdateDraftPassengers)
}

func UpdateDraftSeatsHandler(c *gin.Context) {
	patchDraftSection(c, database.UpdateDraftSeats)
}

func UpdateDraftBaggageHandler(c *gin.Context) {
	patchDraftSection(c, database.UpdateDraftBaggage)
}

func AcknowledgePolicyHandler(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	updated, err := database.AcknowledgeDraftPolicy(c.Param("id"), userID)
	if err != nil {
		log.Printf("❌ Failed to acknowledge policy: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to acknowledge policy"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking draft not found or already booked"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "acknowledged"})
}

// SubmitDraftHandler finalizes the booking: revalidate the offer, create the
// Duffel order, stamp the reference on the draft, and mail the confirmation.
func SubmitDraftHandler(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	duffel := services.GetDuffelClient()
	if !duffel.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Flight booking is not available"})
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	_ = c.ShouldBindJSON(&req)

	draft, err := database.GetDraft(c.Param("id"), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking draft not found"})
		return
	}
	if draft.Status != "draft" {
		c.JSON(http.StatusConflict, gin.H{"error": "Draft already booked"})
		return
	}
	if time.Now().After(draft.ExpiresAt) {
		c.JSON(http.StatusGone, gin.H{"error": "Booking draft expired, start a new search"})
		return
	}
	if !draft.PolicyAcknowledged {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fare policy must be acknowledged before booking"})
		return
	}

	var passengers []services.OrderPassenger
	if err := json.Unmarshal([]byte(draft.PassengersJSON), &passengers); err != nil || len(passengers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Draft has no valid passengers"})
		return
	}

	// Revalidate price and availability right before ordering
	offer, err := duffel.GetOffer(draft.OfferID)
	if err != nil {
		log.Printf("⚠️  Offer revalidation failed: %v", err)
		c.JSON(http.StatusConflict, gin.H{"error": "Offer is no longer available: " + err.Error()})
		return
	}
	if services.OfferPriceChanged(draft.QuotedAmount, offer.TotalAmount) {
		log.Printf("⚠️  Fare changed on draft %s: quoted %s, now %s",
			draft.ID, draft.QuotedAmount, offer.TotalAmount)
		c.JSON(http.StatusConflict, gin.H{
			"error":          "Fare has changed since it was quoted",
			"quoted_amount":  draft.QuotedAmount,
			"current_amount": offer.TotalAmount,
			"currency":       offer.TotalCurrency,
		})
		return
	}

	order, err := duffel.CreateOrder(offer, passengers, "balance")
	if err != nil {
		log.Printf("❌ Order creation failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if _, err := database.MarkDraftBooked(draft.ID, userID, order.BookingReference); err != nil {
		log.Printf("❌ Failed to record booking %s on draft %s: %v", order.BookingReference, draft.ID, err)
	}

	email := req.Email
	if email == "" {
		email = passengers[0].Email
	}
	if email != "" {
		go func() {
			trip, terr := database.GetTrip(draft.TripID)
			destination := ""
			if terr == nil {
				destination = trip.Destination
			}
			if merr := services.GetMailer().SendBookingConfirmation(email, destination, order.BookingReference); merr != nil {
				log.Printf("⚠️  Confirmation mail failed: %v", merr)
			}
		}()
	}

	log.Printf("✅ Booking %s created for draft %s", order.BookingReference, draft.ID)
	c.JSON(http.StatusOK, gin.H{
		"order_id":          order.OrderID,
		"booking_reference": order.BookingReference,
	})
}
