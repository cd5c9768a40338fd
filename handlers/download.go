package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"voyago/database"
	"voyago/services"
)

// DownloadTripPDFHandler renders a completed trip's itinerary to PDF and
// streams it as an attachment.
func DownloadTripPDFHandler(c *gin.Context) {
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
	if trip.Status != database.StatusCompleted || trip.Itinerary == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Itinerary is not ready yet"})
		return
	}

	itinerary, err := services.ParseItinerary(*trip.Itinerary)
	if err != nil {
		log.Printf("❌ Stored itinerary for trip %s is unreadable: %v", trip.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stored itinerary is unreadable"})
		return
	}

	pdfBytes, err := services.GenerateTripPDF(services.TripPDFData{
		Destination: trip.Destination,
		Origin:      trip.Origin,
		StartDate:   time.UnixMilli(trip.StartDate).UTC().Format("2006-01-02"),
		EndDate:     time.UnixMilli(trip.EndDate).UTC().Format("2006-01-02"),
		Travelers:   trip.Travelers,
		Budget:      trip.Budget,
		Itinerary:   itinerary,
	})
	if err != nil {
		log.Printf("❌ PDF generation failed for trip %s: %v", trip.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	filename := fmt.Sprintf("itinerary-%s.pdf", trip.ID[:8])
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
