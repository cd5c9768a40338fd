package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"voyago/database"
)

type TravelerRequest struct {
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
	DateOfBirth     string `json:"date_of_birth" binding:"required"` // YYYY-MM-DD
	Gender          string `json:"gender"`
	PassportNumber  string `json:"passport_number"`
	PassportCountry string `json:"passport_country"`
	PassportExpiry  string `json:"passport_expiry"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	IsDefault       bool   `json:"is_default"`
}

func (r *TravelerRequest) validate() string {
	if _, err := time.Parse("2006-01-02", r.DateOfBirth); err != nil {
		return "Invalid date_of_birth, expected YYYY-MM-DD"
	}
	if r.PassportExpiry != "" {
		if _, err := time.Parse("2006-01-02", r.PassportExpiry); err != nil {
			return "Invalid passport_expiry, expected YYYY-MM-DD"
		}
	}
	return ""
}

func CreateTravelerHandler(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req TravelerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	traveler := &database.Traveler{
		ID:              uuid.New().String(),
		UserID:          userID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		DateOfBirth:     req.DateOfBirth,
		Gender:          req.Gender,
		PassportNumber:  req.PassportNumber,
		PassportCountry: req.PassportCountry,
		PassportExpiry:  req.PassportExpiry,
		Email:           req.Email,
		Phone:           req.Phone,
		IsDefault:       req.IsDefault,
	}

	if err := database.SaveTraveler(traveler); err != nil {
		log.Printf("❌ Failed to save traveler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save traveler"})
		return
	}

	c.JSON(http.StatusCreated, traveler)
}

func UpdateTravelerHandler(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req TravelerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	traveler := &database.Traveler{
		ID:              c.Param("id"),
		UserID:          userID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		DateOfBirth:     req.DateOfBirth,
		Gender:          req.Gender,
		PassportNumber:  req.PassportNumber,
		PassportCountry: req.PassportCountry,
		PassportExpiry:  req.PassportExpiry,
		Email:           req.Email,
		Phone:           req.Phone,
		IsDefault:       req.IsDefault,
	}

	updated, err := database.UpdateTraveler(traveler)
	if err != nil {
		log.Printf("❌ Failed to update traveler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update traveler"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "Traveler not found"})
		return
	}

	c.JSON(http.StatusOK, traveler)
}

func DeleteTravelerHandler(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	deleted, err := database.DeleteTraveler(c.Param("id"), userID)
	if err != nil {
		log.Printf("❌ Failed to delete traveler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete traveler"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Traveler not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ListTravelersHandler returns the user's travelers. With ?departure_date=
// each traveler additionally carries the age and IATA passenger type derived
// against that date.
func ListTravelersHandler(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if departureDate := c.Query("departure_date"); departureDate != "" {
		travelers, err := database.GetTravelersWithAges(userID, departureDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"travelers": travelers})
		return
	}

	travelers, err := database.GetTravelers(userID)
	if err != nil {
		log.Printf("❌ Failed to list travelers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list travelers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"travelers": travelers})
}
