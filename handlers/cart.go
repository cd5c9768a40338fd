package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"voyago/database"
)

type AddCartItemRequest struct {
	ItemType string  `json:"item_type" binding:"required,oneof=flight hotel activity"`
	Title    string  `json:"title" binding:"required"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	Currency string  `json:"currency"`
	Quantity int     `json:"quantity"`
	DayIndex *int    `json:"day_index"`
}

// ownTrip loads the trip and enforces ownership; replies and returns false on
// any failure.
func ownTrip(c *gin.Context, userID string) (*database.Trip, bool) {
	trip, err := database.GetTrip(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return nil, false
	}
	if trip.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your trip"})
		return nil, false
	}
	return trip, true
}

func AddCartItemHandler(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	trip, ok := ownTrip(c, userID)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	item := &database.CartItem{
		ID:       uuid.New().String(),
		TripID:   trip.ID,
		UserID:   userID,
		ItemType: req.ItemType,
		Title:    req.Title,
		Price:    req.Price,
		Currency: req.Currency,
		Quantity: req.Quantity,
		DayIndex: req.DayIndex,
	}

	if err := database.AddCartItem(item); err != nil {
		log.Printf("❌ Failed to add cart item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to cart"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func GetCartHandler(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	trip, ok := ownTrip(c, userID)
	if !ok {
		return
	}

	items, err := database.GetCartItems(trip.ID, userID)
	if err != nil {
		log.Printf("❌ Failed to load cart: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}

	total := 0.0
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func UpdateCartItemHandler(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	updated, err := database.UpdateCartQuantity(c.Param("itemId"), userID, req.Quantity)
	if err != nil {
		log.Printf("❌ Failed to update cart item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func RemoveCartItemHandler(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	removed, err := database.RemoveCartItem(c.Param("itemId"), userID)
	if err != nil {
		log.Printf("❌ Failed to remove cart item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cart item"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func ClearCartHandler(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	trip, ok := ownTrip(c, userID)
	if !ok {
		return
	}

	if err := database.ClearCart(trip.ID, userID); err != nil {
		log.Printf("❌ Failed to clear cart: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func CheckoutCartHandler(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	trip, ok := ownTrip(c, userID)
	if !ok {
		return
	}

	count, err := database.CheckoutCart(trip.ID, userID)
	if err != nil {
		log.Printf("❌ Checkout failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "checked_out", "items": count})
}
