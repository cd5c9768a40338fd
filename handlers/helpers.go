package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// requireUser pulls the caller's user ID from the X-User-ID header the mobile
// client sends on every request. Token verification happens upstream.
func requireUser(c *gin.Context) (string, bool) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing X-User-ID header"})
		return "", false
	}
	return userID, true
}

func parseIntQuery(c *gin.Context, key string) (int, error) {
	return strconv.Atoi(c.Query(key))
}

func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
