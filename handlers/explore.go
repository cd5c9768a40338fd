package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voyago/services"
)

// Standalone browse endpoints for the explore screens. Unlike the trip
// generator, these fall back to canned data so the screens never come up
// empty.

func ExploreActivitiesHandler(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	destination := c.Query("destination")
	if destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "destination query parameter is required"})
		return
	}

	source := services.SourceEstimated
	activities := []services.Activity(nil)

	if ta := services.GetTripAdvisorClient(); ta.Configured() {
		if live, err := ta.SearchAttractions(destination); err == nil && len(live) > 0 {
			activities = live
			source = services.SourceLive
		}
	}
	if activities == nil {
		activities = services.GenerateActivitiesFallback(destination)
	}

	if interests := c.QueryArray("interest"); len(interests) > 0 {
		activities = services.PrioritizeActivitiesByStyle(activities, interests)
	}

	c.JSON(http.StatusOK, gin.H{"activities": activities, "source": source})
}

func ExploreRestaurantsHandler(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	destination := c.Query("destination")
	if destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "destination query parameter is required"})
		return
	}

	source := services.SourceEstimated
	restaurants := []services.Restaurant(nil)

	if ta := services.GetTripAdvisorClient(); ta.Configured() {
		if live, err := ta.SearchRestaurants(destination); err == nil && len(live) > 0 {
			restaurants = live
			source = services.SourceLive
		}
	}
	if restaurants == nil {
		restaurants = services.GenerateRestaurantsFallback(destination)
	}

	c.JSON(http.StatusOK, gin.H{"restaurants": restaurants, "source": source})
}
