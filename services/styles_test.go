package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStylePromptIncludesDescriptionsAndKeywords(t *testing.T) {
	prompt := StylePrompt([]string{"Culinary", "Culture"})

	assert.Contains(t, prompt, "Traveler interests:")
	assert.Contains(t, prompt, "- Culinary:")
	assert.Contains(t, prompt, "- Culture:")
	assert.Contains(t, prompt, "museum")
	assert.Contains(t, prompt, "street food")
}

func TestStylePromptDeduplicatesKeywords(t *testing.T) {
	// Culinary and Shopping both carry "market"
	prompt := StylePrompt([]string{"Culinary", "Shopping"})
	_, keywords, found := strings.Cut(prompt, "Prefer activities matching these themes: ")
	assert.True(t, found)
	assert.Equal(t, 1, strings.Count(keywords, "market"))
}

func TestStylePromptIgnoresUnknownInterests(t *testing.T) {
	assert.Empty(t, StylePrompt([]string{"Spelunking"}))
	assert.Empty(t, StylePrompt(nil))

	prompt := StylePrompt([]string{"Spelunking", "Nature"})
	assert.Contains(t, prompt, "- Nature:")
	assert.NotContains(t, prompt, "Spelunking")
}

func styleFixtures() []Activity {
	return []Activity{
		{Title: "Harbor Kayak Tour", Description: "Paddle the bay", Type: "outdoor"},
		{Title: "National Gallery", Description: "Classical paintings", Type: "culture"},
		{Title: "Street Food Walk", Description: "Evening tasting tour", Type: "food tour"},
		{Title: "Souvenir Plaza", Description: "Gift shops", Type: "shopping"},
	}
}

func TestFilterActivitiesByStyle(t *testing.T) {
	filtered := FilterActivitiesByStyle(styleFixtures(), []string{"Culinary"})
	assert.Len(t, filtered, 1)
	assert.Equal(t, "Street Food Walk", filtered[0].Title)
}

func TestFilterActivitiesByStyleNoInterests(t *testing.T) {
	activities := styleFixtures()
	assert.Equal(t, activities, FilterActivitiesByStyle(activities, nil))
}

func TestPrioritizeActivitiesByStyleOrdersMatchesFirst(t *testing.T) {
	out := PrioritizeActivitiesByStyle(styleFixtures(), []string{"Culinary", "Adventure"})

	assert.Equal(t, "Street Food Walk", out[0].Title, "first interest ranks highest")
	assert.Equal(t, "Harbor Kayak Tour", out[1].Title)
	// Unmatched activities keep their relative order at the tail
	assert.Equal(t, "National Gallery", out[2].Title)
	assert.Equal(t, "Souvenir Plaza", out[3].Title)
}

func TestPrioritizeActivitiesByStyleDoesNotMutateInput(t *testing.T) {
	activities := styleFixtures()
	_ = PrioritizeActivitiesByStyle(activities, []string{"Culinary"})
	assert.Equal(t, "Harbor Kayak Tour", activities[0].Title)
}
