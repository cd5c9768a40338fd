package services

import (
	"sort"
	"strings"
)

// TravelStyle describes how a user interest biases activity selection.
type TravelStyle struct {
	ActivityTypes []string
	Keywords      []string
	Description   string
}

// travelStyles is the immutable style table. Keys match the interest tags the
// mobile client sends on trip creation.
var travelStyles = map[string]TravelStyle{
	"Culinary": {
		ActivityTypes: []string{"meal", "food tour", "market"},
		Keywords:      []string{"restaurant", "food", "cuisine", "tasting", "market", "cooking", "wine", "street food"},
		Description:   "Focus on local food culture: signature restaurants, food markets, tastings and cooking experiences.",
	},
	"Adventure": {
		ActivityTypes: []string{"outdoor", "sport"},
		Keywords:      []string{"hike", "trek", "climb", "kayak", "bike", "surf", "zip", "rafting", "dive"},
		Description:   "Prioritize active outdoor experiences: hiking, water sports, cycling and adrenaline activities.",
	},
	"Culture": {
		ActivityTypes: []string{"culture", "sightseeing"},
		Keywords:      []string{"museum", "gallery", "historic", "temple", "cathedral", "palace", "heritage", "architecture"},
		Description:   "Emphasize museums, historic landmarks, architecture and local heritage.",
	},
	"Relaxation": {
		ActivityTypes: []string{"leisure"},
		Keywords:      []string{"spa", "beach", "garden", "park", "wellness", "thermal", "lounge"},
		Description:   "Keep the pace slow: spas, beaches, gardens and unhurried mornings.",
	},
	"Nightlife": {
		ActivityTypes: []string{"nightlife"},
		Keywords:      []string{"bar", "club", "live music", "rooftop", "cocktail", "jazz", "show"},
		Description:   "Include evening plans: bars, live music, shows and late-night districts.",
	},
	"Nature": {
		ActivityTypes: []string{"outdoor", "sightseeing"},
		Keywords:      []string{"park", "mountain", "lake", "wildlife", "botanical", "waterfall", "scenic", "trail"},
		Description:   "Favor natural scenery: parks, viewpoints, wildlife and open landscapes.",
	},
	"Shopping": {
		ActivityTypes: []string{"shopping"},
		Keywords:      []string{"market", "boutique", "mall", "bazaar", "souvenir", "antique", "artisan"},
		Description:   "Work in markets, boutiques and artisan districts for shopping time.",
	},
	"Family": {
		ActivityTypes: []string{"leisure", "sightseeing"},
		Keywords:      []string{"zoo", "aquarium", "theme park", "playground", "interactive", "kid", "family"},
		Description:   "Choose family-friendly activities suitable for children of all ages.",
	},
}

// StylePrompt builds the interest block embedded into the itinerary prompt:
// human-readable descriptions plus a flattened, de-duplicated keyword list.
func StylePrompt(interests []string) string {
	var descriptions []string
	seen := map[string]bool{}
	var keywords []string

	for _, interest := range interests {
		style, ok := travelStyles[interest]
		if !ok {
			continue
		}
		descriptions = append(descriptions, "- "+interest+": "+style.Description)
		for _, kw := range style.Keywords {
			if !seen[kw] {
				seen[kw] = true
				keywords = append(keywords, kw)
			}
		}
	}

	if len(descriptions) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Traveler interests:\n")
	b.WriteString(strings.Join(descriptions, "\n"))
	b.WriteString("\nPrefer activities matching these themes: ")
	b.WriteString(strings.Join(keywords, ", "))
	return b.String()
}

// styleMatchIndex returns the index of the first interest whose keywords match
// the activity's text, or -1 when nothing matches.
func styleMatchIndex(a Activity, interests []string) int {
	text := strings.ToLower(a.Title + " " + a.Description + " " + a.Type)
	for i, interest := range interests {
		style, ok := travelStyles[interest]
		if !ok {
			continue
		}
		for _, kw := range style.Keywords {
			if strings.Contains(text, kw) {
				return i
			}
		}
		for _, at := range style.ActivityTypes {
			if strings.Contains(text, at) {
				return i
			}
		}
	}
	return -1
}

// FilterActivitiesByStyle keeps only activities matching at least one of the
// selected interests. With no interests the input is returned unchanged.
func FilterActivitiesByStyle(activities []Activity, interests []string) []Activity {
	if len(interests) == 0 {
		return activities
	}
	filtered := make([]Activity, 0, len(activities))
	for _, a := range activities {
		if styleMatchIndex(a, interests) >= 0 {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// PrioritizeActivitiesByStyle stable-sorts activities by the index of the
// first matching interest; unmatched activities sort last.
func PrioritizeActivitiesByStyle(activities []Activity, interests []string) []Activity {
	if len(interests) == 0 {
		return activities
	}
	out := make([]Activity, len(activities))
	copy(out, activities)

	rank := func(a Activity) int {
		idx := styleMatchIndex(a, interests)
		if idx < 0 {
			return len(interests)
		}
		return idx
	}

	sort.SliceStable(out, func(i, j int) bool {
		return rank(out[i]) < rank(out[j])
	})
	return out
}
