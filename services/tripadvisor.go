package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"voyago/config"
)

// TripAdvisorClient wraps the TripAdvisor content API for restaurant and
// attraction lookups around a destination.
type TripAdvisorClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var tripAdvisorClient *TripAdvisorClient

func InitTripAdvisor(cfg *config.Config) {
	tripAdvisorClient = &TripAdvisorClient{
		apiKey:  cfg.TripAdvisorAPIKey,
		baseURL: "https://api.content.tripadvisor.com/api/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	if tripAdvisorClient.apiKey == "" {
		log.Println("⚠️  TRIPADVISOR_API_KEY not set — restaurant/attraction lookups disabled")
	} else {
		log.Println("✅ TripAdvisor API configured")
	}
}

func GetTripAdvisorClient() *TripAdvisorClient {
	return tripAdvisorClient
}

func (c *TripAdvisorClient) Configured() bool {
	return c != nil && c.apiKey != ""
}

type tripAdvisorSearchResponse struct {
	Data []struct {
		LocationID string `json:"location_id"`
		Name       string `json:"name"`
	} `json:"data"`
}

type tripAdvisorDetails struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	WebURL      string `json:"web_url"`
	Rating      string `json:"rating"`
	PriceLevel  string `json:"price_level"`
	Cuisine     []struct {
		LocalizedName string `json:"localized_name"`
	} `json:"cuisine"`
}

func (c *TripAdvisorClient) doRequest(path string, q url.Values) ([]byte, error) {
	q.Set("key", c.apiKey)
	q.Set("language", "en")

	req, err := http.NewRequest("GET", c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tripadvisor error (%d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// SearchRestaurants finds restaurants in the destination and enriches the top
// hits with details. Results are cached per destination for a day.
func (c *TripAdvisorClient) SearchRestaurants(destination string) ([]Restaurant, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("tripadvisor not configured")
	}

	cacheKey := "ta:restaurants:" + strings.ToLower(destination)
	var cached []Restaurant
	if cacheGet(cacheKey, &cached) {
		return cached, nil
	}

	q := url.Values{}
	q.Set("searchQuery", destination)
	q.Set("category", "restaurants")

	body, err := c.doRequest("/location/search", q)
	if err != nil {
		return nil, fmt.Errorf("restaurant search failed: %w", err)
	}

	var resp tripAdvisorSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse restaurant search: %w", err)
	}

	restaurants := make([]Restaurant, 0, len(resp.Data))
	for i, loc := range resp.Data {
		if i >= 15 {
			break
		}
		r := Restaurant{Name: loc.Name}
		if details, err := c.getDetails(loc.LocationID); err == nil {
			r.Description = details.Description
			r.URL = details.WebURL
			r.Rating = parseRating(details.Rating)
			r.PriceLevel = details.PriceLevel
			if len(details.Cuisine) > 0 {
				r.Cuisine = details.Cuisine[0].LocalizedName
			}
		}
		restaurants = append(restaurants, r)
	}

	cacheSet(cacheKey, restaurants, 24*time.Hour)
	return restaurants, nil
}

// SearchAttractions finds things to do in the destination.
func (c *TripAdvisorClient) SearchAttractions(destination string) ([]Activity, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("tripadvisor not configured")
	}

	cacheKey := "ta:attractions:" + strings.ToLower(destination)
	var cached []Activity
	if cacheGet(cacheKey, &cached) {
		return cached, nil
	}

	q := url.Values{}
	q.Set("searchQuery", destination)
	q.Set("category", "attractions")

	body, err := c.doRequest("/location/search", q)
	if err != nil {
		return nil, fmt.Errorf("attraction search failed: %w", err)
	}

	var resp tripAdvisorSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse attraction search: %w", err)
	}

	activities := make([]Activity, 0, len(resp.Data))
	for i, loc := range resp.Data {
		if i >= 20 {
			break
		}
		a := Activity{Title: loc.Name, Type: "sightseeing"}
		if details, err := c.getDetails(loc.LocationID); err == nil {
			a.Description = details.Description
			a.URL = details.WebURL
			a.Rating = parseRating(details.Rating)
		}
		activities = append(activities, a)
	}

	cacheSet(cacheKey, activities, 24*time.Hour)
	return activities, nil
}

func (c *TripAdvisorClient) getDetails(locationID string) (*tripAdvisorDetails, error) {
	body, err := c.doRequest("/location/"+locationID+"/details", url.Values{})
	if err != nil {
		return nil, err
	}

	var details tripAdvisorDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("failed to parse location details: %w", err)
	}
	return &details, nil
}
