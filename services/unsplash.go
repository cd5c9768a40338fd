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

// UnsplashClient fetches a representative destination photo. Purely cosmetic;
// failures leave the photo URL empty.
type UnsplashClient struct {
	accessKey  string
	httpClient *http.Client
}

var unsplashClient *UnsplashClient

func InitUnsplash(cfg *config.Config) {
	unsplashClient = &UnsplashClient{
		accessKey: cfg.UnsplashAccessKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}

	if unsplashClient.accessKey == "" {
		log.Println("⚠️  UNSPLASH_ACCESS_KEY not set — destination photos disabled")
	}
}

func GetUnsplashClient() *UnsplashClient {
	return unsplashClient
}

func (c *UnsplashClient) Configured() bool {
	return c != nil && c.accessKey != ""
}

// DestinationPhoto returns a photo URL for the destination, cached for a week.
func (c *UnsplashClient) DestinationPhoto(destination string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("unsplash not configured")
	}

	cacheKey := "unsplash:photo:" + strings.ToLower(destination)
	var cached string
	if cacheGet(cacheKey, &cached) {
		return cached, nil
	}

	q := url.Values{}
	q.Set("query", destination+" travel")
	q.Set("per_page", "1")
	q.Set("orientation", "landscape")

	req, err := http.NewRequest("GET", "https://api.unsplash.com/search/photos?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unsplash error (%d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Results []struct {
			Urls struct {
				Regular string `json:"regular"`
			} `json:"urls"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse photo search: %w", err)
	}
	if len(result.Results) == 0 {
		return "", fmt.Errorf("no photos found for %s", destination)
	}

	photoURL := result.Results[0].Urls.Regular
	cacheSet(cacheKey, photoURL, 7*24*time.Hour)
	return photoURL, nil
}
