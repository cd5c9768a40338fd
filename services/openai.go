package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"voyago/config"
)

// OpenAIClient wraps the chat-completions API. One call per trip generation,
// JSON mode, no tool use.
type OpenAIClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

var openAIClient *OpenAIClient

func InitOpenAI(cfg *config.Config) {
	openAIClient = &OpenAIClient{
		apiKey: cfg.OpenAIAPIKey,
		model:  cfg.OpenAIModel,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}

	if openAIClient.apiKey != "" {
		log.Println("✅ OpenAI initialized with model:", openAIClient.model)
	} else {
		log.Println("⚠️  OPENAI_API_KEY not set — day-by-day itineraries will use the template fallback")
	}
}

func GetOpenAIClient() *OpenAIClient {
	return openAIClient
}

func (c *OpenAIClient) Configured() bool {
	return c != nil && c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// CompleteJSON sends one chat completion with response_format json_object and
// returns the raw message content.
func (c *OpenAIClient) CompleteJSON(systemPrompt, userPrompt string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("openai API key not configured")
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.7,
		ResponseFormat: &struct {
			Type string `json:"type"`
		}{Type: "json_object"},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", "https://api.openai.com/v1/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai API error (%d): %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse AI response: %w", err)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from AI")
	}

	return chatResp.Choices[0].Message.Content, nil
}
