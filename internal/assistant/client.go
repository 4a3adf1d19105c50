package assistant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

var ErrMissingCredentials = errors.New("assistant credentials are not configured")

// Client proxies chat requests to the generative-AI provider.
type Client struct {
	APIKey  string
	BaseURL string
	Model   string
	HTTP    *http.Client
}

func NewClient(apiKey, baseURL, model string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   model,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

func NewClientFromEnv() (*Client, error) {
	apiKey := strings.TrimSpace(os.Getenv("AI_API_KEY"))
	baseURL := strings.TrimSpace(os.Getenv("AI_API_URL"))
	if apiKey == "" || baseURL == "" {
		return nil, ErrMissingCredentials
	}
	model := strings.TrimSpace(os.Getenv("AI_MODEL"))
	if model == "" {
		model = "gpt-4o-mini"
	}
	return NewClient(apiKey, baseURL, model), nil
}

type Message struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content" validate:"required"`
}

// Chat forwards the conversation and returns the assistant reply. Provider
// errors are surfaced with their raw payload, no retry.
func (c *Client) Chat(messages []Message) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"model":    c.Model,
		"messages": messages,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("assistant response read failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("assistant api error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("assistant response decode failed: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("assistant returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
