package builder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"promptsite/internal/models"
	"promptsite/internal/services"
	"promptsite/pkg/llm"
)

// APIClient talks to the gateway over HTTP and implements GenerationAPI
// and CreditsAPI. Status codes are translated back into the sentinel
// errors the Controller understands.
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewAPIClient creates a client for the given gateway base URL and bearer
// token.
func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

type generateResponse struct {
	Content *models.GenerationResult `json:"content"`
	Success bool                     `json:"success"`
	Error   string                   `json:"error"`
	Details string                   `json:"details"`
}

// Generate posts one generation request and decodes the result.
func (c *APIClient) Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode generation response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		if decoded.Content == nil {
			return nil, fmt.Errorf("generation response has no content")
		}
		return decoded.Content, nil
	case http.StatusPaymentRequired:
		return nil, services.ErrInsufficientCredits
	case http.StatusTooManyRequests:
		return nil, llm.ErrRateLimited
	default:
		message := decoded.Error
		if decoded.Details != "" {
			message = decoded.Details
		}
		return nil, &llm.UpstreamError{StatusCode: resp.StatusCode, Message: message}
	}
}

type creditsResponse struct {
	DailyCredits int `json:"daily_credits"`
}

// Remaining fetches the advisory remaining-credits figure.
func (c *APIClient) Remaining(ctx context.Context) (int, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/credits", nil)
	if err != nil {
		return 0, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("credits request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("credits request returned status %d", resp.StatusCode)
	}

	var decoded creditsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("failed to decode credits response: %w", err)
	}
	return decoded.DailyCredits, nil
}
