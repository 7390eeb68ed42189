package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// providerRateLimit caps outgoing provider calls; the provider throttles
// hard above ~25 req/s per account.
const providerRateLimit = 20

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the payment provider's REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		return nil, errors.New("invalid payment provider configuration: base URL and API key are required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(providerRateLimit, providerRateLimit),
	}, nil
}

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e *apiError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("payment provider error %s: %s", e.Code, e.Message)
	}
	return "payment provider error: " + e.Message
}

func (c *Client) CreateTransfer(ctx context.Context, params TransferParams) (*Transfer, error) {
	body := map[string]interface{}{
		"amount":         params.AmountCents,
		"currency":       params.Currency,
		"destination":    params.DestinationAccount,
		"transfer_group": params.TransferGroup,
		"metadata":       params.Metadata,
	}

	var transfer Transfer
	// Each call gets a fresh idempotency key: retries are the caller's
	// decision, not the client's.
	if err := c.do(ctx, http.MethodPost, "/v1/transfers", uuid.NewString(), body, &transfer); err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (c *Client) RetrievePaymentIntent(ctx context.Context, intentID string) (*PaymentIntent, error) {
	if intentID == "" {
		return nil, errors.New("payment intent id is required")
	}
	var intent PaymentIntent
	if err := c.do(ctx, http.MethodGet, "/v1/payment_intents/"+intentID, "", nil, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *Client) do(ctx context.Context, method, path, idempotencyKey string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr != nil || apiErr.Message == "" {
			return fmt.Errorf("payment provider returned status %d", resp.StatusCode)
		}
		return &apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode provider response: %w", err)
		}
	}
	return nil
}
