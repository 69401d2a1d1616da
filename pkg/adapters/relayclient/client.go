package relayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/stepwise/pkg/ports"
)

// DefaultTimeout bounds a round trip to the relay.
const DefaultTimeout = 60 * time.Second

// Error is a non-2xx answer from the relay.
type Error struct {
	Status  int
	Message string
	Details string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP error! status: %d", e.Status)
	}
	if e.Details == "" {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Message, e.Details, e.Status)
}

// Client talks to a relay server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ ports.Assistant = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the relay at baseURL, e.g. http://localhost:4000.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Simplify calls POST /api/simplify.
func (c *Client) Simplify(ctx context.Context, prompt string) (string, error) {
	var out struct {
		Simplified string `json:"simplified"`
	}
	if err := c.post(ctx, "/api/simplify", prompt, &out); err != nil {
		return "", err
	}
	return out.Simplified, nil
}

// GenerateTitle calls POST /api/generate-title.
func (c *Client) GenerateTitle(ctx context.Context, prompt string) (string, error) {
	var out struct {
		Title string `json:"title"`
	}
	if err := c.post(ctx, "/api/generate-title", prompt, &out); err != nil {
		return "", err
	}
	return out.Title, nil
}

func (c *Client) post(ctx context.Context, path, prompt string, out any) error {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &Error{Status: resp.StatusCode, Message: e.Error, Details: e.Details}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode relay response: %w", err)
	}
	return nil
}
