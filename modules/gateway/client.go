package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/AppleLamps/free-photo-or/modules/enhance"
	"github.com/AppleLamps/free-photo-or/modules/generate"
)

// Sentinels for the three caller-distinguishable failure classes. HTTP-level
// failures carry the server's own message and wrap neither.
var (
	ErrEmptyPrompt     = errors.New("prompt must not be empty")
	ErrNetwork         = errors.New("network unreachable")
	ErrInvalidResponse = errors.New("invalid response")
)

// Client is the browser-side API gateway: it validates input, serializes
// requests to the two proxy endpoints and normalizes every failure shape.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient wraps the proxy at baseURL. No request timeout is set, matching
// the UI contract: a hung generation holds its trigger disabled, nothing more.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// NewClientWithHTTPClient allows callers to supply their own transport.
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	c := NewClient(baseURL)
	c.httpClient = httpClient
	return c
}

// RequestGeneration submits a prompt and settings for generation.
func (c *Client) RequestGeneration(ctx context.Context, prompt string, settings generate.GenerationSettings) ([]generate.GeneratedImage, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	body := generate.GenerateRequest{Prompt: prompt, GenerationSettings: settings}

	var resp generate.GenerateResponse
	if err := c.postJSON(ctx, "/api/generate", body, &resp); err != nil {
		return nil, err
	}
	if resp.Images == nil {
		return nil, fmt.Errorf("%w: missing images field", ErrInvalidResponse)
	}
	return resp.Images, nil
}

// RequestEnhancement submits a prompt for rewriting.
func (c *Client) RequestEnhancement(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	var resp enhance.EnhanceResponse
	if err := c.postJSON(ctx, "/api/enhance", enhance.EnhanceRequest{Prompt: prompt}, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.EnhancedPrompt) == "" {
		return "", fmt.Errorf("%w: missing enhancedPrompt field", ErrInvalidResponse)
	}
	return resp.EnhancedPrompt, nil
}

// postJSON performs the single POST both operations share and folds transport,
// HTTP and body-shape failures into the gateway's error taxonomy.
func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		if jsonErr := json.Unmarshal(respBody, &errBody); jsonErr == nil && errBody.Error != "" {
			return errors.New(errBody.Error)
		}
		return fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
