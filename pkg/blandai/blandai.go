// Package blandai wraps the Bland AI voice-calling API.
package blandai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/wavelaunch/creator-backend/creator/contract"
)

const maxResponseSizeBytes = 2 << 20

type Config struct {
	BaseURL    string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.bland.ai/v1"`
	APIKey     string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	WebhookURL string        `envconfig:"WEBHOOK_URL" split_words:"true"`
	Timeout    time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

// Client talks to the Bland AI REST API. One instance is shared by all
// requests; the embedded http.Client is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	webhookURL string
	httpClient *http.Client
}

var _ contractx.CallProvider = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("bland ai base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid bland ai base url: %w", err)
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("bland ai api key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		webhookURL: strings.TrimSpace(cfg.WebhookURL),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// Place starts an outbound call and returns the provider call id plus the
// raw provider response.
func (c *Client) Place(ctx context.Context, p contractx.CallPlacement) (*contractx.CallResult, error) {
	if strings.TrimSpace(p.PhoneNumber) == "" {
		return nil, fmt.Errorf("%w: phone number is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(p.Prompt) == "" {
		return nil, fmt.Errorf("%w: call prompt is required", contractx.ErrValidation)
	}

	payload := map[string]any{
		"phone_number": p.PhoneNumber,
		"task":         p.Prompt,
		"model":        "base",
		"language":     p.Language,
		"voice":        p.Voice,
		"max_duration": p.MaxDuration,
		"record":       true,
		"metadata": map[string]any{
			"creator_id": p.CreatorID.String(),
			"name":       p.Name,
			"handle":     p.Handle,
		},
	}
	if c.webhookURL != "" {
		payload["webhook"] = c.webhookURL
	}

	log.Info().Str("phone_number", p.PhoneNumber).Str("language", p.Language).Msg("placing call")

	raw, err := c.do(ctx, http.MethodPost, "/calls", payload)
	if err != nil {
		return nil, err
	}

	callID, _ := raw["call_id"].(string)
	log.Info().Str("call_id", callID).Msg("call initiated")

	return &contractx.CallResult{
		CallID: callID,
		Raw:    raw,
	}, nil
}

// Analyze runs the provider's post-call analysis for a completed call.
func (c *Client) Analyze(ctx context.Context, callID string) (map[string]any, error) {
	if strings.TrimSpace(callID) == "" {
		return nil, fmt.Errorf("%w: call id is required", contractx.ErrValidation)
	}
	return c.do(ctx, http.MethodPost, "/calls/"+url.PathEscape(callID)+"/analyze", nil)
}

// Status returns the provider-reported status of a call, or "unknown" when
// the response carries none.
func (c *Client) Status(ctx context.Context, callID string) (string, error) {
	if strings.TrimSpace(callID) == "" {
		return "", fmt.Errorf("%w: call id is required", contractx.ErrValidation)
	}

	raw, err := c.do(ctx, http.MethodGet, "/calls/"+url.PathEscape(callID), nil)
	if err != nil {
		return "", err
	}

	status, _ := raw["status"].(string)
	if status == "" {
		status = "unknown"
	}
	return status, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (map[string]any, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: marshal request: %v", contractx.ErrAdapter, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", contractx.ErrAdapter, err)
	}
	req.Header.Set("Authorization", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", contractx.ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", contractx.ErrAdapter, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", contractx.ErrAdapter, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: status=%d body=%s", contractx.ErrRateLimited, resp.StatusCode, string(raw))
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: status=%d body=%s", contractx.ErrAdapter, resp.StatusCode, string(raw))
	}

	parsed := map[string]any{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return nil, fmt.Errorf("%w: decode response: %v", contractx.ErrAdapter, err)
		}
	}
	return parsed, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
