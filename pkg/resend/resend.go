// Package resend wraps the Resend email-delivery API.
package resend

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

const maxResponseSizeBytes = 1 << 20

type Config struct {
	BaseURL   string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.resend.com"`
	APIKey    string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	FromEmail string        `envconfig:"FROM_EMAIL" split_words:"true" required:"true"`
	Timeout   time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// Client talks to the Resend REST API.
type Client struct {
	baseURL    string
	apiKey     string
	fromEmail  string
	httpClient *http.Client
}

var _ contractx.EmailProvider = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("resend base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid resend base url: %w", err)
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("resend api key is required")
	}

	fromEmail := strings.TrimSpace(cfg.FromEmail)
	if fromEmail == "" {
		return nil, errors.New("resend sender identity is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		fromEmail:  fromEmail,
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

// Send delivers one email. The raw provider body is carried back in the
// result so partial cc/bcc rejections reported there are never dropped.
func (c *Client) Send(ctx context.Context, d contractx.EmailDelivery) (*contractx.EmailResult, error) {
	if strings.TrimSpace(d.To) == "" {
		return nil, fmt.Errorf("%w: recipient address is required", contractx.ErrValidation)
	}

	from := strings.TrimSpace(d.From)
	if from == "" {
		from = c.fromEmail
	}

	payload := map[string]any{
		"from":    from,
		"to":      []string{d.To},
		"subject": d.Subject,
		"text":    d.Body,
	}
	if cc := strings.TrimSpace(d.CC); cc != "" {
		payload["cc"] = splitAddresses(cc)
	}
	if bcc := strings.TrimSpace(d.BCC); bcc != "" {
		payload["bcc"] = splitAddresses(bcc)
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", contractx.ErrAdapter, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", contractx.ErrAdapter, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

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

	messageID, _ := parsed["id"].(string)
	log.Info().Str("to", d.To).Str("message_id", messageID).Msg("email sent")

	return &contractx.EmailResult{
		MessageID: messageID,
		From:      from,
		Raw:       parsed,
	}, nil
}

func splitAddresses(s string) []string {
	parts := strings.Split(s, ",")
	addrs := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			addrs = append(addrs, trimmed)
		}
	}
	return addrs
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
