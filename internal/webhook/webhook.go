package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/canvasspace/canvasaem/internal/database"
	"github.com/canvasspace/canvasaem/internal/lead"
)

const (
	maxResponseBodyBytes = 1024
	EventLeadCaptured    = "lead.captured"
)

var _ lead.Notifier = (*Client)(nil)

// Event represents a webhook event to dispatch.
type Event struct {
	Name      string         `json:"event"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

type Config struct {
	URL    string
	Secret string
}

// Client posts signed lead events to the configured endpoint with retries
// and delivery logging.
type Client struct {
	db          database.DBTX
	http        *http.Client
	config      Config
	retryDelays []time.Duration
}

func New(db database.DBTX, config Config) *Client {
	return &Client{
		db:          db,
		http:        &http.Client{Timeout: 10 * time.Second},
		config:      config,
		retryDelays: []time.Duration{1 * time.Second, 4 * time.Second},
	}
}

func (c *Client) Enabled() bool {
	return c.config.URL != ""
}

// SignPayload computes HMAC-SHA256 of the payload using the secret.
func SignPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func (c *Client) LeadCaptured(ctx context.Context, l *lead.Lead) error {
	if !c.Enabled() {
		return nil
	}
	return c.Dispatch(ctx, l.ID, Event{
		Name:      EventLeadCaptured,
		Timestamp: l.CreatedAt.UTC(),
		Data: map[string]any{
			"leadId":    l.ID,
			"sessionId": l.SessionID,
			"name":      l.Name,
			"email":     l.Email,
			"company":   l.Company,
			"country":   l.Country,
			"city":      l.City,
		},
	})
}

// Dispatch sends an event with up to 3 attempts. Each attempt is logged to
// webhook_deliveries.
func (c *Client) Dispatch(ctx context.Context, leadID string, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	signature := SignPayload(c.config.Secret, body)
	maxAttempts := 1 + len(c.retryDelays)
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		statusCode, respBody, err := c.doPost(ctx, c.config.URL, body, signature)
		c.logDelivery(ctx, leadID, event.Name, body, statusCode, respBody, attempt)

		if err == nil && statusCode != nil && *statusCode >= 200 && *statusCode < 300 {
			return nil
		}

		if err != nil {
			lastErr = err
		} else if statusCode != nil {
			lastErr = fmt.Errorf("webhook returned status %d", *statusCode)
		}

		if attempt < maxAttempts {
			select {
			case <-time.After(c.retryDelays[attempt-1]):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return lastErr
}

func (c *Client) doPost(ctx context.Context, url string, body []byte, signature string) (*int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Signature", signature)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err.Error(), err
	}
	defer func() { _ = resp.Body.Close() }()

	respBytes, _ := io.ReadAll(io.LimitReader(resp.Body, int64(maxResponseBodyBytes)+1))
	respBody := string(respBytes)
	if len(respBody) > maxResponseBodyBytes {
		respBody = respBody[:maxResponseBodyBytes]
	}

	return &resp.StatusCode, respBody, nil
}

func (c *Client) logDelivery(ctx context.Context, leadID, event string, payload []byte, statusCode *int, responseBody string, attempt int) {
	if _, err := c.db.Exec(ctx,
		`INSERT INTO webhook_deliveries (lead_id, event, payload, status_code, response_body, attempt)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		leadID, event, payload, statusCode, responseBody, attempt,
	); err != nil {
		slog.Error("webhook: failed to log delivery", "lead_id", leadID, "error", err)
	}
}
