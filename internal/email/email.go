package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/canvasspace/canvasaem/internal/lead"
)

var _ lead.Notifier = (*Client)(nil)

type Config struct {
	BaseURL         string
	Username        string
	Password        string
	LeadTemplateID  int
	AlertTemplateID int
	SalesEmail      string
	DemoURL         string
}

// Client sends transactional mail through listmonk.
type Client struct {
	config Config
	http   *http.Client
}

func New(cfg Config) *Client {
	return &Client{
		config: cfg,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

type txRequest struct {
	SubscriberEmail string            `json:"subscriber_email"`
	TemplateID      int               `json:"template_id"`
	Data            map[string]string `json:"data"`
	ContentType     string            `json:"content_type"`
}

// LeadCaptured thanks the lead and, when a sales inbox is configured,
// alerts it. Without listmonk configured it only logs.
func (c *Client) LeadCaptured(ctx context.Context, l *lead.Lead) error {
	if c.config.BaseURL == "" {
		slog.Info("email: not configured, skipping lead mail", "lead_id", l.ID)
		return nil
	}

	data := map[string]string{
		"name":    l.Name,
		"email":   l.Email,
		"company": l.Company,
		"demoURL": c.config.DemoURL,
	}
	if err := c.send(ctx, l.Email, c.config.LeadTemplateID, data); err != nil {
		return fmt.Errorf("send lead confirmation: %w", err)
	}

	if c.config.SalesEmail == "" || c.config.AlertTemplateID == 0 {
		return nil
	}
	alert := map[string]string{
		"name":    l.Name,
		"email":   l.Email,
		"company": l.Company,
		"country": l.Country,
		"city":    l.City,
		"leadId":  l.ID,
	}
	if err := c.send(ctx, c.config.SalesEmail, c.config.AlertTemplateID, alert); err != nil {
		return fmt.Errorf("send sales alert: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, toEmail string, templateID int, data map[string]string) error {
	body := txRequest{
		SubscriberEmail: toEmail,
		TemplateID:      templateID,
		Data:            data,
		ContentType:     "html",
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/tx", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create email request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.config.Username, c.config.Password)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("listmonk returned status %d", resp.StatusCode)
	}

	return nil
}
