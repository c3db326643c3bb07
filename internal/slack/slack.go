package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/canvasspace/canvasaem/internal/lead"
)

var _ lead.Notifier = (*Client)(nil)

// Client posts lead alerts to a Slack incoming webhook.
type Client struct {
	http       *http.Client
	webhookURL string
}

func New(webhookURL string) *Client {
	return &Client{
		http:       &http.Client{Timeout: 10 * time.Second},
		webhookURL: webhookURL,
	}
}

func (c *Client) Enabled() bool {
	return c.webhookURL != ""
}

type block struct {
	Type     string `json:"type"`
	Text     *text  `json:"text,omitempty"`
	Elements []text `json:"elements,omitempty"`
}

type text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type payload struct {
	Blocks []block `json:"blocks"`
}

var mrkdwnEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func (c *Client) LeadCaptured(ctx context.Context, l *lead.Lead) error {
	if !c.Enabled() {
		return nil
	}

	p := payload{
		Blocks: []block{
			{
				Type: "section",
				Text: &text{
					Type: "mrkdwn",
					Text: fmt.Sprintf(":tada: *New lead unlocked the demo*\n*%s* <mailto:%s|%s>\n%s",
						mrkdwnEscaper.Replace(l.Name), l.Email, mrkdwnEscaper.Replace(l.Email), mrkdwnEscaper.Replace(l.Company)),
				},
			},
		},
	}
	if ctxLine := contextLine(l); ctxLine != "" {
		p.Blocks = append(p.Blocks, block{
			Type:     "context",
			Elements: []text{{Type: "mrkdwn", Text: ctxLine}},
		})
	}

	if err := c.postMessage(ctx, p); err != nil {
		return fmt.Errorf("slack lead notification: %w", err)
	}
	return nil
}

func contextLine(l *lead.Lead) string {
	var parts []string
	switch {
	case l.City != "" && l.Country != "":
		parts = append(parts, l.City+", "+l.Country)
	case l.Country != "":
		parts = append(parts, l.Country)
	}
	if l.Browser != "" {
		parts = append(parts, l.Browser)
	}
	if l.Device != "" {
		parts = append(parts, l.Device)
	}
	return mrkdwnEscaper.Replace(strings.Join(parts, " · "))
}

func (c *Client) postMessage(ctx context.Context, p payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send slack message: %w", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned status %d", resp.StatusCode)
	}
	return nil
}
