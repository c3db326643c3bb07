package notify

import (
	"context"
	"log/slog"

	"github.com/canvasspace/canvasaem/internal/lead"
	"github.com/canvasspace/canvasaem/internal/metrics"
)

var _ lead.Notifier = (*MultiLeadNotifier)(nil)

// Channel names a notifier for logs and delivery metrics.
type Channel struct {
	Name     string
	Notifier lead.Notifier
}

// MultiLeadNotifier fans out captured leads to all registered channels.
type MultiLeadNotifier struct {
	channels []Channel
}

// NewMultiLeadNotifier creates a notifier that delegates to all provided channels.
func NewMultiLeadNotifier(channels ...Channel) *MultiLeadNotifier {
	return &MultiLeadNotifier{channels: channels}
}

// Add registers another channel. It is not safe to call once leads are flowing.
func (m *MultiLeadNotifier) Add(name string, n lead.Notifier) {
	m.channels = append(m.channels, Channel{Name: name, Notifier: n})
}

func (m *MultiLeadNotifier) Len() int {
	return len(m.channels)
}

// LeadCaptured never fails; each channel's error is logged and counted.
func (m *MultiLeadNotifier) LeadCaptured(ctx context.Context, l *lead.Lead) error {
	for _, ch := range m.channels {
		err := ch.Notifier.LeadCaptured(ctx, l)
		metrics.RecordDelivery(ch.Name, err)
		if err != nil {
			slog.Error("multi-notifier: lead notification failed", "channel", ch.Name, "lead_id", l.ID, "error", err)
		}
	}
	return nil
}
