package lead

import (
	"context"
	"time"
)

// Lead is a persisted lead form submission with its enrichment.
type Lead struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	Browser   string    `json:"browser"`
	Device    string    `json:"device"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notifier is told about every stored lead.
type Notifier interface {
	LeadCaptured(ctx context.Context, l *Lead) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, l *Lead) error

func (f NotifierFunc) LeadCaptured(ctx context.Context, l *Lead) error {
	return f(ctx, l)
}
