package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/canvasspace/canvasaem/internal/lead"
	"github.com/segmentio/kafka-go"
)

const DefaultTopic = "canvasaem.leads"

var _ lead.Notifier = (*Publisher)(nil)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// LeadEvent is the record published for every captured lead.
type LeadEvent struct {
	Type       string    `json:"type"`
	LeadID     string    `json:"leadId"`
	SessionID  string    `json:"sessionId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Company    string    `json:"company"`
	Country    string    `json:"country,omitempty"`
	City       string    `json:"city,omitempty"`
	CapturedAt time.Time `json:"capturedAt"`
}

type Publisher struct {
	writer messageWriter
	topic  string
}

// NewPublisher returns nil when no brokers are configured.
func NewPublisher(brokers []string, topic string) *Publisher {
	if len(brokers) == 0 {
		return nil
	}
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}
}

func (p *Publisher) LeadCaptured(ctx context.Context, l *lead.Lead) error {
	event := LeadEvent{
		Type:       "lead.captured",
		LeadID:     l.ID,
		SessionID:  l.SessionID,
		Name:       l.Name,
		Email:      l.Email,
		Company:    l.Company,
		Country:    l.Country,
		City:       l.City,
		CapturedAt: l.CreatedAt,
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal lead event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(l.ID),
		Value: value,
		Time:  time.Now(),
	}); err != nil {
		return fmt.Errorf("publish lead event to %s: %w", p.topic, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
