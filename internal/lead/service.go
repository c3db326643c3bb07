package lead

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/canvasspace/canvasaem/internal/gate"
	"github.com/canvasspace/canvasaem/internal/geoip"
	"github.com/canvasspace/canvasaem/internal/validate"
	"github.com/mssola/useragent"
)

// Locator resolves a client IP to a coarse location.
type Locator interface {
	Lookup(ip string) geoip.Location
}

// Capture is an accepted form submission plus where it came from.
type Capture struct {
	gate.Lead
	SessionID string
	IP        string
	UserAgent string
}

type Service struct {
	repo     *Repository
	geo      Locator
	notifier Notifier
}

// NewService wires the lead sink. geo and notifier may be nil.
func NewService(repo *Repository, geo Locator, notifier Notifier) *Service {
	return &Service{repo: repo, geo: geo, notifier: notifier}
}

// Capture enriches and stores a submission, then notifies. A notifier
// failure is logged and does not fail the capture.
func (s *Service) Capture(ctx context.Context, c Capture) (*Lead, error) {
	l := &Lead{
		SessionID: c.SessionID,
		Name:      c.Name,
		Email:     c.Email,
		Company:   c.Company,
	}
	if s.geo != nil {
		loc := s.geo.Lookup(c.IP)
		l.Country, l.City = loc.Country, loc.City
	}
	l.Browser, l.Device = describeClient(c.UserAgent)

	if err := s.repo.Insert(ctx, l); err != nil {
		return nil, fmt.Errorf("capture lead: %w", err)
	}
	slog.Info("lead: captured", "lead_id", l.ID, "session_id", l.SessionID, "country", l.Country)

	if s.notifier != nil {
		if err := s.notifier.LeadCaptured(ctx, l); err != nil {
			slog.Error("lead: notification failed", "lead_id", l.ID, "error", err)
		}
	}
	return l, nil
}

func describeClient(ua string) (browser, device string) {
	if ua == "" {
		return "", ""
	}
	if len(ua) > validate.MaxUserAgentLength {
		ua = ua[:validate.MaxUserAgentLength]
	}
	parsed := useragent.New(ua)
	browser, _ = parsed.Browser()
	switch {
	case parsed.Bot():
		device = "bot"
	case parsed.Mobile():
		device = "mobile"
	default:
		device = "desktop"
	}
	return browser, device
}
