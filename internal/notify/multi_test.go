package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/canvasspace/canvasaem/internal/lead"
	"github.com/canvasspace/canvasaem/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type mockLeadNotifier struct {
	called bool
	leadID string
	err    error
}

func (m *mockLeadNotifier) LeadCaptured(_ context.Context, l *lead.Lead) error {
	m.called = true
	m.leadID = l.ID
	return m.err
}

func TestMultiLeadNotifier_CallsAll(t *testing.T) {
	n1 := &mockLeadNotifier{}
	n2 := &mockLeadNotifier{}
	multi := NewMultiLeadNotifier(Channel{Name: "one", Notifier: n1}, Channel{Name: "two", Notifier: n2})

	if err := multi.LeadCaptured(context.Background(), &lead.Lead{ID: "lead-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !n1.called || !n2.called {
		t.Error("expected both notifiers to be called")
	}
	if n1.leadID != "lead-1" || n2.leadID != "lead-1" {
		t.Errorf("unexpected lead ids %q %q", n1.leadID, n2.leadID)
	}
}

func TestMultiLeadNotifier_ContinuesOnError(t *testing.T) {
	failing := &mockLeadNotifier{err: errors.New("slack down")}
	ok := &mockLeadNotifier{}
	multi := NewMultiLeadNotifier()
	multi.Add("failing-test", failing)
	multi.Add("ok-test", ok)

	errBefore := testutil.ToFloat64(metrics.LeadDeliveriesTotal.WithLabelValues("failing-test", "error"))
	okBefore := testutil.ToFloat64(metrics.LeadDeliveriesTotal.WithLabelValues("ok-test", "ok"))

	if err := multi.LeadCaptured(context.Background(), &lead.Lead{ID: "lead-2"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !ok.called {
		t.Error("expected second notifier to be called despite first failing")
	}
	if got := testutil.ToFloat64(metrics.LeadDeliveriesTotal.WithLabelValues("failing-test", "error")) - errBefore; got != 1 {
		t.Errorf("expected one failed delivery recorded, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.LeadDeliveriesTotal.WithLabelValues("ok-test", "ok")) - okBefore; got != 1 {
		t.Errorf("expected one ok delivery recorded, got %v", got)
	}
}

func TestMultiLeadNotifier_Empty(t *testing.T) {
	multi := NewMultiLeadNotifier()
	if multi.Len() != 0 {
		t.Fatalf("expected no channels, got %d", multi.Len())
	}
	if err := multi.LeadCaptured(context.Background(), &lead.Lead{ID: "lead-3"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
