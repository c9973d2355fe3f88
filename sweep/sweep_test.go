package sweep

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sharpeagle50/AI-Research-Assistant/entitlement"
	memorystore "github.com/sharpeagle50/AI-Research-Assistant/entitlement/memory"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestNewRejectsBadSchedules(t *testing.T) {
	s := memorystore.New()
	if _, err := New(s, quietLogger(), "not-a-schedule", "@every 24h"); err == nil {
		t.Error("bad expiry schedule accepted")
	}
	if _, err := New(s, quietLogger(), "@hourly", "sometimes"); err == nil {
		t.Error("bad quota schedule accepted")
	}
	if _, err := New(s, quietLogger(), "@hourly", "@every 24h"); err != nil {
		t.Errorf("valid schedules rejected: %v", err)
	}
}

func TestPassesRunIndependently(t *testing.T) {
	s := memorystore.New()
	ctx := context.Background()

	expired, _ := s.Issue(ctx, entitlement.PlanPro, -time.Hour)
	live, _ := s.Issue(ctx, entitlement.PlanPro, time.Hour)
	s.RecordUsage(ctx, live.Token)

	r, err := New(s, quietLogger(), "@hourly", "@every 24h")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	// The expiry pass removes only stale sessions and leaves counters.
	r.sweepExpired()
	if _, ok, _ := s.Lookup(ctx, expired.Token); ok {
		t.Error("expired session survived")
	}
	if n, _ := s.Usage(ctx, live.Token); n != 1 {
		t.Errorf("expiry pass touched usage: %d", n)
	}

	// The quota pass clears counters and leaves sessions.
	r.resetUsage()
	if n, _ := s.Usage(ctx, live.Token); n != 0 {
		t.Errorf("usage %d after reset, want 0", n)
	}
	if _, ok, _ := s.Lookup(ctx, live.Token); !ok {
		t.Error("quota pass removed a live session")
	}
}
