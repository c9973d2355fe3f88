package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sharpeagle50/AI-Research-Assistant/entitlement"
	memorystore "github.com/sharpeagle50/AI-Research-Assistant/entitlement/memory"
	"github.com/sharpeagle50/AI-Research-Assistant/provider"
	"github.com/sharpeagle50/AI-Research-Assistant/redeem"
)

// stubProvider returns a fixed completion or error without network I/O.
type stubProvider struct {
	name  string
	text  string
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Complete(ctx context.Context, cfg provider.ModelConfig, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func testModels() map[string]provider.ModelConfig {
	return map[string]provider.ModelConfig{
		"openai_41_mini": {Provider: provider.NameOpenAI, Model: "gpt-4.1-mini", Endpoint: "http://unused", MaxTokens: 2000},
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newTestGateway(stub *stubProvider, dailyLimit int) (*Gateway, entitlement.Store) {
	store := memorystore.New()
	codes := redeem.NewRegistry([]string{"DEMO_CODE_2025"})
	gw := New(store, []provider.Provider{stub}, testModels(), codes, dailyLimit, quietLogger())
	return gw, store
}

func TestRedeemValidCode(t *testing.T) {
	gw, store := newTestGateway(&stubProvider{name: provider.NameOpenAI}, 1000)
	ctx := context.Background()

	sess, err := gw.Redeem(ctx, "DEMO_CODE_2025")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if sess.Plan != entitlement.PlanPro {
		t.Errorf("plan %q, want pro", sess.Plan)
	}
	wantExpiry := time.Now().Add(ProValidity)
	if d := sess.ExpiresAt.Sub(wantExpiry); d < -time.Minute || d > time.Minute {
		t.Errorf("expiry %v not within a minute of now+1y", sess.ExpiresAt)
	}

	got, ok, err := store.Lookup(ctx, sess.Token)
	if err != nil || !ok {
		t.Fatalf("lookup after redeem: ok=%v err=%v", ok, err)
	}
	if got.Plan != entitlement.PlanPro {
		t.Errorf("stored plan %q", got.Plan)
	}
}

func TestRedeemMintsIndependentSessions(t *testing.T) {
	gw, _ := newTestGateway(&stubProvider{name: provider.NameOpenAI}, 1000)
	ctx := context.Background()

	a, err := gw.Redeem(ctx, "DEMO_CODE_2025")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	b, err := gw.Redeem(ctx, "DEMO_CODE_2025")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if a.Token == b.Token {
		t.Error("two redemptions reused one session")
	}
}

func TestRedeemInvalidCode(t *testing.T) {
	gw, _ := newTestGateway(&stubProvider{name: provider.NameOpenAI}, 1000)
	_, err := gw.Redeem(context.Background(), "NOT_A_CODE")
	if !errors.Is(err, ErrInvalidCode) {
		t.Errorf("error %v, want ErrInvalidCode", err)
	}
}

func TestHandleRequestUnknownToken(t *testing.T) {
	stub := &stubProvider{name: provider.NameOpenAI, text: "Y"}
	gw, _ := newTestGateway(stub, 1000)

	for _, token := range []string{"", "deadbeef"} {
		_, err := gw.HandleRequest(context.Background(), token, "openai_41_mini", "Explain X")
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("token %q: error %v, want ErrUnauthorized", token, err)
		}
	}
	if stub.calls != 0 {
		t.Errorf("provider invoked %d times for unauthorized callers", stub.calls)
	}
}

func TestHandleRequestFreePlanRejected(t *testing.T) {
	stub := &stubProvider{name: provider.NameOpenAI, text: "Y"}
	gw, store := newTestGateway(stub, 1000)
	ctx := context.Background()

	sess, _ := store.Issue(ctx, entitlement.PlanFree, time.Hour)
	_, err := gw.HandleRequest(ctx, sess.Token, "openai_41_mini", "Explain X")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("error %v, want ErrUnauthorized for free plan", err)
	}
}

func TestHandleRequestSuccessAndUsage(t *testing.T) {
	stub := &stubProvider{name: provider.NameOpenAI, text: "Y"}
	gw, _ := newTestGateway(stub, 1000)
	ctx := context.Background()

	sess, err := gw.Redeem(ctx, "DEMO_CODE_2025")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}

	res, err := gw.HandleRequest(ctx, sess.Token, "openai_41_mini", "Explain X")
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if res.ResponseText != "Y" {
		t.Errorf("response %q, want Y", res.ResponseText)
	}
	if res.Usage != 1 {
		t.Errorf("usage %d, want 1", res.Usage)
	}

	res, err = gw.HandleRequest(ctx, sess.Token, "openai_41_mini", "Explain X")
	if err != nil {
		t.Fatalf("second handle: %v", err)
	}
	if res.Usage != 2 {
		t.Errorf("usage %d, want 2", res.Usage)
	}
}

func TestHandleRequestQuota(t *testing.T) {
	const limit = 3
	stub := &stubProvider{name: provider.NameOpenAI, text: "Y"}
	gw, store := newTestGateway(stub, limit)
	ctx := context.Background()

	sess, _ := gw.Redeem(ctx, "DEMO_CODE_2025")
	for i := 0; i < limit; i++ {
		if _, err := gw.HandleRequest(ctx, sess.Token, "openai_41_mini", "x"); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}

	_, err := gw.HandleRequest(ctx, sess.Token, "openai_41_mini", "x")
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("error %v, want ErrQuotaExceeded after %d calls", err, limit)
	}
	if stub.calls != limit {
		t.Errorf("provider invoked %d times, want %d", stub.calls, limit)
	}

	// One usage reset restores the full window; the entitlement survives.
	if err := store.ResetUsage(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	res, err := gw.HandleRequest(ctx, sess.Token, "openai_41_mini", "x")
	if err != nil {
		t.Fatalf("post-reset call: %v", err)
	}
	if res.Usage != 1 {
		t.Errorf("usage %d after reset, want 1", res.Usage)
	}
}

func TestHandleRequestInvalidModel(t *testing.T) {
	stub := &stubProvider{name: provider.NameOpenAI, text: "Y"}
	gw, _ := newTestGateway(stub, 1000)
	ctx := context.Background()

	sess, _ := gw.Redeem(ctx, "DEMO_CODE_2025")
	_, err := gw.HandleRequest(ctx, sess.Token, "gpt-99", "x")
	if !errors.Is(err, ErrInvalidModel) {
		t.Errorf("error %v, want ErrInvalidModel", err)
	}
}

func TestHandleRequestUpstreamFailure(t *testing.T) {
	upstream := &provider.UpstreamError{Provider: provider.NameOpenAI, HTTPStatus: 503, Message: "overloaded"}
	stub := &stubProvider{name: provider.NameOpenAI, err: upstream}
	gw, store := newTestGateway(stub, 1000)
	ctx := context.Background()

	sess, _ := gw.Redeem(ctx, "DEMO_CODE_2025")
	_, err := gw.HandleRequest(ctx, sess.Token, "openai_41_mini", "x")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("error %v, want ErrUpstream", err)
	}
	var ue *provider.UpstreamError
	if !errors.As(err, &ue) || ue.HTTPStatus != 503 {
		t.Errorf("provider detail lost: %v", err)
	}

	// Failed calls never consume quota.
	if n, _ := store.Usage(ctx, sess.Token); n != 0 {
		t.Errorf("usage %d after failed call, want 0", n)
	}
}

func TestVerifyUnknownTokenIsFree(t *testing.T) {
	gw, _ := newTestGateway(&stubProvider{name: provider.NameOpenAI}, 1000)

	_, ok, err := gw.Verify(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Error("unknown token verified")
	}
	_, ok, err = gw.Verify(context.Background(), "")
	if err != nil || ok {
		t.Errorf("empty token: ok=%v err=%v", ok, err)
	}
}
