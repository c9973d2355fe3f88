// Package gateway is the request façade tying the entitlement store and
// provider adapters together. It is the only place business rules
// (authorization, quota, model validation) are enforced; the store and
// providers underneath are policy-free.
//
// Quota is enforced per session, not per underlying identity. Sessions are
// unlinked to any durable identity, so re-redeeming a code yields a fresh
// quota; that is an inherent limitation of the entitlement model, not a
// bug in the gateway.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sharpeagle50/AI-Research-Assistant/entitlement"
	"github.com/sharpeagle50/AI-Research-Assistant/provider"
	"github.com/sharpeagle50/AI-Research-Assistant/redeem"
)

// ProValidity is how long a session minted from a privileged code lasts.
const ProValidity = 365 * 24 * time.Hour

// Result is a successful completion plus the caller's post-call usage
// count in the current window.
type Result struct {
	ResponseText string
	Usage        int
}

// Gateway validates entitlement and quota, resolves the logical model,
// invokes the matching provider adapter, and records usage.
type Gateway struct {
	store      entitlement.Store
	providers  map[string]provider.Provider
	models     map[string]provider.ModelConfig
	codes      *redeem.Registry
	dailyLimit int
	log        *logrus.Logger
}

// New constructs a gateway. Providers are keyed by their Name.
func New(store entitlement.Store, providers []provider.Provider, models map[string]provider.ModelConfig, codes *redeem.Registry, dailyLimit int, log *logrus.Logger) *Gateway {
	byName := make(map[string]provider.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Gateway{
		store:      store,
		providers:  byName,
		models:     models,
		codes:      codes,
		dailyLimit: dailyLimit,
		log:        log,
	}
}

// Redeem checks code against the privileged set and, on a match, mints a
// fresh pro session. Every valid redemption creates a new independent
// session.
func (g *Gateway) Redeem(ctx context.Context, code string) (entitlement.Session, error) {
	if !g.codes.Match(code) {
		return entitlement.Session{}, ErrInvalidCode
	}
	sess, err := g.store.Issue(ctx, entitlement.PlanPro, ProValidity)
	if err != nil {
		return entitlement.Session{}, fmt.Errorf("issue session: %w", err)
	}
	g.log.WithField("expires_at", sess.ExpiresAt).Info("privileged code redeemed")
	return sess, nil
}

// Verify reports the stored entitlement for a token. Unknown or missing
// tokens come back (zero, false, nil); callers treat that as the free
// plan, never as an error.
func (g *Gateway) Verify(ctx context.Context, token string) (entitlement.Session, bool, error) {
	if token == "" {
		return entitlement.Session{}, false, nil
	}
	return g.store.Lookup(ctx, token)
}

// HandleRequest runs the full pipeline: authorization, quota, model
// resolution, upstream call, usage recording. Authorization derives solely
// from the stored session; caller-supplied plan claims are never
// consulted.
func (g *Gateway) HandleRequest(ctx context.Context, token, logicalModel, prompt string) (Result, error) {
	if token == "" {
		return Result{}, ErrUnauthorized
	}
	sess, ok, err := g.store.Lookup(ctx, token)
	if err != nil {
		return Result{}, fmt.Errorf("session lookup: %w", err)
	}
	if !ok || sess.Plan != entitlement.PlanPro {
		return Result{}, ErrUnauthorized
	}

	used, err := g.store.Usage(ctx, token)
	if err != nil {
		return Result{}, fmt.Errorf("usage lookup: %w", err)
	}
	if used >= g.dailyLimit {
		return Result{}, ErrQuotaExceeded
	}

	cfg, ok := g.models[logicalModel]
	if !ok {
		return Result{}, ErrInvalidModel
	}
	p, ok := g.providers[cfg.Provider]
	if !ok {
		return Result{}, fmt.Errorf("no adapter for provider %q", cfg.Provider)
	}

	// The upstream call runs with no store lock held: quota state was read
	// above, and the increment happens only after success.
	text, err := p.Complete(ctx, cfg, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	count, err := g.store.RecordUsage(ctx, token)
	if err != nil {
		return Result{}, fmt.Errorf("record usage: %w", err)
	}
	g.log.WithFields(logrus.Fields{
		"model": logicalModel,
		"usage": count,
	}).Debug("completion served")
	return Result{ResponseText: text, Usage: count}, nil
}
