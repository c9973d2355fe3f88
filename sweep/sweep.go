// Package sweep schedules the two periodic maintenance passes: expiring
// stale sessions and resetting usage windows. The schedules are
// independent so a short quota window never forces session churn and vice
// versa.
package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/sharpeagle50/AI-Research-Assistant/entitlement"
)

// Runner drives the maintenance schedules against a store.
type Runner struct {
	c     *cron.Cron
	store entitlement.Store
	log   *logrus.Logger
}

// New registers the expiry sweep and quota reset on their own schedules.
// Specs use the standard cron format plus @every/@hourly descriptors.
func New(store entitlement.Store, log *logrus.Logger, expirySpec, quotaSpec string) (*Runner, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	r := &Runner{c: cron.New(), store: store, log: log}
	if _, err := r.c.AddFunc(expirySpec, r.sweepExpired); err != nil {
		return nil, fmt.Errorf("expiry sweep schedule %q: %w", expirySpec, err)
	}
	if _, err := r.c.AddFunc(quotaSpec, r.resetUsage); err != nil {
		return nil, fmt.Errorf("quota reset schedule %q: %w", quotaSpec, err)
	}
	return r, nil
}

// Start begins scheduling in a background goroutine.
func (r *Runner) Start() { r.c.Start() }

// Stop halts scheduling and waits for any in-flight pass to finish.
func (r *Runner) Stop() {
	<-r.c.Stop().Done()
}

func (r *Runner) sweepExpired() {
	removed, err := r.store.SweepExpired(context.Background(), time.Now())
	if err != nil {
		r.log.WithError(err).Error("session expiry sweep failed")
		return
	}
	if removed > 0 {
		r.log.WithField("removed", removed).Info("expired sessions swept")
	}
}

func (r *Runner) resetUsage() {
	if err := r.store.ResetUsage(context.Background()); err != nil {
		r.log.WithError(err).Error("usage reset failed")
		return
	}
	r.log.Info("usage counters reset")
}
