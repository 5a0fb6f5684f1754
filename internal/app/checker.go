package app

import (
	"context"
	"time"

	"DomainWatch/domain"
	"DomainWatch/internal/metrics"
	"DomainWatch/tools"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Lookuper resolves the expiry of one domain.
type Lookuper interface {
	Lookup(ctx context.Context, ds domain.DomainSource) LookupResult
}

// CheckReport holds the alerts and failures of one run, both in input order.
type CheckReport struct {
	Checked  int
	Alerts   []Alert
	Failures []domain.FailureRecord
}

type ExpiryCheckerService struct {
	Lookup   Lookuper
	Schedule Schedule
	// Limiter paces consecutive lookups; nil disables pacing.
	Limiter *rate.Limiter
	Now     func() time.Time
	Metrics *metrics.Recorder
	Logger  *zap.Logger
}

// Check looks every domain up in order. Per-domain failures are collected,
// never returned; the error is only set when ctx ends mid-run.
func (c *ExpiryCheckerService) Check(ctx context.Context, domains []domain.DomainSource) (CheckReport, error) {
	var report CheckReport
	if c.Lookup == nil {
		return report, ErrMissingDependencies
	}
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	today := now().UTC()
	logger.Info("starting domain check", zap.String("today", today.Format("2006-01-02")), zap.Int("domains", len(domains)))

	for i, ds := range domains {
		if i > 0 && c.Limiter != nil {
			if err := c.Limiter.Wait(ctx); err != nil {
				return report, err
			}
		}

		res := c.Lookup.Lookup(ctx, ds)
		report.Checked++
		if c.Metrics != nil {
			c.Metrics.Check(res.Kind.String())
		}
		log := logger.With(zap.String("domain", ds.Domain), zap.String("source", ds.Source))

		switch res.Kind {
		case LookupFound:
			days := tools.DaysUntil(today, res.Expiration)
			log.Info("expiry found", zap.Int("days_left", days), zap.String("expires", res.Expiration.Format("2006-01-02")))
			if c.Metrics != nil {
				c.Metrics.DaysLeft(ds.Domain, days)
			}
			if c.Schedule.ShouldNotify(days) {
				report.Alerts = append(report.Alerts, Alert{Domain: ds.Domain, DaysLeft: days, Expiration: res.Expiration})
				if c.Metrics != nil {
					c.Metrics.Alert()
				}
			}
		case LookupUnknown:
			log.Warn("expiration date not found")
			report.Failures = append(report.Failures, domain.FailureRecord{Domain: ds.Domain, Source: ds.Source, Reason: "expiration date not found"})
		default:
			log.Warn("expiry lookup failed", zap.String("reason", res.Reason))
			report.Failures = append(report.Failures, domain.FailureRecord{Domain: ds.Domain, Source: ds.Source, Reason: res.Reason})
		}
	}
	return report, nil
}
