package app

import (
	"context"
	"time"

	"DomainWatch/domain"
	"DomainWatch/internal/metrics"
	"DomainWatch/notify"

	"go.uber.org/zap"
)

// Collector supplies the domains of one run.
type Collector interface {
	Configured() bool
	Collect(ctx context.Context) ([]domain.DomainSource, error)
}

type App struct {
	Collector Collector
	Checker   *ExpiryCheckerService
	Notifier  *NotifierService
	Metrics   *metrics.Recorder
	// PushURL is the Pushgateway to push run metrics to; empty disables pushing.
	PushURL string
	PushJob string
	Logger  *zap.Logger
}

// Summary describes what one run did.
type Summary struct {
	Domains  int
	Alerts   int
	Failures int
	Results  []notify.Result
}

// Run executes one complete check. It returns an error only for problems
// that make the run meaningless (unreadable domain list, cancelled context).
func (a *App) Run(ctx context.Context) (Summary, error) {
	var summary Summary
	if a.Collector == nil || a.Checker == nil || a.Notifier == nil {
		return summary, ErrMissingDependencies
	}
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	defer a.pushMetrics(ctx, logger)

	if !a.Collector.Configured() {
		logger.Error("no domain source configured (set DOMAINS_LIST, DOMAINS_FILE or config domains)")
		return summary, nil
	}

	domains, err := a.Collector.Collect(ctx)
	if err != nil {
		return summary, err
	}
	summary.Domains = len(domains)
	if len(domains) == 0 {
		logger.Info("no domains to check")
		return summary, nil
	}

	report, err := a.Checker.Check(ctx, domains)
	summary.Alerts = len(report.Alerts)
	summary.Failures = len(report.Failures)
	if err != nil {
		return summary, err
	}

	results, err := a.Notifier.Notify(ctx, report)
	summary.Results = results
	if err != nil {
		return summary, err
	}

	logger.Info("run finished",
		zap.Int("domains", summary.Domains),
		zap.Int("alerts", summary.Alerts),
		zap.Int("failures", summary.Failures),
	)
	return summary, nil
}

func (a *App) pushMetrics(ctx context.Context, logger *zap.Logger) {
	if a.Metrics == nil {
		return
	}
	a.Metrics.Finished(time.Now())
	if a.PushURL == "" {
		return
	}
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := a.Metrics.Push(pushCtx, a.PushURL, a.PushJob); err != nil {
		logger.Warn("metrics push failed", zap.String("url", a.PushURL), zap.Error(err))
	}
}
