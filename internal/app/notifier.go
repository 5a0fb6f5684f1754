package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"DomainWatch/config"
	"DomainWatch/internal/metrics"
	"DomainWatch/notify"

	"go.uber.org/zap"
)

// Dispatcher sends one message to every configured channel.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg string) []notify.Result
}

type NotifierService struct {
	Dispatcher Dispatcher
	Policy     config.FailurePolicy
	// DryRun prints the message to Out instead of dispatching it.
	DryRun  bool
	Out     io.Writer
	Metrics *metrics.Recorder
	Logger  *zap.Logger
}

// Notify formats the report and dispatches it once. An empty batch sends nothing.
func (n *NotifierService) Notify(ctx context.Context, report CheckReport) ([]notify.Result, error) {
	if n.Dispatcher == nil && !n.DryRun {
		return nil, ErrMissingDependencies
	}
	logger := n.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if n.Policy != config.FailureStrict && len(report.Failures) > 0 {
		logger.Info("lookup failures left out of the notification", zap.Int("failures", len(report.Failures)))
	}

	msg := FormatBatch(report.Alerts, report.Failures, n.Policy)
	if msg == "" {
		logger.Info("all domains are fine, no alerts")
		return nil, nil
	}

	if n.DryRun {
		out := n.Out
		if out == nil {
			out = os.Stdout
		}
		fmt.Fprintln(out, msg)
		logger.Info("dry run, notification not sent")
		return nil, nil
	}

	results := n.Dispatcher.Dispatch(ctx, msg)
	if n.Metrics != nil {
		for _, r := range results {
			n.Metrics.Notification(r.Channel, r.Sent())
		}
	}
	return results, nil
}
