// Package metrics records per-run counters and optionally pushes them to a
// Prometheus Pushgateway, since the job exits before any scrape could happen.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

type Recorder struct {
	registry      *prometheus.Registry
	checks        *prometheus.CounterVec
	alerts        prometheus.Counter
	notifications *prometheus.CounterVec
	daysLeft      *prometheus.GaugeVec
	lastRun       prometheus.Gauge
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		checks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "domain_expiry_checks_total",
			Help: "Expiry lookups by result (found, unknown, failed).",
		}, []string{"result"}),
		alerts: factory.NewCounter(prometheus.CounterOpts{
			Name: "domain_expiry_alerts_total",
			Help: "Domains that matched the notification schedule.",
		}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "domain_expiry_notifications_total",
			Help: "Notification sends by channel and status.",
		}, []string{"channel", "status"}),
		daysLeft: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "domain_expiry_days_left",
			Help: "Whole days until registration expiry.",
		}, []string{"domain"}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "domain_expiry_last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
	}
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) Check(result string) { r.checks.WithLabelValues(result).Inc() }

func (r *Recorder) DaysLeft(domain string, days int) {
	r.daysLeft.WithLabelValues(domain).Set(float64(days))
}

func (r *Recorder) Alert() { r.alerts.Inc() }

func (r *Recorder) Notification(channel string, sent bool) {
	status := "sent"
	if !sent {
		status = "failed"
	}
	r.notifications.WithLabelValues(channel, status).Inc()
}

func (r *Recorder) Finished(t time.Time) { r.lastRun.Set(float64(t.Unix())) }

// Push replaces the job's metric group on the Pushgateway at url.
func (r *Recorder) Push(ctx context.Context, url, job string) error {
	return push.New(url, job).Gatherer(r.registry).PushContext(ctx)
}
