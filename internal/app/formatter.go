package app

import (
	"fmt"
	"strings"
	"time"

	"DomainWatch/config"
	"DomainWatch/domain"
)

// Alert is one domain that matched the notification schedule.
type Alert struct {
	Domain     string
	DaysLeft   int
	Expiration time.Time
}

func FormatAlert(a Alert) string {
	date := a.Expiration.UTC().Format("2006-01-02")
	if a.DaysLeft < 0 {
		return fmt.Sprintf("🚨 **Domain Alert** 🚨\n`%s` expired **%d** days ago!\n(Expiration Date: %s)",
			a.Domain, -a.DaysLeft, date)
	}
	return fmt.Sprintf("🚨 **Domain Alert** 🚨\n`%s` will expire in **%d** days!\n(Expiration Date: %s)",
		a.Domain, a.DaysLeft, date)
}

func FormatFailure(f domain.FailureRecord) string {
	reason := strings.TrimSpace(f.Reason)
	if reason == "" {
		reason = "expiration date not found"
	}
	return fmt.Sprintf("❌ Could not check WHOIS for `%s`: %s", f.Domain, reason)
}

// FormatBatch joins alerts, then failures when policy is strict, with a
// blank line between entries. An empty result means nothing to send.
func FormatBatch(alerts []Alert, failures []domain.FailureRecord, policy config.FailurePolicy) string {
	entries := make([]string, 0, len(alerts)+len(failures))
	for _, a := range alerts {
		entries = append(entries, FormatAlert(a))
	}
	if policy == config.FailureStrict {
		for _, f := range failures {
			entries = append(entries, FormatFailure(f))
		}
	}
	return strings.Join(entries, "\n\n")
}
