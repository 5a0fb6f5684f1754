package app

import (
	"testing"
	"time"

	"DomainWatch/config"
	"DomainWatch/domain"
)

func TestFormatAlert(t *testing.T) {
	a := Alert{Domain: "example.com", DaysLeft: 7, Expiration: time.Date(2026, 10, 25, 10, 0, 0, 0, time.UTC)}
	want := "🚨 **Domain Alert** 🚨\n`example.com` will expire in **7** days!\n(Expiration Date: 2026-10-25)"
	if got := FormatAlert(a); got != want {
		t.Fatalf("FormatAlert:\n got %q\nwant %q", got, want)
	}
}

func TestFormatAlertExpired(t *testing.T) {
	a := Alert{Domain: "old.com", DaysLeft: -2, Expiration: time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)}
	want := "🚨 **Domain Alert** 🚨\n`old.com` expired **2** days ago!\n(Expiration Date: 2026-10-16)"
	if got := FormatAlert(a); got != want {
		t.Fatalf("FormatAlert:\n got %q\nwant %q", got, want)
	}
}

func TestFormatFailure(t *testing.T) {
	got := FormatFailure(domain.FailureRecord{Domain: "x.io", Reason: "timeout"})
	if want := "❌ Could not check WHOIS for `x.io`: timeout"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	got = FormatFailure(domain.FailureRecord{Domain: "x.io"})
	if want := "❌ Could not check WHOIS for `x.io`: expiration date not found"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatBatch(t *testing.T) {
	exp := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	alerts := []Alert{{Domain: "a.com", DaysLeft: 15, Expiration: exp}, {Domain: "c.com", DaysLeft: 0, Expiration: exp}}
	failures := []domain.FailureRecord{{Domain: "b.com", Reason: "refused"}}

	quiet := FormatBatch(alerts, failures, config.FailureQuiet)
	wantQuiet := FormatAlert(alerts[0]) + "\n\n" + FormatAlert(alerts[1])
	if quiet != wantQuiet {
		t.Fatalf("quiet batch:\n got %q\nwant %q", quiet, wantQuiet)
	}

	strict := FormatBatch(alerts, failures, config.FailureStrict)
	if want := wantQuiet + "\n\n" + FormatFailure(failures[0]); strict != want {
		t.Fatalf("strict batch:\n got %q\nwant %q", strict, want)
	}

	if got := FormatBatch(nil, failures, config.FailureQuiet); got != "" {
		t.Fatalf("expected empty quiet batch, got %q", got)
	}
	if got := FormatBatch(nil, nil, config.FailureStrict); got != "" {
		t.Fatalf("expected empty batch, got %q", got)
	}
}
