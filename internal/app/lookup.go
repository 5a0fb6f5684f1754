package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"DomainWatch/domain"

	"go.uber.org/zap"
)

type LookupKind int

const (
	LookupFound LookupKind = iota
	LookupUnknown
	LookupFailed
)

func (k LookupKind) String() string {
	switch k {
	case LookupFound:
		return "found"
	case LookupUnknown:
		return "unknown"
	default:
		return "failed"
	}
}

// LookupResult is the outcome of one expiry lookup. Expiration is set (UTC)
// for LookupFound; Reason is set for LookupFailed.
type LookupResult struct {
	Kind       LookupKind
	Expiration time.Time
	Reason     string
}

func Found(t time.Time) LookupResult    { return LookupResult{Kind: LookupFound, Expiration: t.UTC()} }
func Unknown() LookupResult             { return LookupResult{Kind: LookupUnknown} }
func Failed(reason string) LookupResult { return LookupResult{Kind: LookupFailed, Reason: reason} }

// WhoisClient returns the expiration candidates a registry reports for a
// domain, most authoritative first.
type WhoisClient interface {
	Query(ctx context.Context, domain string) ([]time.Time, error)
}

// RegistrarExpiry looks a domain up through the registrar account named by
// label. ok is false when label is not a configured registrar.
type RegistrarExpiry interface {
	ExpiryFor(ctx context.Context, label, domain string) (t time.Time, ok bool, err error)
}

// ExpiryLookup turns registry answers into a LookupResult. It never returns
// an error: every failure is reported as LookupFailed.
type ExpiryLookup struct {
	Whois        WhoisClient
	Registrars   RegistrarExpiry
	QueryTimeout time.Duration
	Logger       *zap.Logger
}

func (l *ExpiryLookup) Lookup(ctx context.Context, ds domain.DomainSource) LookupResult {
	if l.Whois == nil {
		return Failed(ErrMissingDependencies.Error())
	}
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if l.Registrars != nil {
		t, ok, err := l.registrarExpiry(ctx, ds)
		switch {
		case ok && err == nil && !t.IsZero():
			return Found(t)
		case ok && err != nil:
			logger.Warn("registrar lookup failed, falling back to whois",
				zap.String("domain", ds.Domain), zap.String("registrar", ds.Source), zap.Error(err))
		}
	}

	candidates, err := l.queryWhois(ctx, ds.Domain)
	if err != nil {
		if errors.Is(err, ErrNoExpiry) {
			return Unknown()
		}
		return Failed(err.Error())
	}
	if len(candidates) == 0 {
		return Unknown()
	}
	return Found(candidates[0])
}

func (l *ExpiryLookup) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.QueryTimeout > 0 {
		return context.WithTimeout(ctx, l.QueryTimeout)
	}
	return ctx, func() {}
}

func (l *ExpiryLookup) registrarExpiry(ctx context.Context, ds domain.DomainSource) (t time.Time, ok bool, err error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			t, ok, err = time.Time{}, true, fmt.Errorf("panic: %v", r)
		}
	}()
	return l.Registrars.ExpiryFor(ctx, ds.Source, ds.Domain)
}

func (l *ExpiryLookup) queryWhois(ctx context.Context, name string) (candidates []time.Time, err error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			candidates, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return l.Whois.Query(ctx, name)
}
