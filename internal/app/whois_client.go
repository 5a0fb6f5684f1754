package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"DomainWatch/tools"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
	"github.com/openrdap/rdap"
)

// DefaultWhoisClient asks RDAP first and falls back to port-43 WHOIS.
type DefaultWhoisClient struct {
	RDAP  *rdap.Client
	Whois *whois.Client
	// RDAPServer skips RDAP bootstrap when set.
	RDAPServer *url.URL
	// WhoisServer ("host:port") skips the IANA referral when set.
	WhoisServer string
}

func NewDefaultWhoisClient(timeout time.Duration) *DefaultWhoisClient {
	return &DefaultWhoisClient{
		RDAP:  &rdap.Client{HTTP: &http.Client{Timeout: timeout}},
		Whois: whois.NewClient().SetTimeout(timeout),
	}
}

func (c *DefaultWhoisClient) Query(ctx context.Context, domain string) ([]time.Time, error) {
	dates, rdapErr := c.queryRDAP(ctx, domain)
	if rdapErr == nil && len(dates) > 0 {
		return dates, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := c.queryWhois(ctx, domain)
	if err != nil {
		if rdapErr != nil {
			return nil, fmt.Errorf("rdap: %v; whois: %w", rdapErr, err)
		}
		return nil, fmt.Errorf("whois: %w", err)
	}
	return expiryFromWhois(raw)
}

func (c *DefaultWhoisClient) queryRDAP(ctx context.Context, domain string) ([]time.Time, error) {
	req := rdap.NewDomainRequest(domain).WithContext(ctx)
	if c.RDAPServer != nil {
		req = req.WithServer(c.RDAPServer)
	}
	resp, err := c.RDAP.Do(req)
	if err != nil {
		return nil, err
	}
	d, ok := resp.Object.(*rdap.Domain)
	if !ok {
		return nil, fmt.Errorf("rdap: unexpected object %T", resp.Object)
	}

	var out []time.Time
	for _, event := range d.Events {
		if !strings.EqualFold(event.Action, "expiration") {
			continue
		}
		if t, ok := tools.ParseDate(event.Date); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// queryWhois runs the blocking WHOIS call and gives up when ctx ends.
func (c *DefaultWhoisClient) queryWhois(ctx context.Context, domain string) (string, error) {
	type result struct {
		data string
		err  error
	}

	ch := make(chan result, 1)
	go func() {
		var servers []string
		if c.WhoisServer != "" {
			servers = append(servers, c.WhoisServer)
		}
		raw, err := c.Whois.Whois(domain, servers...)
		ch <- result{data: raw, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		return res.data, res.err
	}
}

// expiryFromWhois prefers the parser's structured field and keeps the raw
// line scan as a fallback for registries the parser does not know.
func expiryFromWhois(raw string) ([]time.Time, error) {
	var out []time.Time

	info, err := whoisparser.Parse(raw)
	switch {
	case errors.Is(err, whoisparser.ErrNotFoundDomain):
		return nil, fmt.Errorf("domain not found in registry")
	case errors.Is(err, whoisparser.ErrDomainLimitExceed):
		return nil, fmt.Errorf("registry rate limit exceeded")
	case err == nil && info.Domain != nil:
		if t, ok := tools.ParseDate(info.Domain.ExpirationDate); ok {
			out = append(out, t)
		}
	}

	out = append(out, tools.ExtractExpiry(raw)...)
	if len(out) == 0 {
		return nil, ErrNoExpiry
	}
	return out, nil
}
