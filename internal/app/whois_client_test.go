package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/likexian/whois"
)

func TestExpiryFromWhoisFirstCandidate(t *testing.T) {
	raw := "Domain Name: EXAMPLE.COM\n" +
		"Registry Expiry Date: 2027-08-13T04:00:00Z\n" +
		"Registrar Registration Expiration Date: 2027-09-01T00:00:00Z\n"

	got, err := expiryFromWhois(raw)
	if err != nil {
		t.Fatalf("expiryFromWhois returned error: %v", err)
	}
	if len(got) == 0 {
		t.Fatalf("expected candidates")
	}
	if want := time.Date(2027, 8, 13, 4, 0, 0, 0, time.UTC); !got[0].Equal(want) {
		t.Fatalf("first candidate %s, want %s", got[0], want)
	}
}

func TestExpiryFromWhoisNoDate(t *testing.T) {
	_, err := expiryFromWhois("Domain Name: EXAMPLE.COM\nRegistrar: Example Registrar\n")
	if !errors.Is(err, ErrNoExpiry) {
		t.Fatalf("expected ErrNoExpiry, got %v", err)
	}
}

const rdapDomainJSON = `{
  "objectClassName": "domain",
  "ldhName": "example.com",
  "events": [
    {"eventAction": "registration", "eventDate": "1995-08-14T04:00:00Z"},
    {"eventAction": "expiration", "eventDate": "2027-08-13T04:00:00Z"},
    {"eventAction": "last update of RDAP database", "eventDate": "2026-10-18T00:00:00Z"}
  ]
}`

func rdapServer(t *testing.T, status int, body string) *url.URL {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/domain/example.com") {
			t.Errorf("unexpected rdap path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/rdap+json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	return u
}

// whoisServer answers every port-43 query with raw and returns its address.
func whoisServer(t *testing.T, raw string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			buf := make([]byte, 256)
			_, _ = conn.Read(buf)
			_, _ = conn.Write([]byte(raw))
			conn.Close()
		}
	}()
	return ln.Addr().String()
}

func closedAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func newTestWhoisClient(rdapURL *url.URL, whoisAddr string) *DefaultWhoisClient {
	c := NewDefaultWhoisClient(2 * time.Second)
	c.Whois = whois.NewClient().SetTimeout(2 * time.Second).SetDisableReferral(true)
	c.RDAPServer = rdapURL
	c.WhoisServer = whoisAddr
	return c
}

func TestQueryUsesRDAPExpiration(t *testing.T) {
	c := newTestWhoisClient(rdapServer(t, http.StatusOK, rdapDomainJSON), closedAddr(t))

	got, err := c.Query(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected only the expiration event, got %v", got)
	}
	if want := time.Date(2027, 8, 13, 4, 0, 0, 0, time.UTC); !got[0].Equal(want) {
		t.Fatalf("got %s, want %s", got[0], want)
	}
}

func TestQueryFallsBackToWhois(t *testing.T) {
	raw := "Domain Name: EXAMPLE.COM\r\nRegistry Expiry Date: 2028-01-02T00:00:00Z\r\n"
	c := newTestWhoisClient(rdapServer(t, http.StatusNotFound, `{}`), whoisServer(t, raw))

	got, err := c.Query(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if want := time.Date(2028, 1, 2, 0, 0, 0, 0, time.UTC); len(got) == 0 || !got[0].Equal(want) {
		t.Fatalf("expected whois expiry %s, got %v", want, got)
	}
}

func TestQueryRDAPWithoutExpirationFallsBack(t *testing.T) {
	body := `{"objectClassName": "domain", "ldhName": "example.com", "events": []}`
	raw := "Domain Name: EXAMPLE.COM\nExpiry Date: 2029-03-04\n"
	c := newTestWhoisClient(rdapServer(t, http.StatusOK, body), whoisServer(t, raw))

	got, err := c.Query(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(got) == 0 || got[0].Format("2006-01-02") != "2029-03-04" {
		t.Fatalf("unexpected candidates %v", got)
	}
}

func TestQueryBothFail(t *testing.T) {
	c := newTestWhoisClient(rdapServer(t, http.StatusInternalServerError, `oops`), closedAddr(t))

	_, err := c.Query(context.Background(), "example.com")
	if err == nil {
		t.Fatalf("expected error when rdap and whois both fail")
	}
	if !strings.HasPrefix(err.Error(), "rdap: ") || !strings.Contains(err.Error(), "; whois: ") {
		t.Fatalf("expected combined error, got %q", err)
	}
	if errors.Is(err, ErrNoExpiry) {
		t.Fatalf("transport failure must not look like a missing date")
	}
}

func TestQueryHonorsContext(t *testing.T) {
	c := newTestWhoisClient(rdapServer(t, http.StatusNotFound, `{}`), whoisServer(t, "x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Query(ctx, "example.com"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
