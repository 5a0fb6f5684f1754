package tools

import (
	"strings"
	"time"
)

// Layouts tried in order by ParseDate. Layouts without a zone parse as UTC.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"2006.01.02",
	"2006.01.02 15:04:05",
	"02-Jan-2006",
	"02-Jan-2006 15:04:05",
	"02.01.2006",
	"Jan 02, 2006",
	"January 2 2006",
	"January 02 2006",
	"Mon Jan 2 15:04:05 MST 2006",
}

// expiryKeys are the WHOIS field names that carry the registration expiry,
// most specific first.
var expiryKeys = []string{
	"registry expiry date:",
	"registrar registration expiration date:",
	"expiration date:",
	"expiry date:",
	"expire date:",
	"expires on:",
	"expires:",
	"expiry:",
	"paid-till:",
	"renewal date:",
}

// ParseDate parses a registry timestamp and returns it in UTC.
func ParseDate(s string) (time.Time, bool) {
	cleaned := strings.TrimSpace(strings.Trim(strings.TrimSpace(s), ":"))
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ExtractExpiry scans raw WHOIS text and returns every parseable expiry
// value in the order it appears.
func ExtractExpiry(raw string) []time.Time {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	var out []time.Time
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "notice:") ||
			strings.HasPrefix(lower, "%") ||
			strings.HasPrefix(lower, ">>>") ||
			strings.Contains(lower, "terms of use") ||
			strings.Contains(lower, "disclaimer") {
			continue
		}
		for _, k := range expiryKeys {
			if !strings.HasPrefix(lower, k) {
				continue
			}
			if t, ok := ParseDate(line[len(k):]); ok {
				out = append(out, t)
			}
			break
		}
	}
	return out
}

// DaysUntil returns the whole days from now until expiry, rounded down.
// The result is negative once expiry has passed.
func DaysUntil(now, expiry time.Time) int {
	d := expiry.UTC().Sub(now.UTC())
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}
