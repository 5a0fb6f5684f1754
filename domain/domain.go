package domain

import (
	"bufio"
	"strings"
)

// DomainSource is one domain to check and the place it was listed.
type DomainSource struct {
	Domain string
	Source string
}

// FailureRecord describes a domain whose expiry could not be determined.
type FailureRecord struct {
	Domain string
	Source string
	Reason string
}

// Repository supplies the domains configured for a run.
type Repository interface {
	LoadSources() ([]DomainSource, error)
}

// ParseList reads one domain per line, skipping blank lines and lines that
// start with '#'. A line may carry a label after '|', which replaces source.
func ParseList(text, source string) []DomainSource {
	var out []DomainSource
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		if ds, ok := parseLine(scanner.Text(), source); ok {
			out = append(out, ds)
		}
	}
	return out
}

func parseLine(line, source string) (DomainSource, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return DomainSource{}, false
	}
	parts := strings.Split(line, "|")
	name := Normalize(parts[0])
	if name == "" {
		return DomainSource{}, false
	}
	if len(parts) >= 2 && strings.TrimSpace(parts[1]) != "" {
		source = strings.TrimSpace(parts[1])
	}
	return DomainSource{Domain: name, Source: source}, true
}

// Normalize lower-cases a domain and strips surrounding space and the trailing dot.
func Normalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	return strings.TrimSuffix(s, ".")
}
