package registrarclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"DomainWatch/config"
)

// Manager resolves registrar accounts from configuration by label.
type Manager struct {
	client     Client
	registrars []config.Registrar
}

func NewManager(client Client, registrars []config.Registrar) *Manager {
	if client == nil {
		client = NewClient(0)
	}
	return &Manager{client: client, registrars: registrars}
}

// Registrars returns the usable registrar accounts (label and type set).
func (m *Manager) Registrars() []config.Registrar {
	out := make([]config.Registrar, 0, len(m.registrars))
	for _, r := range m.registrars {
		if strings.TrimSpace(r.Label) == "" || strings.TrimSpace(r.Type) == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (m *Manager) RegistrarByLabel(label string) (config.Registrar, bool) {
	if strings.TrimSpace(label) == "" {
		return config.Registrar{}, false
	}
	for _, r := range m.Registrars() {
		if strings.EqualFold(strings.TrimSpace(r.Label), strings.TrimSpace(label)) {
			return r, true
		}
	}
	return config.Registrar{}, false
}

func (m *Manager) ListDomainsForRegistrar(ctx context.Context, registrar config.Registrar) ([]string, error) {
	return m.client.ListDomains(ctx, registrar)
}

// ExpiryFor asks the registrar labelled label for the expiry of domain.
// ok is false when no registrar carries that label.
func (m *Manager) ExpiryFor(ctx context.Context, label, domain string) (t time.Time, ok bool, err error) {
	r, found := m.RegistrarByLabel(label)
	if !found {
		return time.Time{}, false, nil
	}
	t, err = m.client.GetExpiry(ctx, r, domain)
	if err != nil {
		return time.Time{}, true, fmt.Errorf("registrar %s: %w", r.Label, err)
	}
	return t, true, nil
}
