package domain

import (
	"context"
	"strings"

	"DomainWatch/cfclient"
	"DomainWatch/config"

	"go.uber.org/zap"
)

// RegistrarLister lists domains held by registrar accounts.
type RegistrarLister interface {
	Registrars() []config.Registrar
	ListDomainsForRegistrar(ctx context.Context, registrar config.Registrar) ([]string, error)
}

// Service merges every configured domain source into one ordered list.
type Service struct {
	Repos      []Repository
	CF         cfclient.Client
	Accounts   []config.CF
	Registrars RegistrarLister
	Logger     *zap.Logger
}

// NewService wires the sources described by cfg in their fixed order:
// env list, files, Cloudflare accounts, registrars.
func NewService(cfg *config.Config, cf cfclient.Client, registrars RegistrarLister, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{Accounts: cfg.CloudflareAccounts, Logger: logger}
	if strings.TrimSpace(cfg.Domains.List) != "" {
		s.Repos = append(s.Repos, NewListRepository(cfg.Domains.List, EnvSource))
	}
	if len(cfg.Domains.Files) > 0 {
		s.Repos = append(s.Repos, NewFileRepository(cfg.Domains.Files))
	}
	if len(cfg.CloudflareAccounts) > 0 {
		if cf == nil {
			cf = cfclient.NewClient()
		}
		s.CF = cf
	}
	if len(cfg.Registrars) > 0 {
		s.Registrars = registrars
	}
	return s
}

// Configured reports whether any source is wired.
func (s *Service) Configured() bool {
	return len(s.Repos) > 0 || (s.CF != nil && len(s.Accounts) > 0) || s.Registrars != nil
}

// Collect returns domains from every source in order. Local sources must be
// readable; a remote account that fails is logged and skipped.
func (s *Service) Collect(ctx context.Context) ([]DomainSource, error) {
	var out []DomainSource
	for _, repo := range s.Repos {
		sources, err := repo.LoadSources()
		if err != nil {
			return nil, err
		}
		out = append(out, sources...)
	}

	out = append(out, s.collectCF(ctx)...)
	out = append(out, s.collectRegistrars(ctx)...)

	s.Logger.Info("domains loaded", zap.Int("count", len(out)))
	return out, nil
}

func (s *Service) collectCF(ctx context.Context) []DomainSource {
	if s.CF == nil {
		return nil
	}
	var out []DomainSource
	for _, acc := range s.Accounts {
		doms, err := s.CF.FetchAllDomains(ctx, acc)
		if err != nil {
			s.Logger.Warn("cloudflare zone listing failed", zap.String("account", acc.Label), zap.Error(err))
			continue
		}
		for _, d := range doms {
			switch strings.ToLower(d.Status) {
			case "moved", "deleted":
				continue
			}
			out = append(out, DomainSource{Domain: Normalize(d.Domain), Source: d.Source})
		}
	}
	return out
}

func (s *Service) collectRegistrars(ctx context.Context) []DomainSource {
	if s.Registrars == nil {
		return nil
	}
	var out []DomainSource
	for _, r := range s.Registrars.Registrars() {
		names, err := s.Registrars.ListDomainsForRegistrar(ctx, r)
		if err != nil {
			s.Logger.Warn("registrar domain listing failed", zap.String("registrar", r.Label), zap.Error(err))
			continue
		}
		for _, n := range names {
			if n = Normalize(n); n != "" {
				out = append(out, DomainSource{Domain: n, Source: r.Label})
			}
		}
	}
	return out
}
