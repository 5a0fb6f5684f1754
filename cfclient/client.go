package cfclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"DomainWatch/config"

	cloudflare "github.com/cloudflare/cloudflare-go"
)

// DomainInfo is a zone as seen from one Cloudflare account.
type DomainInfo struct {
	Domain string
	Source string
	Status string
}

// Client lists the zones managed by a Cloudflare account.
type Client interface {
	FetchAllDomains(ctx context.Context, account config.CF) ([]DomainInfo, error)
}

type apiClient struct {
	opts    []cloudflare.Option
	timeout time.Duration
}

// NewClient returns the Cloudflare API backed client. Options are passed to
// every cloudflare.API it builds.
func NewClient(opts ...cloudflare.Option) Client {
	return &apiClient{opts: opts, timeout: 30 * time.Second}
}

func (c *apiClient) FetchAllDomains(ctx context.Context, account config.CF) ([]DomainInfo, error) {
	ctx, cancel := c.ensureTimeout(ctx)
	defer cancel()

	api, err := cloudflare.NewWithAPIToken(account.APIToken, c.opts...)
	if err != nil {
		return nil, fmt.Errorf("init cloudflare client [%s]: %w", account.Label, err)
	}

	var filters []cloudflare.ReqOption
	if strings.TrimSpace(account.AccountID) != "" {
		filters = append(filters, cloudflare.WithZoneFilters("", account.AccountID, ""))
	}

	zones, err := api.ListZonesContext(ctx, filters...)
	if err != nil {
		return nil, fmt.Errorf("list zones [%s]: %w", account.Label, err)
	}

	out := make([]DomainInfo, 0, len(zones.Result))
	for _, z := range zones.Result {
		out = append(out, DomainInfo{
			Domain: z.Name,
			Source: account.Label,
			Status: z.Status,
		})
	}
	return out, nil
}

func (c *apiClient) ensureTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}
