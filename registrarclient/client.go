package registrarclient

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"DomainWatch/config"
	"DomainWatch/tools"
)

// Client is the subset of registrar APIs the job needs.
type Client interface {
	ListDomains(ctx context.Context, registrar config.Registrar) ([]string, error)
	GetExpiry(ctx context.Context, registrar config.Registrar, domain string) (time.Time, error)
}

type apiClient struct {
	httpClient        *http.Client
	namecheapEndpoint string
	goDaddyEndpoint   string
}

const (
	defaultNamecheapEndpoint = "https://api.namecheap.com/xml.response"
	defaultGoDaddyEndpoint   = "https://api.godaddy.com"
)

// NewClient returns the default registrar API client.
func NewClient(timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &apiClient{
		httpClient:        &http.Client{Timeout: timeout},
		namecheapEndpoint: defaultNamecheapEndpoint,
		goDaddyEndpoint:   defaultGoDaddyEndpoint,
	}
}

var (
	ErrDomainNotFound       = errors.New("domain not found")
	ErrUnsupportedRegistrar = errors.New("unsupported registrar")
)

func (c *apiClient) ListDomains(ctx context.Context, registrar config.Registrar) ([]string, error) {
	switch strings.ToLower(strings.TrimSpace(registrar.Type)) {
	case "namecheap":
		if registrar.Namecheap == nil {
			return nil, fmt.Errorf("registrar %s: namecheap settings missing", registrar.Label)
		}
		return c.namecheapListDomains(ctx, *registrar.Namecheap)
	case "godaddy":
		if registrar.GoDaddy == nil {
			return nil, fmt.Errorf("registrar %s: godaddy settings missing", registrar.Label)
		}
		return c.goDaddyListDomains(ctx, *registrar.GoDaddy)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRegistrar, registrar.Type)
	}
}

func (c *apiClient) GetExpiry(ctx context.Context, registrar config.Registrar, domain string) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(registrar.Type)) {
	case "namecheap":
		if registrar.Namecheap == nil {
			return time.Time{}, fmt.Errorf("registrar %s: namecheap settings missing", registrar.Label)
		}
		return c.namecheapGetExpiry(ctx, *registrar.Namecheap, domain)
	case "godaddy":
		if registrar.GoDaddy == nil {
			return time.Time{}, fmt.Errorf("registrar %s: godaddy settings missing", registrar.Label)
		}
		return c.goDaddyGetExpiry(ctx, *registrar.GoDaddy, domain)
	default:
		return time.Time{}, fmt.Errorf("%w: %s", ErrUnsupportedRegistrar, registrar.Type)
	}
}

type namecheapResponse struct {
	Status          string                   `xml:"Status,attr"`
	Errors          namecheapErrors          `xml:"Errors"`
	CommandResponse namecheapCommandResponse `xml:"CommandResponse"`
}

type namecheapErrors struct {
	Items []namecheapError `xml:"Error"`
}

type namecheapError struct {
	Number  string `xml:"Number,attr"`
	Message string `xml:",chardata"`
}

type namecheapCommandResponse struct {
	DomainGetListResult namecheapDomainListResult    `xml:"DomainGetListResult"`
	DomainGetInfoResult namecheapDomainGetInfoResult `xml:"DomainGetInfoResult"`
}

type namecheapDomainGetInfoResult struct {
	DomainName    string                 `xml:"DomainName,attr"`
	DomainDetails namecheapDomainDetails `xml:"DomainDetails"`
}

type namecheapDomainDetails struct {
	ExpiredDate string `xml:"ExpiredDate"`
}

type namecheapDomainListResult struct {
	Domains []namecheapDomainListItem `xml:"Domain"`
}

type namecheapDomainListItem struct {
	Name    string `xml:"Name,attr"`
	Expires string `xml:"Expires,attr"`
}

func namecheapParams(cfg config.NamecheapConfig, command string) url.Values {
	params := url.Values{}
	params.Set("ApiUser", cfg.User)
	params.Set("ApiKey", cfg.APIKey)
	params.Set("UserName", cfg.User)
	params.Set("ClientIp", cfg.ClientIP)
	params.Set("Command", command)
	return params
}

func (c *apiClient) namecheapGetExpiry(ctx context.Context, cfg config.NamecheapConfig, domain string) (time.Time, error) {
	domain = strings.TrimSuffix(strings.TrimSpace(domain), ".")
	if domain == "" {
		return time.Time{}, fmt.Errorf("domain is empty")
	}

	params := namecheapParams(cfg, "namecheap.domains.getInfo")
	params.Set("DomainName", domain)

	data, err := c.namecheapRequest(ctx, params)
	if err != nil {
		return time.Time{}, err
	}
	resp, err := parseNamecheapResponse(data)
	if err != nil {
		return time.Time{}, err
	}

	exp := strings.TrimSpace(resp.CommandResponse.DomainGetInfoResult.DomainDetails.ExpiredDate)
	if exp == "" {
		return time.Time{}, fmt.Errorf("namecheap returned no ExpiredDate for %s", domain)
	}
	// Namecheap reports MM/DD/YYYY.
	t, err := time.Parse("01/02/2006", exp)
	if err != nil {
		return time.Time{}, fmt.Errorf("namecheap ExpiredDate %q: %w", exp, err)
	}
	return t.UTC(), nil
}

func (c *apiClient) namecheapListDomains(ctx context.Context, cfg config.NamecheapConfig) ([]string, error) {
	params := namecheapParams(cfg, "namecheap.domains.getList")
	params.Set("PageSize", "100")
	params.Set("Page", "1")

	data, err := c.namecheapRequest(ctx, params)
	if err != nil {
		return nil, err
	}
	resp, err := parseNamecheapResponse(data)
	if err != nil {
		return nil, err
	}
	domains := make([]string, 0, len(resp.CommandResponse.DomainGetListResult.Domains))
	for _, item := range resp.CommandResponse.DomainGetListResult.Domains {
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		domains = append(domains, item.Name)
	}
	return domains, nil
}

func (c *apiClient) namecheapRequest(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.namecheapEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("namecheap request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("namecheap request failed: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("namecheap read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("namecheap status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}

func parseNamecheapResponse(data []byte) (namecheapResponse, error) {
	var resp namecheapResponse
	if err := xml.Unmarshal(data, &resp); err != nil {
		return resp, fmt.Errorf("namecheap decode: %w", err)
	}

	if len(resp.Errors.Items) > 0 {
		var messages []string
		for _, item := range resp.Errors.Items {
			msg := strings.TrimSpace(item.Message)
			if msg == "" {
				continue
			}
			messages = append(messages, msg)
			if strings.Contains(strings.ToLower(msg), "domain not found") {
				return resp, ErrDomainNotFound
			}
		}
		return resp, fmt.Errorf("namecheap error: %s", strings.Join(messages, "; "))
	}
	if !strings.EqualFold(resp.Status, "OK") {
		return resp, fmt.Errorf("namecheap status %q", resp.Status)
	}
	return resp, nil
}

type goDaddyDomain struct {
	Domain  string `json:"domain"`
	Expires string `json:"expires"`
}

func (c *apiClient) goDaddyGetExpiry(ctx context.Context, cfg config.GoDaddyConfig, domain string) (time.Time, error) {
	var result goDaddyDomain
	if err := c.goDaddyGet(ctx, cfg, "/v1/domains/"+url.PathEscape(domain), &result); err != nil {
		return time.Time{}, err
	}
	if strings.TrimSpace(result.Expires) == "" {
		return time.Time{}, fmt.Errorf("godaddy returned no expires for %s", domain)
	}
	t, ok := tools.ParseDate(result.Expires)
	if !ok {
		return time.Time{}, fmt.Errorf("godaddy expires %q: unrecognised format", result.Expires)
	}
	return t, nil
}

func (c *apiClient) goDaddyListDomains(ctx context.Context, cfg config.GoDaddyConfig) ([]string, error) {
	var items []goDaddyDomain
	if err := c.goDaddyGet(ctx, cfg, "/v1/domains?limit=1000", &items); err != nil {
		return nil, err
	}
	domains := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Domain) == "" {
			continue
		}
		domains = append(domains, item.Domain)
	}
	return domains, nil
}

func (c *apiClient) goDaddyGet(ctx context.Context, cfg config.GoDaddyConfig, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.goDaddyEndpoint+path, nil)
	if err != nil {
		return fmt.Errorf("godaddy request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("sso-key %s:%s", cfg.APIKey, cfg.APISecret))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("godaddy request failed: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("godaddy read response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrDomainNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("godaddy status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("godaddy decode: %w", err)
	}
	return nil
}
