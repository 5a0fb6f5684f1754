package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no config file is given; a missing file is not an error.
const DefaultPath = "config.yaml"

type FailurePolicy string

const (
	// FailureQuiet logs lookup failures and keeps them out of the alert batch.
	FailureQuiet FailurePolicy = "quiet"
	// FailureStrict adds a "could not check" entry per failed domain.
	FailureStrict FailurePolicy = "strict"
)

type Config struct {
	Domains            Domains       `yaml:"domains"`
	Schedule           Schedule      `yaml:"schedule"`
	FailurePolicy      FailurePolicy `yaml:"failurePolicy"`
	Lookup             Lookup        `yaml:"lookup"`
	Channels           Channels      `yaml:"channels"`
	CloudflareAccounts []CF          `yaml:"cloudflareAccounts"`
	Registrars         []Registrar   `yaml:"registrars"`
	Metrics            Metrics       `yaml:"metrics"`
}

type Domains struct {
	// List is a multi-line string, one domain per line.
	List  string   `yaml:"list"`
	Files []string `yaml:"files"`
}

type Schedule struct {
	SpecificDays []int `yaml:"specificDays"`
	DailyWindow  int   `yaml:"dailyWindow"`
}

type Lookup struct {
	QueryTimeout time.Duration `yaml:"queryTimeout"`
	RateLimit    time.Duration `yaml:"rateLimit"`
}

type Channels struct {
	Telegram Telegram      `yaml:"telegram"`
	Discord  Webhook       `yaml:"discord"`
	Slack    Webhook       `yaml:"slack"`
	Email    Email         `yaml:"email"`
	Timeout  time.Duration `yaml:"timeout"`
	Retries  int           `yaml:"retries"`
}

type Telegram struct {
	BotToken string `yaml:"botToken"`
	// ChatID is a numeric chat id or an @channel username.
	ChatID string `yaml:"chatID"`
}

func (t Telegram) Configured() bool {
	return strings.TrimSpace(t.BotToken) != "" && strings.TrimSpace(t.ChatID) != ""
}

type Webhook struct {
	URL string `yaml:"webhookURL"`
}

func (w Webhook) Configured() bool {
	return strings.TrimSpace(w.URL) != ""
}

type Email struct {
	APIKey string   `yaml:"apiKey"`
	From   string   `yaml:"from"`
	To     []string `yaml:"to"`
}

func (e Email) Configured() bool {
	return strings.TrimSpace(e.APIKey) != "" && strings.TrimSpace(e.From) != "" && len(e.To) > 0
}

type CF struct {
	Label     string `yaml:"label"`
	APIToken  string `yaml:"apiToken"`
	AccountID string `yaml:"accountID"`
}

type Registrar struct {
	Label     string           `yaml:"label"`
	Type      string           `yaml:"type"`
	Namecheap *NamecheapConfig `yaml:"namecheap"`
	GoDaddy   *GoDaddyConfig   `yaml:"godaddy"`
}

type NamecheapConfig struct {
	User     string `yaml:"user"`
	APIKey   string `yaml:"apiKey"`
	ClientIP string `yaml:"clientIP"`
}

type GoDaddyConfig struct {
	APIKey    string `yaml:"apiKey"`
	APISecret string `yaml:"apiSecret"`
}

type Metrics struct {
	PushgatewayURL string `yaml:"pushgatewayURL"`
	Job            string `yaml:"job"`
}

// Default returns the settings used when neither the file nor the environment override them.
func Default() Config {
	return Config{
		Schedule: Schedule{
			SpecificDays: []int{60, 45, 30, 15},
			DailyWindow:  7,
		},
		FailurePolicy: FailureQuiet,
		Lookup: Lookup{
			QueryTimeout: 15 * time.Second,
			RateLimit:    time.Second,
		},
		Channels: Channels{
			Timeout: 10 * time.Second,
			Retries: 2,
		},
		Metrics: Metrics{Job: "domain_expiry"},
	}
}

// Load builds the run configuration: defaults, then the YAML file, then .env
// and process environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides cfg with the variables understood by the job.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup("DOMAINS_LIST"); ok && strings.TrimSpace(v) != "" {
		cfg.Domains.List = v
	}
	if v, ok := lookup("DOMAINS_FILE"); ok && strings.TrimSpace(v) != "" {
		cfg.Domains.Files = splitList(v)
	}

	str("TELEGRAM_BOT_TOKEN", &cfg.Channels.Telegram.BotToken)
	str("TELEGRAM_CHAT_ID", &cfg.Channels.Telegram.ChatID)
	str("DISCORD_WEBHOOK_URL", &cfg.Channels.Discord.URL)
	str("SLACK_WEBHOOK_URL", &cfg.Channels.Slack.URL)
	str("RESEND_API_KEY", &cfg.Channels.Email.APIKey)
	str("ALERT_EMAIL_FROM", &cfg.Channels.Email.From)
	if v, ok := lookup("ALERT_EMAIL_TO"); ok && strings.TrimSpace(v) != "" {
		cfg.Channels.Email.To = splitList(v)
	}
	str("PUSHGATEWAY_URL", &cfg.Metrics.PushgatewayURL)

	if v, ok := lookup("FAILURE_POLICY"); ok && strings.TrimSpace(v) != "" {
		cfg.FailurePolicy = FailurePolicy(strings.ToLower(strings.TrimSpace(v)))
	}

	if v, ok := lookup("NOTIFY_SPECIFIC_DAYS"); ok && strings.TrimSpace(v) != "" {
		var days []int
		for _, item := range splitList(v) {
			d, err := strconv.Atoi(item)
			if err != nil {
				return fmt.Errorf("NOTIFY_SPECIFIC_DAYS: invalid day %q: %w", item, err)
			}
			days = append(days, d)
		}
		cfg.Schedule.SpecificDays = days
	}
	if v, ok := lookup("NOTIFY_DAILY_BEFORE_DAYS"); ok && strings.TrimSpace(v) != "" {
		d, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("NOTIFY_DAILY_BEFORE_DAYS: %w", err)
		}
		cfg.Schedule.DailyWindow = d
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Schedule.DailyWindow < 0 {
		return fmt.Errorf("schedule.dailyWindow must be >= 0, got %d", c.Schedule.DailyWindow)
	}
	switch c.FailurePolicy {
	case FailureQuiet, FailureStrict:
	case "":
		c.FailurePolicy = FailureQuiet
	default:
		return fmt.Errorf("unknown failurePolicy %q (want %q or %q)", c.FailurePolicy, FailureQuiet, FailureStrict)
	}
	if c.Lookup.QueryTimeout <= 0 {
		return fmt.Errorf("lookup.queryTimeout must be positive")
	}
	if c.Channels.Timeout <= 0 {
		return fmt.Errorf("channels.timeout must be positive")
	}
	if c.Channels.Retries < 0 {
		c.Channels.Retries = 0
	}
	for _, r := range c.Registrars {
		if strings.TrimSpace(r.Label) == "" {
			return fmt.Errorf("registrar without label (type %q)", r.Type)
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' }) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
