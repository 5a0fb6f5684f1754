package notify

import (
	"net/http"

	"DomainWatch/config"
	"DomainWatch/telegram"

	"go.uber.org/zap"
)

// FromConfig registers every channel whose credentials are complete, in the
// order telegram, discord, slack, email. Incomplete channels are skipped.
func FromConfig(cfg config.Channels, logger *zap.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := &http.Client{Timeout: cfg.Timeout}

	var channels []Channel
	if cfg.Telegram.Configured() {
		sender, err := telegram.NewBotSender(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Retries, cfg.Timeout,
			telegram.WithHTTPClient(client))
		if err != nil {
			return nil, err
		}
		channels = append(channels, sender)
	}
	if cfg.Discord.Configured() {
		channels = append(channels, NewDiscord(cfg.Discord.URL, client))
	}
	if cfg.Slack.Configured() {
		channels = append(channels, NewSlack(cfg.Slack.URL, client))
	}
	if cfg.Email.Configured() {
		channels = append(channels, NewEmail(cfg.Email.APIKey, cfg.Email.From, cfg.Email.To, client))
	}

	d := NewDispatcher(logger, channels...)
	logger.Info("notification channels", zap.Strings("channels", d.Channels()))
	return d, nil
}
