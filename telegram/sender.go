package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotSender posts alerts to a chat through the Telegram Bot API using
// MarkdownV2, with a small retry and a per-attempt timeout.
type BotSender struct {
	bot        *tgbotapi.BotAPI
	chatID     int64
	channel    string
	retryTimes int
	timeout    time.Duration
	backoff    time.Duration
}

type Option func(*BotSender)

// WithEndpoint overrides the Bot API endpoint format ("https://host/bot%s/%s").
func WithEndpoint(endpoint string) Option {
	return func(s *BotSender) { s.bot.SetAPIEndpoint(endpoint) }
}

func WithHTTPClient(client *http.Client) Option {
	return func(s *BotSender) { s.bot.Client = client }
}

func WithBackoff(d time.Duration) Option {
	return func(s *BotSender) { s.backoff = d }
}

// NewBotSender builds a sender for chatID, which is either a numeric chat id
// or an @channel username. No request is made until the first Send.
func NewBotSender(token, chatID string, retryTimes int, timeout time.Duration, opts ...Option) (*BotSender, error) {
	token = strings.TrimSpace(token)
	chatID = strings.TrimSpace(chatID)
	if token == "" {
		return nil, errors.New("telegram token is empty")
	}
	if chatID == "" {
		return nil, errors.New("telegram chat id is empty")
	}

	bot := &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: timeout},
		Buffer: 100,
	}
	bot.SetAPIEndpoint(tgbotapi.APIEndpoint)

	sender := &BotSender{
		bot:        bot,
		retryTimes: retryTimes,
		timeout:    timeout,
		backoff:    200 * time.Millisecond,
	}
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		sender.chatID = id
	} else {
		sender.channel = chatID
	}
	for _, opt := range opts {
		opt(sender)
	}
	return sender, nil
}

func (s *BotSender) Name() string { return "telegram" }

const (
	// tgMaxRunes is the Bot API limit on message text.
	tgMaxRunes = 4096
	// tgPartRunes leaves room for the "(i/n)" part header.
	tgPartRunes = 4000
)

// Send escapes msg for MarkdownV2, splits the escaped text into parts that
// fit the Bot API limit and sends them in order.
func (s *BotSender) Send(ctx context.Context, msg string) error {
	parts := splitTelegramText(EscapeMarkdownV2(msg), tgPartRunes)
	for i, p := range parts {
		if len(parts) > 1 {
			p = EscapeMarkdownV2(fmt.Sprintf("(%d/%d)", i+1, len(parts))) + "\n" + p
		}
		if err := s.sendWithRetry(ctx, s.newMessage(p)); err != nil {
			return err
		}
	}
	return nil
}

func (s *BotSender) newMessage(text string) tgbotapi.MessageConfig {
	var msg tgbotapi.MessageConfig
	if s.channel != "" {
		msg = tgbotapi.NewMessageToChannel(s.channel, text)
	} else {
		msg = tgbotapi.NewMessage(s.chatID, text)
	}
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true
	return msg
}

var markdownV2Escaper = strings.NewReplacer(
	`\`, `\\`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"~", `\~`,
	">", `\>`,
	"#", `\#`,
	"+", `\+`,
	"=", `\=`,
	"|", `\|`,
	"{", `\{`,
	"}", `\}`,
	".", `\.`,
	"!", `\!`,
	"-", `\-`,
	"(", `\(`,
	")", `\)`,
)

// EscapeMarkdownV2 turns **bold** into MarkdownV2 *bold* and backslash-escapes
// the reserved characters. '*' and '`' are kept as markup.
func EscapeMarkdownV2(s string) string {
	return markdownV2Escaper.Replace(strings.ReplaceAll(s, "**", "*"))
}

// splitTelegramText cuts already escaped text into parts of at most limit
// runes. A part never ends inside a "\\x" escape pair or a multi-byte rune.
func splitTelegramText(s string, limit int) []string {
	s = strings.TrimSpace(s)
	var out []string
	for utf8.RuneCountInString(s) > limit {
		end := runeOffset(s, limit)
		head := s[:end]

		// prefer a line break, then a space, then a hard cut
		cut := strings.LastIndex(head, "\n")
		if cut < len(head)/3 {
			cut = strings.LastIndex(head, " ")
		}
		if cut <= 0 {
			cut = end
		}
		for cut > 1 && danglingEscape(s[:cut]) {
			cut--
		}

		if part := strings.TrimSpace(s[:cut]); part != "" {
			out = append(out, part)
		}
		s = strings.TrimSpace(s[cut:])
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}

// runeOffset returns the byte offset just past the first n runes of s.
func runeOffset(s string, n int) int {
	for i := range s {
		if n == 0 {
			return i
		}
		n--
	}
	return len(s)
}

// danglingEscape reports whether s ends with an unpaired backslash.
func danglingEscape(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

func (s *BotSender) sendWithRetry(ctx context.Context, msg tgbotapi.MessageConfig) error {
	var lastErr error
	for attempt := 0; attempt <= s.retryTimes; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * s.backoff):
			}
		}

		sendCtx := ctx
		cancel := func() {}
		if s.timeout > 0 {
			sendCtx, cancel = context.WithTimeout(ctx, s.timeout)
		}

		result := make(chan error, 1)
		go func() {
			_, err := s.bot.Send(msg)
			result <- err
		}()

		select {
		case <-sendCtx.Done():
			lastErr = fmt.Errorf("telegram send timed out: %w", sendCtx.Err())
		case err := <-result:
			if err == nil {
				cancel()
				return nil
			}
			lastErr = fmt.Errorf("telegram send failed: %s", s.redact(err.Error()))
		}
		cancel()
	}
	return lastErr
}

// redact keeps the bot token out of error messages and logs.
func (s *BotSender) redact(text string) string {
	return strings.ReplaceAll(text, s.bot.Token, "<token>")
}
