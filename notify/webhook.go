package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// WebhookChannel posts a JSON document to an incoming-webhook URL.
type WebhookChannel struct {
	name    string
	url     string
	client  *http.Client
	payload func(msg string) any
}

// NewDiscord posts {"content": msg} unchanged.
func NewDiscord(url string, client *http.Client) *WebhookChannel {
	return &WebhookChannel{
		name:   "discord",
		url:    url,
		client: client,
		payload: func(msg string) any {
			return map[string]string{"content": msg}
		},
	}
}

// NewSlack posts {"text": msg} with **bold** rewritten to Slack's *bold*.
func NewSlack(url string, client *http.Client) *WebhookChannel {
	return &WebhookChannel{
		name:   "slack",
		url:    url,
		client: client,
		payload: func(msg string) any {
			return map[string]string{"text": SlackMarkup(msg)}
		},
	}
}

func SlackMarkup(msg string) string {
	return strings.ReplaceAll(msg, "**", "*")
}

func (w *WebhookChannel) Name() string { return w.name }

func (w *WebhookChannel) Send(ctx context.Context, msg string) error {
	body, err := json.Marshal(w.payload(msg))
	if err != nil {
		return fmt.Errorf("%s: encode payload: %w", w.name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", w.name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", w.name, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: status %d: %s", w.name, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return nil
}
