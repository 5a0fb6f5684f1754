package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/resend/resend-go/v2"
)

const emailSubject = "Domain expiry alert"

// EmailChannel delivers the alert as a plain-text email through Resend.
type EmailChannel struct {
	client *resend.Client
	from   string
	to     []string
}

func NewEmail(apiKey, from string, to []string, httpClient *http.Client) *EmailChannel {
	return &EmailChannel{
		client: resend.NewCustomClient(httpClient, apiKey),
		from:   from,
		to:     to,
	}
}

func (e *EmailChannel) Name() string { return "email" }

func (e *EmailChannel) Send(ctx context.Context, msg string) error {
	params := &resend.SendEmailRequest{
		From:    e.from,
		To:      e.to,
		Subject: emailSubject,
		Text:    PlainText(msg),
	}
	if _, err := e.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("email: send via resend: %w", err)
	}
	return nil
}

// PlainText drops the chat emphasis markers.
func PlainText(msg string) string {
	return strings.NewReplacer("**", "", "`", "").Replace(msg)
}
