package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"

	"github.com/caresync-app/caresync-api/internal/apperr"
	"github.com/caresync-app/caresync-api/internal/config"
)

type Mailgun struct {
	domain string
	apiKey string
	sender string
}

func NewMailgun(cfg *config.Config) *Mailgun {
	return &Mailgun{
		domain: cfg.MailgunDomain,
		apiKey: cfg.MailgunAPIKey,
		sender: cfg.MailSender,
	}
}

func (m *Mailgun) Send(ctx context.Context, to, subject, html string) error {
	client := mg.NewMailgun(m.domain, m.apiKey)
	msg := client.NewMessage(m.sender, subject, "", to)
	msg.SetHtml(html)

	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, _, err := client.Send(c, msg); err != nil {
		return apperr.Dependency("email delivery failed")
	}
	return nil
}

var _ Sender = (*Mailgun)(nil)
