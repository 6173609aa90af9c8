package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"

	"github.com/lafayette-apps/sticky-atc/internal/pkg/env"
)

// Mailer sends operator notification emails.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// postmarkMailer sends email through the Postmark transactional API.
type postmarkMailer struct {
	client *postmark.Client
	from   string
}

// NewPostmarkMailerFromEnv builds a mailer from environment configuration.
// Returns an error when the server token or sender address is missing so the
// sweep job fails loudly instead of silently skipping notifications.
func NewPostmarkMailerFromEnv() (Mailer, error) {
	serverToken := env.GetEnv("POSTMARK_SERVER_TOKEN", "")
	accountToken := env.GetEnv("POSTMARK_ACCOUNT_TOKEN", "")
	from := env.GetEnv("SWEEP_FROM_EMAIL", "noreply@lafayette-app.com")

	if serverToken == "" {
		return nil, errors.New("POSTMARK_SERVER_TOKEN is not configured")
	}

	return &postmarkMailer{
		client: postmark.NewClient(serverToken, accountToken),
		from:   from,
	}, nil
}

func (m *postmarkMailer) Send(ctx context.Context, to, subject, body string) error {
	resp, err := m.client.SendEmail(ctx, postmark.Email{
		From:     m.from,
		To:       to,
		Subject:  subject,
		TextBody: body,
	})
	if err != nil {
		return fmt.Errorf("postmark send failed: %w", err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("postmark send failed: %d - %s", resp.ErrorCode, resp.Message)
	}
	return nil
}
