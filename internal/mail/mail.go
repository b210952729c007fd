// Package mail delivers shopper feedback to the operations inbox.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/jaolave/ml-challenge-frontend/internal/config"
)

// Sender delivers one message to the feedback inbox.
type Sender interface {
	Send(ctx context.Context, subject, body string) error
}

// client is the slice of the sendgrid client we call, split out so tests can
// fake the wire.
type client interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

// New builds the feedback sender. With mocks enabled or no API key
// configured, messages go to the log instead of the wire.
func New(cfg *config.Config) Sender {
	if cfg.Mocks.Enable || strings.TrimSpace(cfg.Mail.SendGridAPIKey) == "" {
		return &logSender{}
	}
	return &sendgridSender{
		client: sendgrid.NewSendClient(cfg.Mail.SendGridAPIKey),
		from:   sgmail.NewEmail("Storefront", cfg.Mail.From),
		to:     sgmail.NewEmail("Feedback", cfg.Mail.FeedbackTo),
	}
}

type sendgridSender struct {
	client client
	from   *sgmail.Email
	to     *sgmail.Email
}

func (s *sendgridSender) Send(ctx context.Context, subject, body string) error {
	message := sgmail.NewSingleEmail(s.from, subject, s.to, body, body)
	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send feedback mail: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected feedback mail: status %d: %s",
			response.StatusCode, strings.TrimSpace(response.Body))
	}
	slog.InfoContext(ctx, "feedback mail sent", "status", response.StatusCode)
	return nil
}

type logSender struct{}

func (s *logSender) Send(ctx context.Context, subject, body string) error {
	slog.InfoContext(ctx, "feedback received", "subject", subject, "body", body)
	return nil
}
