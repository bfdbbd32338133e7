package service

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"

	"github.com/vocali/vocali-backend/config"
)

// Sender delivers confirmation and reset codes out-of-band.
type Sender interface {
	Send(ctx context.Context, email, code string) error
}

// LogSender writes codes to the log instead of sending them. Default
// outside production.
type LogSender struct{}

func (LogSender) Send(_ context.Context, email, code string) error {
	logrus.WithFields(logrus.Fields{
		"email": email,
		"code":  code,
	}).Info("Verification code issued")
	return nil
}

// ResendSender delivers codes via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (s *ResendSender) Send(ctx context.Context, email, code string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{email},
		Subject: "Your verification code",
		Html:    fmt.Sprintf("<p>Your verification code is <strong>%s</strong>. It expires in 10 minutes.</p>", code),
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// NewSender picks the sender for the configured email driver.
func NewSender(cfg config.EmailConfig) Sender {
	if cfg.Driver == config.EmailDriverResend {
		return NewResendSender(cfg.ResendAPIKey, cfg.From)
	}
	return LogSender{}
}
