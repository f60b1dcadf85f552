package notify

import (
	"context"

	"go.uber.org/zap"

	"revuverse-backend-go/pkg/mailer"
)

// smtpTransport is satisfied by *mailer.Mailer.
type smtpTransport interface {
	Send(msg mailer.Message) error
}

// SMTPSender delivers email through a plain SMTP server. Provider templates are not
// available here, so Text and HTML must be filled in.
type SMTPSender struct {
	transport smtpTransport
	logger    *zap.Logger
}

// NewSMTPSender wraps transport.
func NewSMTPSender(transport smtpTransport, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{transport: transport, logger: logger}
}

func (s *SMTPSender) SendEmail(ctx context.Context, msg EmailMessage) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	err := s.transport.Send(mailer.Message{
		To:       msg.To,
		From:     FromEmail,
		FromName: FromName,
		Subject:  msg.Subject,
		Text:     msg.Text,
		HTML:     msg.HTML,
	})
	if err != nil {
		s.logger.Error("SMTP error", zap.String("to", msg.To), zap.Error(err))
		return nil, deliveryErrorf("%v", err)
	}
	return &Receipt{Provider: ProviderSMTP, Status: "sent", To: msg.To}, nil
}
