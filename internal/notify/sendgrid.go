package notify

import (
	"context"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// sendgridClient is the part of *sendgrid.Client the adapter uses.
type sendgridClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSender sends email through the SendGrid v3 API.
type SendGridSender struct {
	client     sendgridClient
	templateID string
	logger     *zap.Logger
}

// NewSendGridSender creates a sender for apiKey. templateID is used for messages that do
// not carry their own.
func NewSendGridSender(apiKey, templateID string, logger *zap.Logger) *SendGridSender {
	return &SendGridSender{client: sendgrid.NewSendClient(apiKey), templateID: templateID, logger: logger}
}

func (s *SendGridSender) SendEmail(ctx context.Context, msg EmailMessage) (*Receipt, error) {
	response, err := s.client.SendWithContext(ctx, s.build(msg))
	if err != nil {
		s.logger.Error("SendGrid error", zap.String("to", msg.To), zap.Error(err))
		return nil, deliveryErrorf("%v", err)
	}
	if response.StatusCode >= 400 {
		s.logger.Error("SendGrid API error",
			zap.Int("status_code", response.StatusCode),
			zap.String("body", response.Body),
		)
		return nil, deliveryErrorf("failed to send email, status code: %d", response.StatusCode)
	}

	receipt := &Receipt{Provider: ProviderSendGrid, Status: "accepted", To: msg.To}
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		receipt.SID = ids[0]
	}
	s.logger.Debug("Email sent", zap.String("to", msg.To), zap.Int("status_code", response.StatusCode))
	return receipt, nil
}

func (s *SendGridSender) build(msg EmailMessage) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(FromName, FromEmail))

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(msg.ToName, msg.To))
	p.Subject = msg.Subject

	templateID := msg.TemplateID
	if templateID == "" {
		templateID = s.templateID
	}
	if templateID != "" {
		m.SetTemplateID(templateID)
		for k, v := range msg.TemplateData {
			p.SetDynamicTemplateData(k, v)
		}
	} else {
		m.Subject = msg.Subject
		if msg.Text != "" {
			m.AddContent(mail.NewContent("text/plain", msg.Text))
		}
		if msg.HTML != "" {
			m.AddContent(mail.NewContent("text/html", msg.HTML))
		}
	}
	m.AddPersonalizations(p)
	return m
}
