package notify

import (
	"errors"

	"go.uber.org/zap"

	"revuverse-backend-go/internal/config"
	"revuverse-backend-go/pkg/mailer"
)

// New selects the adapters for cfg. NOTIFY_MODE=mock routes everything to one Recorder.
// Missing credentials fall back to the Recorder outside production and fail startup in it.
func New(cfg *config.Config, logger *zap.Logger) (*Channels, error) {
	recorder := NewRecorder(logger)
	if cfg.NotifyMode == config.NotifyMock {
		logger.Warn("NOTIFY_MODE=mock: email and SMS are recorded, not delivered")
		return &Channels{Email: recorder, SMS: recorder, Verifier: recorder}, nil
	}

	channels := &Channels{}

	switch cfg.EmailProvider {
	case config.EmailMock:
		if cfg.IsProduction() {
			return nil, errors.New("EMAIL_PROVIDER=mock is not allowed in production")
		}
		channels.Email = recorder
	case config.EmailSMTP:
		if cfg.SMTPUsername == "" || cfg.SMTPPassword == "" {
			if cfg.IsProduction() {
				return nil, errors.New("SMTP credentials are required in production")
			}
			logger.Warn("SMTP credentials not configured, using mock email sender")
			channels.Email = recorder
			break
		}
		transport := mailer.New(mailer.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
		}, nil)
		channels.Email = NewSMTPSender(transport, logger)
	default:
		if cfg.SendGridAPIKey == "" {
			if cfg.IsProduction() {
				return nil, errors.New("SENDGRID_API_KEY is required in production")
			}
			logger.Warn("SendGrid API key not configured, using mock email sender")
			channels.Email = recorder
			break
		}
		channels.Email = NewSendGridSender(cfg.SendGridAPIKey, cfg.SendGridTemplateID, logger)
	}

	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" {
		if cfg.IsProduction() {
			return nil, errors.New("Twilio credentials are required in production")
		}
		logger.Warn("Twilio credentials not configured, using mock SMS sender")
		channels.SMS = recorder
		channels.Verifier = recorder
		return channels, nil
	}
	twilioSender := NewTwilioSender(TwilioConfig{
		AccountSID:       cfg.TwilioAccountSID,
		AuthToken:        cfg.TwilioAuthToken,
		VerifyServiceSID: cfg.TwilioVerifyServiceSID,
		FromNumber:       cfg.TwilioPhoneNumber,
	}, logger)
	channels.SMS = twilioSender
	channels.Verifier = twilioSender
	return channels, nil
}
