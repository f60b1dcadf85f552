package notify

import (
	"context"
	"errors"

	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	twapi "github.com/twilio/twilio-go/rest/api/v2010"
	verify "github.com/twilio/twilio-go/rest/verify/v2"
	"go.uber.org/zap"
)

// Twilio error codes with a dedicated message.
const (
	twilioUnverifiedNumber   = 21608
	twilioVerifyInvalidPhone = 60200
)

const (
	msgTrialUnverified = "Trial account limitation: You can only send SMS to verified phone numbers. Please verify the recipient number in the Twilio console."
	msgTrialVerify     = "Trial account limitation: Invalid phone number format or number not verified. For trial accounts, you must verify the recipient phone number in the Twilio console."
)

// twilioAPI is the slice of the Twilio REST client used by TwilioSender.
type twilioAPI interface {
	CreateMessage(params *twapi.CreateMessageParams) (*twapi.ApiV2010Message, error)
	FetchAccount(sid string) (*twapi.ApiV2010Account, error)
	CreateVerification(serviceSid string, params *verify.CreateVerificationParams) (*verify.VerifyV2Verification, error)
	CreateVerificationCheck(serviceSid string, params *verify.CreateVerificationCheckParams) (*verify.VerifyV2VerificationCheck, error)
}

type restClientAPI struct {
	client *twilio.RestClient
}

func (r restClientAPI) CreateMessage(params *twapi.CreateMessageParams) (*twapi.ApiV2010Message, error) {
	return r.client.Api.CreateMessage(params)
}

func (r restClientAPI) FetchAccount(sid string) (*twapi.ApiV2010Account, error) {
	return r.client.Api.FetchAccount(sid)
}

func (r restClientAPI) CreateVerification(serviceSid string, params *verify.CreateVerificationParams) (*verify.VerifyV2Verification, error) {
	return r.client.VerifyV2.CreateVerification(serviceSid, params)
}

func (r restClientAPI) CreateVerificationCheck(serviceSid string, params *verify.CreateVerificationCheckParams) (*verify.VerifyV2VerificationCheck, error) {
	return r.client.VerifyV2.CreateVerificationCheck(serviceSid, params)
}

// TwilioConfig holds the account credentials and sender number.
type TwilioConfig struct {
	AccountSID       string
	AuthToken        string
	VerifyServiceSID string
	FromNumber       string
}

// TwilioSender implements SMSSender and PhoneVerifier on the Twilio REST API.
type TwilioSender struct {
	api    twilioAPI
	cfg    TwilioConfig
	logger *zap.Logger
}

// NewTwilioSender creates a sender authenticated with cfg.
func NewTwilioSender(cfg TwilioConfig, logger *zap.Logger) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioSender{api: restClientAPI{client: client}, cfg: cfg, logger: logger}
}

func (s *TwilioSender) SendSMS(ctx context.Context, to, body string) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.logger.Debug("Sending SMS", zap.String("to", to), zap.String("from", s.cfg.FromNumber))

	params := &twapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.cfg.FromNumber)
	params.SetBody(body)

	msg, err := s.api.CreateMessage(params)
	if err != nil {
		code := twilioErrorCode(err)
		s.logger.Error("Error sending SMS", zap.Int("code", code), zap.Error(err))
		if code == twilioUnverifiedNumber {
			return nil, deliveryErrorf("%s", msgTrialUnverified)
		}
		return nil, deliveryErrorf("Failed to send SMS message: %s", twilioErrorMessage(err))
	}
	return &Receipt{Provider: ProviderTwilio, SID: deref(msg.Sid), Status: deref(msg.Status), To: to, Body: body}, nil
}

func (s *TwilioSender) StartVerification(ctx context.Context, phoneNumber string) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.cfg.VerifyServiceSID == "" {
		return nil, deliveryErrorf("Failed to send verification code: TWILIO_VERIFY_SERVICE_SID is not configured")
	}

	params := &verify.CreateVerificationParams{}
	params.SetTo(phoneNumber)
	params.SetChannel("sms")

	v, err := s.api.CreateVerification(s.cfg.VerifyServiceSID, params)
	if err != nil {
		code := twilioErrorCode(err)
		s.logger.Error("Error sending verification code", zap.Int("code", code), zap.Error(err))
		if code == twilioVerifyInvalidPhone {
			return nil, deliveryErrorf("%s", msgTrialVerify)
		}
		return nil, deliveryErrorf("Failed to send verification code: %s", twilioErrorMessage(err))
	}
	return &Receipt{Provider: ProviderTwilio, SID: deref(v.Sid), Status: deref(v.Status), To: phoneNumber}, nil
}

func (s *TwilioSender) CheckVerification(ctx context.Context, phoneNumber, code string) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params := &verify.CreateVerificationCheckParams{}
	params.SetTo(phoneNumber)
	params.SetCode(code)

	check, err := s.api.CreateVerificationCheck(s.cfg.VerifyServiceSID, params)
	if err != nil {
		s.logger.Error("Error verifying code", zap.Int("code", twilioErrorCode(err)), zap.Error(err))
		return nil, deliveryErrorf("Failed to verify code: %s", twilioErrorMessage(err))
	}
	return &Receipt{Provider: ProviderTwilio, SID: deref(check.Sid), Status: deref(check.Status), To: phoneNumber}, nil
}

func (s *TwilioSender) Account(ctx context.Context) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	account, err := s.api.FetchAccount(s.cfg.AccountSID)
	if err != nil {
		return nil, deliveryErrorf("%s", twilioErrorMessage(err))
	}
	return &Account{FriendlyName: deref(account.FriendlyName), Status: deref(account.Status), Type: deref(account.Type)}, nil
}

func twilioErrorCode(err error) int {
	var restErr *twclient.TwilioRestError
	if errors.As(err, &restErr) {
		return restErr.Code
	}
	return 0
}

func twilioErrorMessage(err error) string {
	var restErr *twclient.TwilioRestError
	if errors.As(err, &restErr) && restErr.Message != "" {
		return restErr.Message
	}
	return err.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
