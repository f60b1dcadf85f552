package core

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"revuverse-backend-go/internal/notify"
)

// phoneService backs the SMS utility endpoints with the configured channels.
type phoneService struct {
	sms      notify.SMSSender
	verifier notify.PhoneVerifier
	logger   *zap.Logger
}

// NewPhoneService creates a new PhoneService instance.
func NewPhoneService(sms notify.SMSSender, verifier notify.PhoneVerifier, logger *zap.Logger) PhoneService {
	return &phoneService{sms: sms, verifier: verifier, logger: logger}
}

func (s *phoneService) SendSMS(ctx context.Context, to, message string) (*notify.Receipt, error) {
	to, message = strings.TrimSpace(to), strings.TrimSpace(message)
	if to == "" || message == "" {
		return nil, newError(ErrValidation, "Phone number and message are required")
	}
	receipt, err := s.sms.SendSMS(ctx, to, message)
	if err != nil {
		s.logger.Error("Failed to send SMS", zap.Error(err))
		return nil, providerError(err)
	}
	return receipt, nil
}

func (s *phoneService) StartVerification(ctx context.Context, phoneNumber string) (*notify.Receipt, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		return nil, newError(ErrValidation, "Phone number is required")
	}
	receipt, err := s.verifier.StartVerification(ctx, phoneNumber)
	if err != nil {
		s.logger.Error("Failed to start phone verification", zap.Error(err))
		return nil, providerError(err)
	}
	return receipt, nil
}

func (s *phoneService) CheckVerification(ctx context.Context, phoneNumber, code string) (*notify.Receipt, error) {
	phoneNumber, code = strings.TrimSpace(phoneNumber), strings.TrimSpace(code)
	if phoneNumber == "" || code == "" {
		return nil, newError(ErrValidation, "Phone number and verification code are required")
	}
	receipt, err := s.verifier.CheckVerification(ctx, phoneNumber, code)
	if err != nil {
		s.logger.Error("Failed to check phone verification", zap.Error(err))
		return nil, providerError(err)
	}
	return receipt, nil
}

func (s *phoneService) Account(ctx context.Context) (*notify.Account, error) {
	if s.verifier == nil {
		return nil, providerError(errors.New("SMS provider is not configured"))
	}
	account, err := s.verifier.Account(ctx)
	if err != nil {
		return nil, providerError(err)
	}
	return account, nil
}
