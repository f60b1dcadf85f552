// Package notify holds the outbound email and SMS channel adapters. Every adapter is
// stateless apart from its vendor client and returns a provider Receipt or an error.
package notify

import (
	"context"
	"errors"
	"fmt"
)

// Fixed sender identity for every outgoing email.
const (
	FromEmail = "noreply@revuverse.com"
	FromName  = "Revuverse"
)

// Provider names reported on receipts.
const (
	ProviderSendGrid = "sendgrid"
	ProviderSMTP     = "smtp"
	ProviderTwilio   = "twilio"
	ProviderRecorder = "recorder"
)

// ErrDelivery marks every failure reported by a channel adapter.
var ErrDelivery = errors.New("notification delivery failed")

// DeliveryError carries the provider-facing message of a failed send. It matches ErrDelivery.
type DeliveryError struct {
	Message string
}

func (e *DeliveryError) Error() string { return e.Message }

func (e *DeliveryError) Is(target error) bool { return target == ErrDelivery }

func deliveryErrorf(format string, args ...interface{}) error {
	return &DeliveryError{Message: fmt.Sprintf(format, args...)}
}

// Receipt is what a provider hands back for an accepted message or verification.
type Receipt struct {
	Provider string `json:"provider"`
	SID      string `json:"sid"`
	Status   string `json:"status"`
	To       string `json:"to"`
	Body     string `json:"body,omitempty"`
}

// EmailMessage is a single email. When TemplateID is set the provider renders TemplateData,
// otherwise Text and HTML are sent as they are.
type EmailMessage struct {
	To           string
	ToName       string
	Subject      string
	Text         string
	HTML         string
	TemplateID   string
	TemplateData map[string]interface{}
}

// Account describes the SMS provider account the credentials belong to.
type Account struct {
	FriendlyName string `json:"friendlyName"`
	Status       string `json:"status"`
	Type         string `json:"type,omitempty"`
}

// EmailSender delivers one email.
type EmailSender interface {
	SendEmail(ctx context.Context, msg EmailMessage) (*Receipt, error)
}

// SMSSender delivers one text message.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) (*Receipt, error)
}

// PhoneVerifier runs the provider's one-time-code verification flow.
type PhoneVerifier interface {
	StartVerification(ctx context.Context, phoneNumber string) (*Receipt, error)
	CheckVerification(ctx context.Context, phoneNumber, code string) (*Receipt, error)
	Account(ctx context.Context) (*Account, error)
}

// NotificationSender is the capability the review request workflow dispatches through.
type NotificationSender interface {
	EmailSender
	SMSSender
}

// Channels bundles the adapters selected at startup.
type Channels struct {
	Email    EmailSender
	SMS      SMSSender
	Verifier PhoneVerifier
}

// SendEmail implements NotificationSender.
func (c *Channels) SendEmail(ctx context.Context, msg EmailMessage) (*Receipt, error) {
	return c.Email.SendEmail(ctx, msg)
}

// SendSMS implements NotificationSender.
func (c *Channels) SendSMS(ctx context.Context, to, body string) (*Receipt, error) {
	return c.SMS.SendSMS(ctx, to, body)
}
