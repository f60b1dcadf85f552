package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// recorderHistoryLimit caps each history a Recorder keeps; older entries are dropped first.
const recorderHistoryLimit = 100

// Recorder stands in for every provider when credentials are absent outside production or
// NOTIFY_MODE=mock. It keeps the most recent messages so tests can inspect them.
type Recorder struct {
	mu            sync.Mutex
	emails        []EmailMessage
	sms           []Receipt
	verifications []Receipt
	logger        *zap.Logger
}

// NewRecorder creates an empty Recorder.
func NewRecorder(logger *zap.Logger) *Recorder {
	return &Recorder{logger: logger}
}

func (r *Recorder) SendEmail(_ context.Context, msg EmailMessage) (*Receipt, error) {
	r.mu.Lock()
	r.emails = appendCapped(r.emails, msg)
	r.mu.Unlock()
	r.logger.Info("MOCK EMAIL: would send email", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return &Receipt{Provider: ProviderRecorder, SID: "MOCK_SID", Status: "sent", To: msg.To}, nil
}

func (r *Recorder) SendSMS(_ context.Context, to, body string) (*Receipt, error) {
	receipt := Receipt{Provider: ProviderRecorder, SID: "MOCK_SID", Status: "sent", To: to, Body: body}
	r.mu.Lock()
	r.sms = appendCapped(r.sms, receipt)
	r.mu.Unlock()
	r.logger.Info("MOCK SMS: would send SMS", zap.String("to", to))
	return &receipt, nil
}

func (r *Recorder) StartVerification(_ context.Context, phoneNumber string) (*Receipt, error) {
	receipt := Receipt{Provider: ProviderRecorder, SID: "MOCK_VERIFICATION_SID", Status: "pending", To: phoneNumber}
	r.mu.Lock()
	r.verifications = appendCapped(r.verifications, receipt)
	r.mu.Unlock()
	r.logger.Info("MOCK VERIFY: would send verification code", zap.String("to", phoneNumber))
	return &receipt, nil
}

// CheckVerification approves every code.
func (r *Recorder) CheckVerification(_ context.Context, phoneNumber, _ string) (*Receipt, error) {
	return &Receipt{Provider: ProviderRecorder, SID: "MOCK_VERIFICATION_CHECK_SID", Status: "approved", To: phoneNumber}, nil
}

func (r *Recorder) Account(context.Context) (*Account, error) {
	return &Account{FriendlyName: "Mock Twilio Account", Status: "active", Type: "Trial"}, nil
}

// Emails returns a copy of the recorded emails.
func (r *Recorder) Emails() []EmailMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]EmailMessage(nil), r.emails...)
}

// SMS returns a copy of the recorded text messages.
func (r *Recorder) SMS() []Receipt {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Receipt(nil), r.sms...)
}

func appendCapped[T any](items []T, item T) []T {
	if len(items) >= recorderHistoryLimit {
		items = append(items[:0], items[len(items)-recorderHistoryLimit+1:]...)
	}
	return append(items, item)
}
