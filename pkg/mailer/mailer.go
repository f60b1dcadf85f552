// Package mailer sends email over SMTP. It defaults to Mailtrap (smtp.mailtrap.io:2525),
// which is useful for development and testing environments.
package mailer

import (
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
)

// SendFunc matches smtp.SendMail and can be replaced in tests.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Config holds the SMTP server and credentials.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
}

// Message is a single email. FromName is optional.
type Message struct {
	To       string
	From     string
	FromName string
	Subject  string
	Text     string
	HTML     string
}

// Mailer sends messages through one SMTP server.
type Mailer struct {
	cfg  Config
	send SendFunc
}

// New creates a Mailer. A nil send uses smtp.SendMail.
func New(cfg Config, send SendFunc) *Mailer {
	if send == nil {
		send = smtp.SendMail
	}
	return &Mailer{cfg: cfg, send: send}
}

// Send validates msg, builds the MIME body and hands it to the SMTP server.
func (m *Mailer) Send(msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("recipient email address cannot be empty")
	}
	if msg.From == "" {
		return fmt.Errorf("sender email address cannot be empty")
	}
	if msg.Subject == "" {
		return fmt.Errorf("email subject cannot be empty")
	}
	if m.cfg.Username == "" || m.cfg.Password == "" {
		return fmt.Errorf("SMTP username and password must be provided")
	}

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	if err := m.send(addr, auth, msg.From, []string{msg.To}, Build(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// Build renders msg as an RFC 5322 message. HTML wins over Text when both are set.
func Build(msg Message) []byte {
	contentType := "text/plain; charset=UTF-8"
	body := msg.Text
	if msg.HTML != "" {
		contentType = "text/html; charset=UTF-8"
		body = msg.HTML
	}
	from := headerValue(msg.From)
	if name := headerValue(msg.FromName); name != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", name), from)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", headerValue(msg.To))
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerValue(msg.Subject)))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s\r\n", contentType)
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// headerValue folds CR and LF into spaces so a value cannot start a new header line.
func headerValue(v string) string {
	return strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(v))
}
