// Package notify delivers confirmation codes to users.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"

	"go.uber.org/zap"
)

// Notifier sends a plain-text message to an email address.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends mail through an SMTP relay with PLAIN auth.
type SMTPMailer struct {
	host     string
	port     int
	from     string
	password string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(host string, port int, from, password string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, from: from, password: password, send: smtp.SendMail}
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	var auth smtp.Auth
	if m.password != "" {
		auth = smtp.PlainAuth("", m.from, m.password, m.host)
	}

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := m.host + ":" + strconv.Itoa(m.port)
	if err := m.send(addr, auth, m.from, []string{to}, message); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them. Used when
// no SMTP host is configured.
type LogMailer struct {
	l *zap.Logger
}

func NewLogMailer(l *zap.Logger) *LogMailer {
	return &LogMailer{l: l}
}

// Send logs the recipient and subject. The body can hold a confirmation code
// and is only written at debug level.
func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.l.Info("outgoing email", zap.String("to", to), zap.String("subject", subject))
	m.l.Debug("outgoing email body", zap.String("to", to), zap.String("body", body))
	return nil
}
