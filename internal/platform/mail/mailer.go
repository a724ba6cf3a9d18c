// Package mail sends transactional email over SMTP.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Message is a single outgoing email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Mailer dispatches messages. The digest job depends on this interface so
// tests can capture sends without a running SMTP server.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer talks to a plain SMTP endpoint (Mailpit in development).
type SMTPMailer struct {
	addr string
}

// NewSMTPMailer constructs a mailer for host:port.
func NewSMTPMailer(host string, port int) *SMTPMailer {
	return &SMTPMailer{addr: fmt.Sprintf("%s:%d", host, port)}
}

// Send delivers one message, fire and forget. Cancellation is honored only
// before the dial; net/smtp does not support mid-send aborts.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)

	if err := smtp.SendMail(m.addr, nil, msg.From, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("platform/mail: send: %w", err)
	}
	return nil
}

var _ Mailer = (*SMTPMailer)(nil)
