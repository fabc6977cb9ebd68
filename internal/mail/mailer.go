package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer delivers an HTML message to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type SMTPMailer struct {
	Addr string // host:port
	From string
	Auth smtp.Auth
}

func NewSMTPMailer(addr, from, user, password string) *SMTPMailer {
	m := &SMTPMailer{Addr: addr, From: from}
	if user != "" {
		host := addr
		if i := strings.IndexByte(addr, ':'); i >= 0 {
			host = addr[:i]
		}
		m.Auth = smtp.PlainAuth("", user, password, host)
	}
	return m
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(m.Addr, m.Auth, m.From, []string{to}, []byte(b.String()))
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
