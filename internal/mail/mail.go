// Package mail sends transactional email over SMTP.
package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Sender delivers mail. Implementations must be safe for concurrent use.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// SMTPSender sends through a plain SMTP relay.
type SMTPSender struct {
	from   string
	dialer *gomail.Dialer
}

// NewSMTPSender constructs the sender.
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		from:   from,
		dialer: gomail.NewDialer(host, port, username, password),
	}
}

// Send delivers one HTML message.
func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
