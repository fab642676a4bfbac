package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	if from == "" {
		from = user
	}
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// Send delivers one plain-text message. Bodies are composed upstream (the
// orchestrator's draft step for invites, the LLM for outreach mails); this
// layer only owns SMTP.
func (s *EmailSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("SMTP send failed: %w", err)
	}

	return nil
}
