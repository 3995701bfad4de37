package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendAbuseEscalation(toEmail, memberPhone, message string) error
	SendIngestFailure(toEmail, resourceTitle, reason string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

// SendAbuseEscalation notifies the workspace admin when a member's message
// was classified abusive. The assistant has already deflected; this is the
// human follow-up channel.
func (s *emailService) SendAbuseEscalation(toEmail, memberPhone, message string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Assistant flagged an abusive message")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Abusive message flagged</h2>
			<p>The assistant deflected a message from <strong>%s</strong>:</p>
			<blockquote style="border-left: 3px solid #ccc; padding-left: 10px; color: #555;">%s</blockquote>
			<p>No reply beyond the standard deflection was sent. You may want to follow up with this member.</p>
		</div>
	`, memberPhone, message)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send abuse escalation to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Abuse escalation sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendIngestFailure(toEmail, resourceTitle, reason string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Resource indexing failed")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Resource indexing failed</h2>
			<p>The resource <strong>%s</strong> could not be embedded:</p>
			<p>%s</p>
			<p>It will not appear in assistant answers until it is re-submitted.</p>
		</div>
	`, resourceTitle, reason)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send ingest failure to %s: %v\n", toEmail, err)
		return err
	}
	return nil
}
