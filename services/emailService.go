package services

import (
	"crypto/tls"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shariquenadim/Jio-EVA-auth/config"
	"gopkg.in/gomail.v2"
)

// EmailService delivers verification links, OTP codes and reset links via
// the configured relay. Fire-and-forget: no retry, no delivery
// confirmation; a failure is logged and surfaced to the caller.
type EmailService struct {
	cfg config.Config
}

func NewEmailService(cfg config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

// Send dispatches one HTML email through the configured provider.
func (es *EmailService) Send(to, subject, htmlBody string) error {
	switch es.cfg.EmailProvider {
	case "sendgrid":
		return es.sendSendGrid(to, subject, htmlBody)
	case "smtp":
		return es.sendSMTP(to, subject, htmlBody)
	default:
		return es.sendSMTP(to, subject, htmlBody)
	}
}

func (es *EmailService) sendSMTP(to, subject, htmlBody string) error {
	if es.cfg.SMTPHost == "" || es.cfg.SMTPUser == "" {
		return fmt.Errorf("SMTP environment variables not fully configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", es.cfg.SMTPUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(es.cfg.SMTPHost, es.cfg.SMTPPort, es.cfg.SMTPUser, es.cfg.SMTPPass)
	d.TLSConfig = &tls.Config{
		ServerName: es.cfg.SMTPHost,
	}

	if err := d.DialAndSend(m); err != nil {
		log.Printf("[EmailService-SMTP] Send error: %v", err)
		return err
	}
	return nil
}

func (es *EmailService) sendSendGrid(to, subject, htmlBody string) error {
	if es.cfg.SendGridKey == "" || es.cfg.SenderEmail == "" {
		return fmt.Errorf("SENDGRID_API_KEY and SENDER_EMAIL must be set")
	}

	from := mail.NewEmail(es.cfg.SenderName, es.cfg.SenderEmail)
	toEmail := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, toEmail, htmlBody, htmlBody)
	client := sendgrid.NewSendClient(es.cfg.SendGridKey)

	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("SendGrid API error, status code: %d, body: %s", response.StatusCode, response.Body)
}
