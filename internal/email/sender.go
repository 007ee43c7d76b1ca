package email

import (
	"fmt"

	"feedinneed_backend/internal/logger"

	gomail "gopkg.in/gomail.v2"
)

// Config holds SMTP settings. Sending is disabled when Host is empty, which
// keeps development and test environments quiet.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Sender delivers transactional mail. All sends are best effort; callers
// never fail a request because SMTP is down.
type Sender interface {
	Send(to, subject, htmlBody string) error
	SendVerificationDecision(to, name string, approved bool, note string) error
	SendRequestApproved(to, name, donationTitle, confirmationCode string) error
	SendCertificateIssued(to, name, donationTitle, certificateNumber string) error
}

type GomailSender struct {
	config Config
	dialer *gomail.Dialer
}

func NewSender(cfg Config) *GomailSender {
	var dialer *gomail.Dialer
	if cfg.Host != "" {
		dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return &GomailSender{config: cfg, dialer: dialer}
}

func (s *GomailSender) Send(to, subject, htmlBody string) error {
	if s.dialer == nil {
		logger.Info("email sending disabled, skipping", "to", to, "subject", subject)
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.From, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *GomailSender) SendVerificationDecision(to, name string, approved bool, note string) error {
	subject := "Your Feed In Need account has been verified"
	body := fmt.Sprintf("<p>Hello %s,</p><p>Your account has been verified. You can now donate and request food on Feed In Need.</p>", name)
	if !approved {
		subject = "Your Feed In Need verification was declined"
		body = fmt.Sprintf("<p>Hello %s,</p><p>Your account verification was declined.</p>", name)
		if note != "" {
			body += fmt.Sprintf("<p>Reason: %s</p>", note)
		}
	}
	return s.Send(to, subject, body)
}

func (s *GomailSender) SendRequestApproved(to, name, donationTitle, confirmationCode string) error {
	subject := "Your food request was approved"
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your request for \"%s\" was approved.</p><p>Show this confirmation code at pickup: <strong>%s</strong></p>",
		name, donationTitle, confirmationCode)
	return s.Send(to, subject, body)
}

func (s *GomailSender) SendCertificateIssued(to, name, donationTitle, certificateNumber string) error {
	subject := "Thank you for your donation"
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your donation \"%s\" has reached someone in need.</p><p>Certificate number: <strong>%s</strong></p>",
		name, donationTitle, certificateNumber)
	return s.Send(to, subject, body)
}
