package services

import (
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"ydadvisory/internal/models"
	"ydadvisory/internal/valuation"
)

type EmailService interface {
	SendContactNotification(c *models.Contact) error
	SendValuationReport(s valuation.Submission, mailto string) error
	SendNewsletterWelcome(sub *models.Subscription, unsubscribeURL string) error
}

// Mailer is the part of gomail.Dialer the service needs.
type Mailer interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	mailer Mailer
	from   string
	notify string
	log    *zap.Logger
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail, notifyEmail string, log *zap.Logger) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return NewEmailServiceWithMailer(dialer, fromEmail, notifyEmail, log)
}

func NewEmailServiceWithMailer(m Mailer, fromEmail, notifyEmail string, log *zap.Logger) EmailService {
	if log == nil {
		log = zap.NewNop()
	}
	return &emailService{mailer: m, from: fromEmail, notify: notifyEmail, log: log}
}

func (s *emailService) SendContactNotification(c *models.Contact) error {
	if s.notify == "" {
		s.log.Debug("contact notification skipped: no notify address")
		return nil
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.notify)
	m.SetHeader("Reply-To", c.Email)
	subject := c.Subject
	if subject == "" {
		subject = "New enquiry"
	}
	m.SetHeader("Subject", "[Contact] "+subject)

	body := fmt.Sprintf(`
		<h3>New enquiry from %s</h3>
		<p><strong>Email:</strong> %s<br>
		<strong>Phone:</strong> %s<br>
		<strong>Company:</strong> %s<br>
		<strong>Service:</strong> %s</p>
		<p>%s</p>
	`, html.EscapeString(c.Name), html.EscapeString(c.Email), html.EscapeString(c.Phone),
		html.EscapeString(c.Company), html.EscapeString(c.Service),
		strings.ReplaceAll(html.EscapeString(c.Message), "\n", "<br>"))
	m.SetBody("text/html", body)

	if err := s.mailer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send contact notification: %w", err)
	}
	return nil
}

// SendValuationReport delivers a report whose form submission failed. The
// plain-text body is the same text the mailto link carries.
func (s *emailService) SendValuationReport(sub valuation.Submission, mailto string) error {
	if s.notify == "" {
		return fmt.Errorf("failed to send valuation report: no notify address")
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.notify)
	if sub.CC != "" {
		m.SetHeader("Cc", sub.CC)
	}
	if sub.ReplyTo != "" {
		m.SetHeader("Reply-To", sub.ReplyTo)
	}
	m.SetHeader("Subject", sub.Subject)
	m.SetBody("text/plain", sub.Message)
	if mailto != "" {
		m.AddAlternative("text/html", fmt.Sprintf(`<pre>%s</pre><p><a href="%s">Reply by email</a></p>`,
			html.EscapeString(sub.Message), html.EscapeString(mailto)))
	}

	if err := s.mailer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send valuation report: %w", err)
	}
	return nil
}

func (s *emailService) SendNewsletterWelcome(sub *models.Subscription, unsubscribeURL string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", sub.Email)
	m.SetHeader("Subject", "Welcome to the YD Advisory newsletter")

	name := sub.Name
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf(`
		<h2>Hi %s,</h2>
		<p>Thanks for subscribing. You will hear from us when we publish new insights on valuation,
		fundraising and M&amp;A.</p>
		<p><a href="%s">Unsubscribe</a></p>
	`, html.EscapeString(name), html.EscapeString(unsubscribeURL))
	m.SetBody("text/html", body)

	if err := s.mailer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send newsletter welcome: %w", err)
	}
	return nil
}
