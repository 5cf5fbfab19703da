// Package email delivers subscription notifications over SMTP.
package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/loam-dev/loam/internal/domain/notification"
	"github.com/loam-dev/loam/internal/shared/logger"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	BaseURL     string // Base URL for email links (e.g., "https://app.loam.dev")
}

// RecipientResolver maps a user ID to a deliverable address. The user
// directory lives outside this service; callers plug in their lookup.
type RecipientResolver interface {
	EmailForUser(ctx context.Context, userID uint) (string, error)
}

// SMTPNotifier implements notification.Notifier over SMTP.
type SMTPNotifier struct {
	config   SMTPConfig
	dialer   *gomail.Dialer
	resolver RecipientResolver
	logger   logger.Interface
}

func NewSMTPNotifier(config SMTPConfig, resolver RecipientResolver, logger logger.Interface) *SMTPNotifier {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPNotifier{
		config:   config,
		dialer:   dialer,
		resolver: resolver,
		logger:   logger,
	}
}

func (s *SMTPNotifier) Notify(ctx context.Context, userID uint, kind notification.Kind, payload map[string]string) error {
	to, err := s.resolver.EmailForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient: %w", err)
	}

	subject, htmlBody, plainBody := s.render(kind, payload)
	if err := s.sendEmail(to, subject, htmlBody, plainBody); err != nil {
		return err
	}

	s.logger.Infow("notification email sent", "user_id", userID, "kind", string(kind))
	return nil
}

func (s *SMTPNotifier) render(kind notification.Kind, payload map[string]string) (subject, htmlBody, plainBody string) {
	renewURL := fmt.Sprintf("%s/subscription", s.config.BaseURL)
	endDate := payload["end_date"]

	switch kind {
	case notification.KindExpiryWarning:
		subject = "Your subscription is about to expire"
		htmlBody = fmt.Sprintf(`
		<html>
		<body>
			<h2>Subscription Expiring Soon</h2>
			<p>Your subscription ends on %s.</p>
			<p>To keep your site online, renew before the end date:</p>
			<p><a href="%s">Renew Subscription</a></p>
		</body>
		</html>
	`, endDate, renewURL)
		plainBody = fmt.Sprintf(`
Subscription Expiring Soon

Your subscription ends on %s.

To keep your site online, renew before the end date:
%s
	`, endDate, renewURL)
	case notification.KindExpired:
		subject = "Your subscription has expired"
		htmlBody = fmt.Sprintf(`
		<html>
		<body>
			<h2>Subscription Expired</h2>
			<p>Your subscription ended on %s and your site is no longer accessible to visitors.</p>
			<p>Renew now to restore access:</p>
			<p><a href="%s">Renew Subscription</a></p>
		</body>
		</html>
	`, endDate, renewURL)
		plainBody = fmt.Sprintf(`
Subscription Expired

Your subscription ended on %s and your site is no longer accessible to visitors.

Renew now to restore access:
%s
	`, endDate, renewURL)
	default:
		subject = "Subscription notice"
		plainBody = fmt.Sprintf("Subscription notice for term ending %s.", endDate)
		htmlBody = fmt.Sprintf("<html><body><p>%s</p></body></html>", plainBody)
	}

	return subject, htmlBody, plainBody
}

func (s *SMTPNotifier) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.config.FromAddress, s.config.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
