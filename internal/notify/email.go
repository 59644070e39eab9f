package notify

import (
	"context"
	"fmt"

	"github.com/go-gomail/gomail"

	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

type Mailer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailSink mails patient notices. Role notices, malformed addresses and
// addresses whose domain fails the domain check are skipped.
type EmailSink struct {
	mailer      Mailer
	from        string
	siteURL     string
	domainCheck func(email string) bool
}

// NewEmailSink sends over SMTP and skips addresses whose domain has no MX or
// A record.
func NewEmailSink(host string, port int, user, password, from, siteURL string) *EmailSink {
	return NewEmailSinkWithMailer(gomail.NewDialer(host, port, user, password), from, siteURL).
		WithDomainCheck(validators.IsEmailDomainValid)
}

func NewEmailSinkWithMailer(m Mailer, from, siteURL string) *EmailSink {
	return &EmailSink{mailer: m, from: from, siteURL: siteURL}
}

func (s *EmailSink) WithDomainCheck(check func(email string) bool) *EmailSink {
	s.domainCheck = check
	return s
}

func (s *EmailSink) Deliver(ctx context.Context, n Notice) error {
	if n.UserID == 0 || !validators.IsEmailSyntaxValid(n.Email) {
		return nil
	}
	if s.domainCheck != nil && !s.domainCheck(n.Email) {
		logger.Warn("email domain does not resolve, skipping", "type", n.Type, "user_id", n.UserID)
		return nil
	}

	body := n.Message
	if n.ActionURL != "" {
		body += "\n\n" + s.siteURL + n.ActionURL
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", n.Email)
	m.SetHeader("Subject", "Hills Clinic - "+n.Title)
	m.SetBody("text/plain", body)

	if err := s.mailer.DialAndSend(m); err != nil {
		return fmt.Errorf("send %s email: %w", n.Type, err)
	}
	return nil
}
