package errorreport

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stanstork/timeline-notify/internal/config"
	"github.com/stanstork/timeline-notify/internal/models"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type EmailNotifier struct {
	host       string
	port       int
	username   string
	password   string
	from       string
	recipients []string
	send       sendMailFunc
	logger     zerolog.Logger
}

// NewEmailNotifier returns a nil notifier when no SMTP host or recipients
// are configured.
func NewEmailNotifier(cfg config.EmailConfig, logger zerolog.Logger) (*EmailNotifier, error) {
	recipients := sanitizeRecipients(cfg.AlertRecipients)
	host := strings.TrimSpace(cfg.SMTPHost)
	if host == "" || len(recipients) == 0 {
		return nil, nil
	}
	from := strings.TrimSpace(cfg.From)
	if from == "" {
		return nil, fmt.Errorf("from is required for email notifier")
	}
	port := cfg.SMTPPort
	if port == 0 {
		port = 587
	}

	return &EmailNotifier{
		host:       host,
		port:       port,
		username:   strings.TrimSpace(cfg.Username),
		password:   cfg.Password,
		from:       from,
		recipients: recipients,
		send:       smtp.SendMail,
		logger:     logger.With().Str("notifier", "email").Logger(),
	}, nil
}

func (n *EmailNotifier) Notify(_ context.Context, report models.ErrorReport) error {
	subject := "[Timeline] Error report"
	if report.Plugin != nil {
		subject = fmt.Sprintf("[Timeline] Error in %s", *report.Plugin)
	}

	body := strings.Builder{}
	body.WriteString(strings.TrimSpace(report.Message))
	body.WriteString("\n\n")
	body.WriteString(fmt.Sprintf("Report: %s\n", report.ID))
	body.WriteString(fmt.Sprintf("Created: %s\n", report.CreatedAt.Format("2006-01-02 15:04:05 MST")))

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n",
		n.from, strings.Join(n.recipients, ","), subject)

	message := []byte(headers + body.String())
	addr := fmt.Sprintf("%s:%d", n.host, n.port)

	var auth smtp.Auth
	if n.username != "" {
		auth = smtp.PlainAuth("", n.username, n.password, n.host)
	}

	if err := n.send(addr, auth, n.from, n.recipients, message); err != nil {
		return err
	}

	n.logger.Info().
		Str("report_id", report.ID).
		Strs("recipients", n.recipients).
		Msg("error report emailed")
	return nil
}

func (n *EmailNotifier) String() string {
	return "EmailNotifier"
}
