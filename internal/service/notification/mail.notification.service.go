package notification

import (
	"context"
	"fmt"
	"lostfound/internal/common/enum"
	"net/smtp"
	"strings"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer delivers email notifications over SMTP and passes anything else
// to Fallback.
type Mailer struct {
	config   SMTPConfig
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	Fallback INotifier
}

func NewMailer(config SMTPConfig) *Mailer {
	return &Mailer{config: config, send: smtp.SendMail, Fallback: Log{}}
}

func (m *Mailer) Notify(ctx context.Context, n Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	if n.Channel != enum.EMAIL_CHANNEL {
		return m.Fallback.Notify(ctx, n)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}
	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	if err := m.send(addr, auth, m.config.From, []string{n.To}, m.message(n)); err != nil {
		return fmt.Errorf("send mail to %s: %w", n.To, err)
	}
	return nil
}

func (m *Mailer) message(n Notification) []byte {
	var sb strings.Builder
	sb.WriteString("From: " + m.config.From + "\r\n")
	sb.WriteString("To: " + n.To + "\r\n")
	sb.WriteString("Subject: " + n.Subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	sb.WriteString(n.Body + "\r\n")
	return []byte(sb.String())
}
