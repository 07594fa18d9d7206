package infra

import (
	"bytes"
	"fmt"
	"net/smtp"

	"bclick/internal/config"

	"github.com/jordan-wright/email"
)

// Attachment is an in-memory file attached to an outgoing message.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message is one outgoing notification email.
type Message struct {
	To          string
	Subject     string
	Text        string
	Attachments []Attachment
}

// Mailer wraps SMTP configuration for order notifications.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Enabled is false when no relay is configured; notifications are then only logged.
func (m *Mailer) Enabled() bool { return m != nil && m.host != "" }

func (m *Mailer) Send(msg Message) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{msg.To}
	e.Subject = msg.Subject
	e.Text = []byte(msg.Text)

	for _, a := range msg.Attachments {
		if _, err := e.Attach(bytes.NewReader(a.Data), a.Name, a.ContentType); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", a.Name, err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
