package infra

import (
	"fmt"
	"net/smtp"

	"bodega/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer delivers the reception reports produced after each finalized audit.
// It is always called through the worker's circuit breaker, never inline
// with a request.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// SendReporte emails a reception report. An empty pdfPath sends the plain
// text body alone.
func (m *Mailer) SendReporte(to, subject, body, pdfPath string) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	return e.Send(m.addr, smtp.PlainAuth("", m.user, m.password, m.host))
}
