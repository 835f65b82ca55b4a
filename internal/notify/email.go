package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/smtp"

	"github.com/tapri-app/tapri-api/internal/config"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Email delivers events that carry a subject to every recipient with an
// address. It does nothing when SMTP is not configured.
type Email struct {
	cfg  config.SMTPConfig
	send sendFunc
}

func NewEmail(cfg config.SMTPConfig) *Email {
	return &Email{cfg: cfg, send: smtp.SendMail}
}

func (e *Email) IsConfigured() bool {
	return e.cfg.Host != "" && e.cfg.Username != "" && e.cfg.Password != "" && e.cfg.From != ""
}

func (e *Email) Notify(ctx context.Context, ev Event) error {
	if !e.IsConfigured() || ev.Subject == "" {
		return nil
	}

	var errs []error
	for _, r := range ev.Recipients {
		if r.Email == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.Send(r.Email, ev.Subject, renderBody(r, ev)); err != nil {
			errs = append(errs, fmt.Errorf("send to %s: %w", r.Email, err))
		}
	}
	return errors.Join(errs...)
}

func (e *Email) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%s", e.cfg.Host, e.cfg.Port)
	auth := smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		e.cfg.From, to, subject, body)

	return e.send(addr, auth, e.cfg.From, []string{to}, []byte(msg))
}

func renderBody(r Recipient, ev Event) string {
	name := r.Name
	if name == "" {
		name = "there"
	}
	link := ""
	if ev.Link != "" {
		link = fmt.Sprintf(`<p><a href="%s">Open Tapri</a></p>`, html.EscapeString(ev.Link))
	}
	return fmt.Sprintf(`
		<html>
		<body>
			<h2>%s</h2>
			<p>Hi %s,</p>
			<p>%s</p>
			%s
		</body>
		</html>
	`, html.EscapeString(ev.Subject), html.EscapeString(name), html.EscapeString(ev.Body), link)
}
