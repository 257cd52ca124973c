package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/usecase"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var resetTemplate = template.Must(template.ParseFS(templateFS, "templates/password_reset.html"))

func NewSMTPSender(host string, port int, user, password string) *SMTPSender {
	return &SMTPSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
	}
}

// Send delivers msg over SMTP. The context is not observed by the dialer.
func (s *SMTPSender) Send(_ context.Context, msg usecase.EmailMessage) error {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// ResetMailer renders the password reset email and hands it to Sender.
type ResetMailer struct {
	Sender    usecase.EmailSender
	From      string
	ExpiresIn string
}

func NewResetMailer(sender usecase.EmailSender, from string) *ResetMailer {
	return &ResetMailer{Sender: sender, From: from, ExpiresIn: "1 hour"}
}

func (m *ResetMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	html, err := RenderReset(ResetEmailData{Email: to, Link: link, ExpiresIn: m.ExpiresIn})
	if err != nil {
		return err
	}
	return m.Sender.Send(ctx, usecase.EmailMessage{
		From:    m.From,
		To:      []string{to},
		Subject: "Reset your password",
		HTML:    html,
	})
}

func RenderReset(data ResetEmailData) (string, error) {
	var body bytes.Buffer
	if err := resetTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("render reset email: %w", err)
	}
	return body.String(), nil
}
