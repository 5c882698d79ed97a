// Package mail envía comprobantes por email vía SMTP.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/billing"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/config"
)

var _ billing.Mailer = (*SMTPMailer)(nil)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer implementa billing.Mailer con gomail.
type SMTPMailer struct {
	from     string
	fromName string
	dialer   dialer
}

// NewSMTPMailer crea el mailer. fromName es el nombre visible del remitente.
func NewSMTPMailer(cfg config.SMTPConfig, fromName string) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.TLSConfig = &tls.Config{
		ServerName: cfg.Host,
		MinVersion: tls.VersionTLS12,
	}
	return &SMTPMailer{from: cfg.From, fromName: fromName, dialer: d}
}

// Send arma el mensaje MIME y lo entrega. gomail no acepta contexto: sólo se verifica antes de enviar.
func (m *SMTPMailer) Send(ctx context.Context, msg billing.MailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("mail: sin destinatarios")
	}
	gm := buildMessage(m.from, m.fromName, msg)
	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("mail: enviar: %w", err)
	}
	return nil
}

func buildMessage(from, fromName string, msg billing.MailMessage) *gomail.Message {
	gm := gomail.NewMessage(
		gomail.SetCharset("UTF-8"),
		gomail.SetEncoding(gomail.Base64),
	)
	gm.SetAddressHeader("From", from, fromName)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTMLBody)

	for _, a := range msg.Attachments {
		content := a.Content
		gm.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}
	return gm
}
