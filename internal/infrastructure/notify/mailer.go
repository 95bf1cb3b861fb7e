package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/alnatural-api/internal/application/ports"
)

var _ ports.Mailer = (*SMTPMailer)(nil)

// dialer abstrae gomail.Dialer para tests.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer envía correos con gomail.
type SMTPMailer struct {
	dialer   dialer
	from     string
	fromName string
}

// NewSMTPMailer construye el mailer sobre host:port con autenticación PLAIN si hay usuario.
func NewSMTPMailer(host string, port int, user, password, from, fromName string) *SMTPMailer {
	return &SMTPMailer{dialer: gomail.NewDialer(host, port, user, password), from: from, fromName: fromName}
}

// Send arma el mensaje MIME (texto + HTML + adjuntos) y lo entrega.
// gomail no acepta contexto: si ctx ya expiró no se intenta el envío.
func (m *SMTPMailer) Send(ctx context.Context, msg ports.MailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(m.build(msg)); err != nil {
		return fmt.Errorf("smtp: enviar a %s: %w", msg.To, err)
	}
	return nil
}

func (m *SMTPMailer) build(msg ports.MailMessage) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", m.from, m.fromName)
	gm.SetAddressHeader("To", msg.To, msg.ToName)
	gm.SetHeader("Subject", msg.Subject)
	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		gm.SetBody("text/plain", msg.TextBody)
		gm.AddAlternative("text/html", msg.HTMLBody)
	case msg.HTMLBody != "":
		gm.SetBody("text/html", msg.HTMLBody)
	default:
		gm.SetBody("text/plain", msg.TextBody)
	}
	for _, a := range msg.Attachments {
		data := a.Data
		gm.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := io.Copy(w, bytes.NewReader(data))
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}
	return gm
}
