package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"

	"stocksnoop/services/watcher"
)

type SmtpConfig struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	To           []string `json:"to"`
}

// Email sends the digest as a plain-text message over SMTP.
type Email struct {
	config SmtpConfig
}

func NewEmail(config SmtpConfig) Email {
	return Email{config: config}
}

func (e Email) Notify(ctx context.Context, events []watcher.ChangeEvent) error {
	_, span := tracer.Start(ctx, "email:Notify")
	defer span.End()

	if len(events) == 0 {
		return nil
	}

	var body strings.Builder
	body.WriteString("The following products changed since the last check.\n\n")
	for _, event := range orderEvents(events) {
		body.WriteString("  ")
		body.WriteString(event.Line())
		body.WriteString("\n")
		if event.Url != "" {
			body.WriteString("  ")
			body.WriteString(event.Url)
			body.WriteString("\n")
		}
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Stock Snoop <%s>", e.config.EmailAddress)
	mail.To = e.config.To
	mail.Subject = "Stock availability update"
	mail.Text = []byte(body.String())

	addr := fmt.Sprintf("%s:%d", e.config.Server, e.config.Port)
	err := mail.Send(
		addr,
		smtp.PlainAuth("", e.config.EmailAddress, e.config.Password, e.config.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}
	return nil
}
