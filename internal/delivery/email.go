package delivery

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"workflow-engine/internal/common/logging"
	"workflow-engine/internal/events"
	"workflow-engine/internal/store"
)

// SendFunc sends a raw mail message. It matches smtp.SendMail so tests can
// substitute a recording fake.
type SendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

func smtpSend(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	return smtp.SendMail(addr, auth, from, to, msg)
}

// sendEmail formats the results into one HTML document and sends it over
// SMTP with STARTTLS. Any SMTP error is reported in the outcome; the
// dispatcher never raises.
func (d *Dispatcher) sendEmail(ctx context.Context, results []*store.Result, event *events.TriggerEvent) *Outcome {
	if !d.config.SMTPEnabled {
		return &Outcome{Method: MethodEmail, Status: StatusFailed, Error: "SMTP is not enabled"}
	}

	recipient := d.config.DefaultRecipient
	if event != nil {
		if email := event.UserEmail(); email != "" {
			recipient = email
		}
	}
	if recipient == "" {
		return &Outcome{Method: MethodEmail, Status: StatusFailed, Error: "no recipient configured"}
	}

	from := d.config.SMTPUsername
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", d.config.SMTPFromName, from),
		"To":           recipient,
		"Subject":      "Your workflow result is ready",
		"MIME-Version": "1.0",
		"Content-Type": `text/html; charset="UTF-8"`,
	}

	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(formatEmailBody(results))

	auth := smtp.PlainAuth("", d.config.SMTPUsername, d.config.SMTPPassword, d.config.SMTPHost)
	addr := fmt.Sprintf("%s:%s", d.config.SMTPHost, d.config.SMTPPort)

	done := make(chan error, 1)
	go func() {
		done <- d.send(addr, auth, from, []string{recipient}, []byte(msg.String()))
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if err != nil {
		d.logger.Error("Email delivery failed", err,
			logging.Field{Key: "recipient", Value: recipient},
		)
		return &Outcome{Method: MethodEmail, Status: StatusFailed, Error: err.Error()}
	}

	d.logger.Info("Email sent",
		logging.Field{Key: "recipient", Value: recipient},
	)
	return &Outcome{Method: MethodEmail, Status: StatusSent, Recipient: recipient}
}

// formatEmailBody renders each result as a styled block in one HTML
// document.
func formatEmailBody(results []*store.Result) string {
	var html strings.Builder
	html.WriteString("<html><body style='font-family: -apple-system, BlinkMacSystemFont, Segoe UI, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;'>")
	html.WriteString("<div style='background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 20px; border-radius: 12px; color: white; text-align: center; margin-bottom: 30px;'>")
	html.WriteString("<h1 style='margin: 0; font-size: 24px;'>Workflow Engine</h1>")
	html.WriteString("<p style='margin: 5px 0 0 0; opacity: 0.9;'>Your workflow result is ready</p>")
	html.WriteString("</div>")

	for _, result := range results {
		content := result.Content
		if content == "" {
			content = "No content available"
		}
		rendered := strings.ReplaceAll(content, "\n\n", "</p><p>")
		rendered = strings.ReplaceAll(rendered, "\n", "<br>")
		html.WriteString("<div style='background: #f8f9fa; padding: 25px; border-radius: 12px; border-left: 4px solid #667eea; margin-bottom: 20px;'>")
		html.WriteString(fmt.Sprintf("<p style='margin: 0; line-height: 1.6; color: #333;'>%s</p>", rendered))
		html.WriteString("</div>")
	}

	html.WriteString("<div style='text-align: center; margin-top: 40px; padding-top: 20px; border-top: 1px solid #eee;'>")
	html.WriteString("<p style='color: #999; font-size: 14px; margin: 0;'>Powered by Workflow Engine</p>")
	html.WriteString("</div>")
	html.WriteString("</body></html>")
	return html.String()
}
