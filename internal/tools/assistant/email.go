// Package assistant provides the built-in tool set: email, PDF Q&A,
// calendar, web search, pizza ordering, and the general fallback. Each
// tool wraps an injected collaborator (mail transport, calendar
// provider, page fetcher, document store) behind the tools contract.
package assistant

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"majordomo/internal/tools"
)

// Mailer is the narrow mail-transport contract the email tool needs.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends mail through a plain SMTP relay with STARTTLS.
type SMTPMailer struct {
	Host     string
	Port     int
	From     string
	Password string
}

// Send delivers one message.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.From == "" || m.Password == "" {
		return fmt.Errorf("email credentials not configured")
	}

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	auth := smtp.PlainAuth("", m.From, m.Password, m.Host)

	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}

// NewEmailTool builds the email tool over a mail transport.
// With incomplete parameters it answers with the details it still
// needs, mirroring a draft step, rather than failing.
func NewEmailTool(mailer Mailer) *tools.Tool {
	return &tools.Tool{
		Name:         "email_tool",
		Description:  "Writes and sends emails",
		DataCategory: "emails",
		Schema: tools.Schema{
			Properties: map[string]tools.Property{
				"to":      {Type: "string", Description: "Recipient email address"},
				"subject": {Type: "string", Description: "Subject line"},
				"body":    {Type: "string", Description: "Email body"},
			},
		},
		Execute: func(ctx context.Context, params map[string]any) (string, error) {
			to := stringParam(params, "to")
			subject := stringParam(params, "subject")
			body := stringParam(params, "body")

			if to == "" || subject == "" || body == "" {
				return draftQuestions(to, subject, body), nil
			}
			if mailer == nil {
				return "", fmt.Errorf("email transport not configured")
			}
			if err := mailer.Send(ctx, to, subject, body); err != nil {
				return "", err
			}
			return fmt.Sprintf("Email successfully sent to %s", to), nil
		},
	}
}

func draftQuestions(to, subject, body string) string {
	var lines []string
	lines = append(lines, "To send this email, I still need:")
	n := 1
	if to == "" {
		lines = append(lines, fmt.Sprintf("%d. Who should receive it? (email address)", n))
		n++
	}
	if subject == "" {
		lines = append(lines, fmt.Sprintf("%d. What should the subject line be?", n))
		n++
	}
	if body == "" {
		lines = append(lines, fmt.Sprintf("%d. What would you like to say in the email body?", n))
	}
	return strings.Join(lines, "\n")
}

// stringParam reads a string parameter, tolerating absence.
func stringParam(params map[string]any, key string) string {
	v, _ := params[key].(string)
	return strings.TrimSpace(v)
}
