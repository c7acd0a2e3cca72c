package mailer

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer delivers mail through the SendGrid v3 API.
type SendGridMailer struct {
	client      *sendgrid.Client
	fromName    string
	fromAddress string
}

// NewSendGridMailer constructs a SendGrid backed mailer.
func NewSendGridMailer(apiKey, fromName, fromAddress string) *SendGridMailer {
	return &SendGridMailer{
		client:      sendgrid.NewSendClient(apiKey),
		fromName:    fromName,
		fromAddress: fromAddress,
	}
}

// Send delivers a single message; attachment content is base64 encoded per the API contract.
func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	from := sgmail.NewEmail(m.fromName, m.fromAddress)
	to := sgmail.NewEmail(msg.ToName, msg.ToAddress)

	mail := sgmail.NewSingleEmail(from, msg.Subject, to, msg.Body, msg.Body)
	for _, at := range msg.Attachments {
		attachment := sgmail.NewAttachment()
		attachment.SetFilename(at.Filename)
		attachment.SetType(at.ContentType)
		attachment.SetContent(base64.StdEncoding.EncodeToString(at.Content))
		attachment.SetDisposition("attachment")
		mail.AddAttachment(attachment)
	}

	resp, err := m.client.SendWithContext(ctx, mail)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid send: status %d", resp.StatusCode)
	}
	return nil
}
