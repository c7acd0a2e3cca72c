package mailer

import "context"

// Attachment is a file attached to an outbound message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is a single outbound email.
type Message struct {
	ToName      string
	ToAddress   string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Mailer delivers messages through a concrete backend.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
