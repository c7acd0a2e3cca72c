package mailer

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleMailer logs outbound mail instead of delivering it. Used in development
// and as the fallback when no SendGrid key is configured.
type ConsoleMailer struct {
	logger *zap.Logger
}

// NewConsoleMailer constructs a console mailer.
func NewConsoleMailer(logger *zap.Logger) *ConsoleMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleMailer{logger: logger}
}

// Send logs the message metadata.
func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("outbound_mail",
		zap.String("to", msg.ToAddress),
		zap.String("subject", msg.Subject),
		zap.Int("attachments", len(msg.Attachments)),
	)
	return nil
}
