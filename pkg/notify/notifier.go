package notify

import (
	"context"

	"go.uber.org/zap"
)

// Message is an outbound notification addressed to a guardian or student
// contact. Delivery transport (SMS, email) is decided by the Sender.
type Message struct {
	Recipient string
	Subject   string
	Body      string
}

// Sender dispatches outbound notifications.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes notifications to the application log. It stands in for a
// real gateway in development and tests.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender constructs a LogSender.
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// Send logs the message instead of delivering it.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("notification dispatched",
		zap.String("recipient", msg.Recipient),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
