package notify

import (
	"context"
	"log/slog"
)

// LogSender writes messages to a structured logger instead of delivering them.
// Useful for local runs where no mail or Slack transport is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender. A nil logger uses slog.Default.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}

	return &LogSender{logger: logger}
}

// Name returns the sender name.
func (s *LogSender) Name() string {
	return "log"
}

// Send logs msg at info level.
func (s *LogSender) Send(ctx context.Context, msg *Message) error {
	s.logger.InfoContext(ctx, "notification",
		"message_id", msg.ID,
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body)

	return nil
}
