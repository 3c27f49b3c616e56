package email

import (
	"context"
	"log/slog"
)

// NoopSender logs sends without delivering anything; used in dev and tests.
type NoopSender struct {
	logger *slog.Logger
}

func NewNoopSender(logger *slog.Logger) *NoopSender {
	return &NoopSender{logger: logger}
}

func (s *NoopSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email send skipped (noop sender)", "to", msg.To, "subject", msg.Subject)
	return nil
}
