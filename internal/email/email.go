// Package email defines the outbound mail collaborator. Actual delivery is
// external to this service; the default implementation only logs.
package email

import (
	"context"
	"log/slog"
)

// Sender delivers account lifecycle mail.
type Sender interface {
	SendAccountActivation(ctx context.Context, to, token string) error
	SendPasswordReset(ctx context.Context, to, token string) error
}

// LogSender writes mail events to the structured log instead of sending.
// Used in development and tests.
type LogSender struct {
	Logger *slog.Logger
}

// NewLogSender returns a Sender that logs instead of delivering.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{Logger: logger}
}

func (s *LogSender) SendAccountActivation(ctx context.Context, to, token string) error {
	s.Logger.InfoContext(ctx, "account activation mail",
		slog.String("to", to), slog.String("token", token))
	return nil
}

func (s *LogSender) SendPasswordReset(ctx context.Context, to, token string) error {
	s.Logger.InfoContext(ctx, "password reset mail",
		slog.String("to", to), slog.String("token", token))
	return nil
}
