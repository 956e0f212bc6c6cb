package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/neomorfeo/agencyhub/internal/domain"
)

// Compile-time check: LogNotifier implements domain.Notifier.
var _ domain.Notifier = (*LogNotifier)(nil)

// LogNotifier writes each notification as a structured log record. It
// stands in for email or chat delivery.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier writing to logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, msg domain.Notification) error {
	if !msg.Role.Valid() {
		return fmt.Errorf("notification for unknown role %q", msg.Role)
	}
	n.logger.InfoContext(ctx, "notification",
		"role", msg.Role,
		"client_id", msg.ClientID,
		"service_id", msg.ServiceID,
		"action", msg.Action,
		"state", msg.State,
		"message", msg.Message,
	)
	return nil
}
