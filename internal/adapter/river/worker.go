package river

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/agencyhub/internal/domain"
)

// NotificationWorker delivers one lifecycle notification to one role.
type NotificationWorker struct {
	river.WorkerDefaults[NotificationArgs]

	notifier domain.Notifier
	logger   *slog.Logger
}

// NewNotificationWorker creates a worker delivering through notifier.
func NewNotificationWorker(notifier domain.Notifier, logger *slog.Logger) *NotificationWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationWorker{notifier: notifier, logger: logger}
}

// Work processes a single notification job. A failed delivery fails the job
// so River retries it.
func (w *NotificationWorker) Work(ctx context.Context, job *river.Job[NotificationArgs]) error {
	args := job.Args
	w.logger.InfoContext(ctx, "delivering lifecycle notification",
		"role", args.Role,
		"action", args.Action,
		"to", args.To,
		"service_id", args.ServiceID,
		"job_id", job.ID,
		"attempt", job.Attempt,
	)

	err := w.notifier.Notify(ctx, domain.Notification{
		Role:      domain.Role(args.Role),
		ClientID:  args.ClientID,
		ServiceID: args.ServiceID,
		Action:    domain.ServiceAction(args.Action),
		State:     domain.ServiceState(args.To),
		Message:   message(args),
	})
	if err != nil {
		return fmt.Errorf("notifying %s: %w", args.Role, err)
	}
	return nil
}

func message(args NotificationArgs) string {
	if args.From == "" {
		return fmt.Sprintf("%s: %s (now %s)", args.ServiceName, args.Action, args.To)
	}
	return fmt.Sprintf("%s: %s moved it from %s to %s", args.ServiceName, args.Action, args.From, args.To)
}
