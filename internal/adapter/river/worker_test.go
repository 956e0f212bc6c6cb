package river

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"

	"github.com/neomorfeo/agencyhub/internal/domain"
)

type flakyNotifier struct {
	failRole domain.Role
	sent     []domain.Notification
}

func (n *flakyNotifier) Notify(_ context.Context, msg domain.Notification) error {
	if msg.Role == n.failRole {
		return errors.New("mail relay down")
	}
	n.sent = append(n.sent, msg)
	return nil
}

func notificationJob(role domain.Role) *river.Job[NotificationArgs] {
	return &river.Job[NotificationArgs]{
		JobRow: &rivertype.JobRow{ID: 1, Attempt: 1},
		Args: NotificationArgs{
			Role:        string(role),
			Action:      string(domain.ActionApprove),
			From:        string(domain.StateRequested),
			To:          string(domain.StateApproved),
			ServiceID:   "s-1",
			ServiceName: "Managed hosting",
			ClientID:    "c-1",
		},
	}
}

func TestNotificationWorker_DeliversToJobRoleOnly(t *testing.T) {
	notifier := &flakyNotifier{}
	w := NewNotificationWorker(notifier, nil)

	if err := w.Work(context.Background(), notificationJob(domain.RoleClient)); err != nil {
		t.Fatalf("Work failed: %v", err)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifier.sent))
	}
	got := notifier.sent[0]
	if got.Role != domain.RoleClient || got.State != domain.StateApproved {
		t.Errorf("notification = %+v", got)
	}
	if got.Message != "Managed hosting: approve moved it from requested to approved" {
		t.Errorf("message = %q", got.Message)
	}
}

func TestNotificationWorker_FailureOnlyAffectsItsRole(t *testing.T) {
	notifier := &flakyNotifier{failRole: domain.RoleStaff}
	w := NewNotificationWorker(notifier, nil)

	err := w.Work(context.Background(), notificationJob(domain.RoleStaff))
	if err == nil || !strings.Contains(err.Error(), "notifying staff") {
		t.Fatalf("expected staff delivery error, got %v", err)
	}

	// The client's job is separate and unaffected by the staff failure.
	if err := w.Work(context.Background(), notificationJob(domain.RoleClient)); err != nil {
		t.Fatalf("client delivery failed: %v", err)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Role != domain.RoleClient {
		t.Errorf("sent = %+v, want one client notification", notifier.sent)
	}
}
