package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/neomorfeo/agencyhub/internal/domain"
)

// Lifecycle is the part of the lifecycle engine the expiry job drives.
type Lifecycle interface {
	List(ctx context.Context, actor domain.Actor, filter domain.ServiceFilter) ([]domain.Service, error)
	Apply(ctx context.Context, actor domain.Actor, id string, action domain.ServiceAction, note string) (domain.Service, error)
}

// ExpiryJob warns clients about services nearing the end of their term and
// expires the ones whose term has run out.
type ExpiryJob struct {
	lifecycle    Lifecycle
	noticeWindow time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

// NewExpiryJob creates the job. Services expiring within noticeWindow are
// moved to expiring_soon.
func NewExpiryJob(lifecycle Lifecycle, noticeWindow time.Duration, logger *slog.Logger) *ExpiryJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpiryJob{
		lifecycle:    lifecycle,
		noticeWindow: noticeWindow,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (j *ExpiryJob) Name() string {
	return "service.expiry"
}

// Run expires overdue services first, then flags the ones about to expire.
// A failure on one service is logged and does not stop the others.
func (j *ExpiryJob) Run(ctx context.Context) error {
	if j == nil || j.lifecycle == nil {
		return fmt.Errorf("expiry job dependencies not configured")
	}

	now := j.now()
	passes := []struct {
		state  domain.ServiceState
		before time.Time
		action domain.ServiceAction
	}{
		{domain.StateExpiringSoon, now, domain.ActionExpire},
		{domain.StateSuspended, now, domain.ActionExpire},
		{domain.StateActive, now.Add(j.noticeWindow), domain.ActionNotifyExpiration},
	}

	var applied, failed int
	for _, p := range passes {
		state, before := p.state, p.before
		services, err := j.lifecycle.List(ctx, domain.SystemActor(), domain.ServiceFilter{
			State:          &state,
			ExpiringBefore: &before,
		})
		if err != nil {
			return fmt.Errorf("expiry job: listing %s services: %w", state, err)
		}

		for _, s := range services {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := j.lifecycle.Apply(ctx, domain.SystemActor(), s.ID, p.action, "term end reached")
			if err != nil {
				var stale *domain.StaleStateError
				if errors.As(err, &stale) {
					j.logger.Debug("service moved before expiry job", "service_id", s.ID)
					continue
				}
				failed++
				j.logger.Warn("expiry transition failed",
					"service_id", s.ID, "action", p.action, "error", err)
				continue
			}
			applied++
		}
	}

	if applied > 0 {
		j.logger.Info("expiry job applied transitions", "applied", applied)
	}
	if failed > 0 {
		return fmt.Errorf("expiry job: %d of %d transitions failed", failed, applied+failed)
	}
	return nil
}
