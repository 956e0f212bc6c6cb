package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/agencyhub/internal/adapter/sqlite"
	"github.com/neomorfeo/agencyhub/internal/domain"
)

// Compile-time check: Publisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*Publisher)(nil)

// NotificationArgs carries one recipient role of a lifecycle transition to
// the notification worker. River serializes it as JSON into its job table.
// It snapshots the service so the worker never needs to query the database.
type NotificationArgs struct {
	Role        string `json:"role"`
	Action      string `json:"action"`
	From        string `json:"from,omitempty"`
	To          string `json:"to"`
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	ClientID    string `json:"client_id"`
	ActorID     string `json:"actor_id"`
	ActorRole   string `json:"actor_role"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (NotificationArgs) Kind() string { return "service.notification" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.EventPublisher by enqueuing one River job per
// role to notify, so a failed delivery is retried for that role alone.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues the event's notification jobs. When ctx carries a
// repository transaction the jobs are inserted in it and only become
// visible to workers once that transaction commits.
func (p *Publisher) Publish(ctx context.Context, event domain.LifecycleEvent) error {
	if len(event.NotifyRoles) == 0 {
		return nil
	}

	params := make([]river.InsertManyParams, len(event.NotifyRoles))
	for i, role := range event.NotifyRoles {
		params[i] = river.InsertManyParams{Args: NotificationArgs{
			Role:        string(role),
			Action:      string(event.Action),
			From:        string(event.From),
			To:          string(event.To),
			ServiceID:   event.Service.ID,
			ServiceName: event.Service.Name,
			ClientID:    event.Service.ClientID,
			ActorID:     event.Actor.ID,
			ActorRole:   string(event.Actor.Role),
		}}
	}

	var err error
	if tx, ok := sqlite.TxFrom(ctx); ok {
		_, err = p.client.InsertManyTx(ctx, tx, params)
	} else {
		_, err = p.client.InsertMany(ctx, params)
	}
	if err != nil {
		return fmt.Errorf("enqueuing %d notification jobs: %w", len(params), err)
	}
	return nil
}
