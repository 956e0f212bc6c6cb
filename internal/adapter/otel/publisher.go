package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/agencyhub/internal/domain"
)

// TracingPublisher wraps a domain.EventPublisher with a span per event and
// counts the lifecycle events it publishes.
type TracingPublisher struct {
	next   domain.EventPublisher
	tracer trace.Tracer
	events metric.Int64Counter
}

// Compile-time check: TracingPublisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*TracingPublisher)(nil)

// NewTracingPublisher creates a tracing decorator around the given publisher.
func NewTracingPublisher(next domain.EventPublisher) (*TracingPublisher, error) {
	events, err := otel.Meter(instrumentationName).Int64Counter(
		"agencyhub.lifecycle.events",
		metric.WithDescription("Lifecycle events published, by action and resulting state."),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	return &TracingPublisher{
		next:   next,
		tracer: otel.Tracer(instrumentationName),
		events: events,
	}, nil
}

func (p *TracingPublisher) Publish(ctx context.Context, event domain.LifecycleEvent) error {
	attrs := []attribute.KeyValue{
		attribute.String("event.action", string(event.Action)),
		attribute.String("service.state", string(event.To)),
	}

	ctx, span := p.tracer.Start(ctx, "EventPublisher.Publish",
		trace.WithAttributes(attrs...),
		trace.WithAttributes(
			attribute.String("service.id", event.Service.ID),
			attribute.String("actor.role", string(event.Actor.Role)),
		),
	)
	defer span.End()

	err := p.next.Publish(ctx, event)
	recordError(span, err)
	if err == nil {
		p.events.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	return err
}
