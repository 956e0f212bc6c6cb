package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/agencyhub/internal/domain"
)

// TracingServiceRepository wraps a domain.ServiceRepository with OpenTelemetry tracing.
// Each method creates a span with service attributes and records errors.
type TracingServiceRepository struct {
	next   domain.ServiceRepository
	tracer trace.Tracer
}

// Compile-time check: TracingServiceRepository implements domain.ServiceRepository.
var _ domain.ServiceRepository = (*TracingServiceRepository)(nil)

// NewTracingServiceRepository creates a tracing decorator around the given repository.
func NewTracingServiceRepository(next domain.ServiceRepository) *TracingServiceRepository {
	return &TracingServiceRepository{
		next:   next,
		tracer: otel.Tracer(instrumentationName),
	}
}

func (r *TracingServiceRepository) Create(ctx context.Context, s domain.Service, record domain.TransitionRecord, hook domain.WriteHook) error {
	ctx, span := r.tracer.Start(ctx, "ServiceRepository.Create",
		trace.WithAttributes(
			attribute.String("service.id", s.ID),
			attribute.String("client.id", s.ClientID),
			attribute.String("offering.id", s.OfferingID),
		),
	)
	defer span.End()

	err := r.next.Create(ctx, s, record, hook)
	recordError(span, err)
	return err
}

func (r *TracingServiceRepository) GetByID(ctx context.Context, id string) (domain.Service, error) {
	ctx, span := r.tracer.Start(ctx, "ServiceRepository.GetByID",
		trace.WithAttributes(attribute.String("service.id", id)),
	)
	defer span.End()

	s, err := r.next.GetByID(ctx, id)
	if err == nil {
		span.SetAttributes(attribute.String("service.state", string(s.State)))
	}
	recordError(span, err)
	return s, err
}

func (r *TracingServiceRepository) List(ctx context.Context, filter domain.ServiceFilter) ([]domain.Service, error) {
	ctx, span := r.tracer.Start(ctx, "ServiceRepository.List",
		trace.WithAttributes(
			attribute.Int("filter.limit", filter.Limit),
			attribute.Int("filter.offset", filter.Offset),
		),
	)
	defer span.End()

	if filter.ClientID != "" {
		span.SetAttributes(attribute.String("filter.client_id", filter.ClientID))
	}
	if filter.State != nil {
		span.SetAttributes(attribute.String("filter.state", string(*filter.State)))
	}

	services, err := r.next.List(ctx, filter)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(services)))
	}
	recordError(span, err)
	return services, err
}

func (r *TracingServiceRepository) ApplyTransition(ctx context.Context, s domain.Service, record domain.TransitionRecord, expected domain.ServiceState, hook domain.WriteHook) error {
	ctx, span := r.tracer.Start(ctx, "ServiceRepository.ApplyTransition",
		trace.WithAttributes(
			attribute.String("service.id", s.ID),
			attribute.String("transition.action", string(record.Action)),
			attribute.String("transition.from", string(expected)),
			attribute.String("transition.to", string(s.State)),
		),
	)
	defer span.End()

	err := r.next.ApplyTransition(ctx, s, record, expected, hook)
	recordError(span, err)
	return err
}

func (r *TracingServiceRepository) History(ctx context.Context, serviceID string) ([]domain.TransitionRecord, error) {
	ctx, span := r.tracer.Start(ctx, "ServiceRepository.History",
		trace.WithAttributes(attribute.String("service.id", serviceID)),
	)
	defer span.End()

	records, err := r.next.History(ctx, serviceID)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(records)))
	}
	recordError(span, err)
	return records, err
}

func recordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
