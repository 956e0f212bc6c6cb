package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/agencyhub/internal/domain"
)

// TracingClientRepository wraps a domain.ClientRepository with OpenTelemetry tracing.
type TracingClientRepository struct {
	next   domain.ClientRepository
	tracer trace.Tracer
}

// Compile-time check: TracingClientRepository implements domain.ClientRepository.
var _ domain.ClientRepository = (*TracingClientRepository)(nil)

// NewTracingClientRepository creates a tracing decorator around the given repository.
func NewTracingClientRepository(next domain.ClientRepository) *TracingClientRepository {
	return &TracingClientRepository{
		next:   next,
		tracer: otel.Tracer(instrumentationName),
	}
}

func (r *TracingClientRepository) Create(ctx context.Context, c domain.Client) error {
	ctx, span := r.tracer.Start(ctx, "ClientRepository.Create",
		trace.WithAttributes(
			attribute.String("client.id", c.ID),
			attribute.String("client.slug", c.Slug),
		),
	)
	defer span.End()

	err := r.next.Create(ctx, c)
	recordError(span, err)
	return err
}

func (r *TracingClientRepository) GetByID(ctx context.Context, id string) (domain.Client, error) {
	ctx, span := r.tracer.Start(ctx, "ClientRepository.GetByID",
		trace.WithAttributes(attribute.String("client.id", id)),
	)
	defer span.End()

	c, err := r.next.GetByID(ctx, id)
	recordError(span, err)
	return c, err
}

func (r *TracingClientRepository) GetBySlug(ctx context.Context, slug string) (domain.Client, error) {
	ctx, span := r.tracer.Start(ctx, "ClientRepository.GetBySlug",
		trace.WithAttributes(attribute.String("client.slug", slug)),
	)
	defer span.End()

	c, err := r.next.GetBySlug(ctx, slug)
	recordError(span, err)
	return c, err
}

func (r *TracingClientRepository) List(ctx context.Context, filter domain.ClientFilter) ([]domain.Client, error) {
	ctx, span := r.tracer.Start(ctx, "ClientRepository.List",
		trace.WithAttributes(
			attribute.Int("filter.limit", filter.Limit),
			attribute.Int("filter.offset", filter.Offset),
		),
	)
	defer span.End()

	clients, err := r.next.List(ctx, filter)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(clients)))
	}
	recordError(span, err)
	return clients, err
}

func (r *TracingClientRepository) Update(ctx context.Context, c domain.Client) error {
	ctx, span := r.tracer.Start(ctx, "ClientRepository.Update",
		trace.WithAttributes(attribute.String("client.id", c.ID)),
	)
	defer span.End()

	err := r.next.Update(ctx, c)
	recordError(span, err)
	return err
}
