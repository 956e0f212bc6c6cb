package otel_test

import (
	"context"
	"fmt"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	adapter "github.com/neomorfeo/agencyhub/internal/adapter/otel"
	"github.com/neomorfeo/agencyhub/internal/domain"
)

// --- Mock publisher ---

type mockPublisher struct {
	events []domain.LifecycleEvent
}

func (m *mockPublisher) Publish(_ context.Context, e domain.LifecycleEvent) error {
	m.events = append(m.events, e)
	return nil
}

type failingPublisher struct{}

func (p *failingPublisher) Publish(_ context.Context, _ domain.LifecycleEvent) error {
	return fmt.Errorf("publish failed")
}

func setupTestMeter(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return reader
}

func activateEvent() domain.LifecycleEvent {
	s := domain.NewService("s-1", "c-1", "o-1", "Hosting", "")
	s.State = domain.StateActive
	return domain.LifecycleEvent{
		Action:  domain.ActionActivate,
		From:    domain.StateReady,
		To:      domain.StateActive,
		Service: s,
		Actor:   domain.Actor{ID: "u-1", Role: domain.RoleAdmin},
	}
}

// --- Tests ---

func TestTracingPublisher_Publish_RecordsSpan(t *testing.T) {
	exporter := setupTestTracer(t)
	setupTestMeter(t)
	inner := &mockPublisher{}
	pub, err := adapter.NewTracingPublisher(inner)
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}

	if err := pub.Publish(context.Background(), activateEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name != "EventPublisher.Publish" {
		t.Errorf("span name = %q, want %q", spans[0].Name, "EventPublisher.Publish")
	}

	assertAttribute(t, spans[0], "event.action", "activate")
	assertAttribute(t, spans[0], "service.state", "active")
	assertAttribute(t, spans[0], "service.id", "s-1")
	assertAttribute(t, spans[0], "actor.role", "admin")

	if len(inner.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(inner.events))
	}
}

func TestTracingPublisher_Publish_CountsEvents(t *testing.T) {
	setupTestTracer(t)
	reader := setupTestMeter(t)
	pub, err := adapter.NewTracingPublisher(&mockPublisher{})
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := pub.Publish(context.Background(), activateEvent()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "agencyhub.lifecycle.events" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("data = %T, want Sum[int64]", m.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	if total != 2 {
		t.Errorf("counted %d events, want 2", total)
	}
}

func TestTracingPublisher_Publish_RecordsError(t *testing.T) {
	exporter := setupTestTracer(t)
	setupTestMeter(t)
	pub, err := adapter.NewTracingPublisher(&failingPublisher{})
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}

	if err := pub.Publish(context.Background(), activateEvent()); err == nil {
		t.Fatal("expected error")
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("span status = %v, want %v", spans[0].Status.Code, codes.Error)
	}
}
