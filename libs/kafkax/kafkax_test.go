package kafkax

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestEventHeaders(t *testing.T) {
	headers := EventHeaders("evt-1", "client.appointment.booked.v1", "salon")
	if HeaderValue(headers, HeaderEventID) != "evt-1" {
		t.Fatalf("missing event id: %v", headers)
	}
	if HeaderValue(headers, HeaderEventType) != "client.appointment.booked.v1" {
		t.Fatalf("missing event type: %v", headers)
	}
	if HeaderValue(headers, HeaderSource) != "salon" {
		t.Fatalf("missing source: %v", headers)
	}
	if len(EventHeaders("e", "t", "")) != 2 {
		t.Fatal("source header must be omitted when empty")
	}
}

func TestSplitBrokers(t *testing.T) {
	got := SplitBrokers(" kafka-1:9092, ,kafka-2:9092 ")
	if len(got) != 2 || got[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers: %v", got)
	}
}

func TestInjectTraceHeaders(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer otel.SetTextMapPropagator(prev)

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	headers := InjectTraceHeaders(ctx, EventHeaders("evt-1", "t", ""))
	if HeaderValue(headers, "traceparent") == "" {
		t.Fatalf("expected traceparent header, got %v", headers)
	}
	if HeaderValue(headers, HeaderEventID) != "evt-1" {
		t.Fatal("existing headers must be preserved")
	}
}

func TestReadyCheckWithoutBrokers(t *testing.T) {
	if err := ReadyCheck(nil)(context.Background()); err == nil {
		t.Fatal("expected error without brokers")
	}
}
