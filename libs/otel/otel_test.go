package otelx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTransportPropagatesTraceparent(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	ctx, span := tp.Tracer("test").Start(context.Background(), "parent")
	defer span.End()

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("traceparent")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/services", nil)
	resp, err := (&http.Client{Transport: Transport(nil)}).Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if got == "" {
		t.Fatal("expected traceparent header on outbound request")
	}
	if parent, _ := TraceContextStrings(ctx); parent == "" {
		t.Fatal("expected traceparent from span context")
	}
}

func TestConfigFromEnvDefaultsDisabled(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("OTEL_SAMPLING_RATIO", "2")
	cfg := ConfigFromEnv("salon", "test")
	if cfg.Enabled {
		t.Fatal("tracing must be opt-in")
	}
	if cfg.SampleRatio != 1 {
		t.Fatalf("expected out-of-range ratio to fall back to 1, got %v", cfg.SampleRatio)
	}
}
