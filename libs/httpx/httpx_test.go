package httpx

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(r)
			})
		}
	}
	base := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		order = append(order, "base")
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
	})

	rt := Chain(base, mark("a"), nil, mark("b"))
	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	if strings.Join(order, ",") != "a,b,base" {
		t.Fatalf("unexpected order: %v", order)
	}
}

func TestWithRequestID(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get(RequestIDHeader))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := &http.Client{Transport: Chain(http.DefaultTransport, WithRequestID)}

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if req.Header.Get(RequestIDHeader) != "" {
		t.Fatal("original request must not be mutated")
	}

	pinned, _ := http.NewRequestWithContext(ContextWithRequestID(context.Background(), "req-1"), http.MethodGet, srv.URL, nil)
	resp, err = client.Do(pinned)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if len(seen) != 2 || seen[0] == "" || seen[1] != "req-1" {
		t.Fatalf("unexpected request ids: %v", seen)
	}
}

func TestWithAccessLogAndHeader(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var gotLang string
	base := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		gotLang = r.Header.Get("Accept-Language")
		return &http.Response{StatusCode: http.StatusTeapot, Body: http.NoBody, Request: r}, nil
	})
	rt := Chain(base, WithAccessLog(logger), WithHeader("Accept-Language", "es"))

	req := httptest.NewRequest(http.MethodPost, "http://example.com/api/appointments", nil)
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	if gotLang != "es" {
		t.Fatalf("expected header to be set, got %q", gotLang)
	}
	out := buf.String()
	if !strings.Contains(out, `"status":418`) || !strings.Contains(out, `"path":"/api/appointments"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
}
